package rag

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/auralab/go-concierge/internal/log"
	"github.com/auralab/go-concierge/pkg/emotion"
	"github.com/auralab/go-concierge/pkg/llm"
)

// streamTimeout bounds one full streamed completion.
const streamTimeout = 2 * time.Minute

// ChatMessage is one entry in a completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the OpenAI-style request body. Stream
// defaults to true when omitted, matching what the platform sends.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      *bool         `json:"stream"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// handleRoot returns service info.
func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "Knowledge Lookup Service",
		"status":  "running",
		"endpoints": fiber.Map{
			"/rag/chat/completions": "POST - RAG-enhanced chat completions with emotion labels",
			"/health":               "GET - Health check",
		},
	})
}

// handleHealth reports service health. Always 200 while the process is
// up; knowledge/upstream state is informational.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	configured := s.llm != nil
	if cp, ok := s.llm.(interface{ Configured() bool }); ok {
		configured = cp.Configured()
	}
	return c.JSON(fiber.Map{
		"status":                "healthy",
		"knowledge_base_loaded": s.kb.Loaded(),
		"knowledge_base_size":   s.kb.Size(),
		"llm_configured":        configured,
	})
}

// handleCompletions runs the retrieval-augmented completion.
func (s *Server) handleCompletions(c *fiber.Ctx) error {
	var req ChatCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if len(req.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "messages required",
		})
	}

	query := latestUserMessage(req.Messages)
	retrieved := s.kb.Search(query)

	log.Info("completion request",
		"query", query,
		"context_bytes", len(retrieved),
		"stream", req.Stream == nil || *req.Stream,
	)

	model := req.Model
	if model == "" {
		model = s.model
	}

	chatReq := &llm.ChatRequest{
		Messages:    s.buildMessages(req.Messages, retrieved),
		Model:       model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	if req.Stream == nil || *req.Stream {
		return s.streamCompletion(c, chatReq)
	}
	return s.completeOnce(c, chatReq)
}

// latestUserMessage returns the content of the newest user turn.
func latestUserMessage(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

// buildMessages assembles the augmented message list: one system
// message with the emotion prompt and any retrieved context, then the
// original conversation minus its own system messages.
func (s *Server) buildMessages(original []ChatMessage, retrieved string) []llm.Message {
	out := []llm.Message{
		llm.NewSystemMessage(buildSystemContent(s.prompt, retrieved)),
	}
	for _, m := range original {
		if m.Role == "system" {
			continue
		}
		out = append(out, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	return out
}

// completeOnce forwards a non-streaming completion and annotates the
// upstream response with the detected emotion.
func (s *Server) completeOnce(c *fiber.Ctx, req *llm.ChatRequest) error {
	resp, err := s.llm.Chat(c.UserContext(), req)
	if err != nil {
		log.Error("upstream completion failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": s.failureMsg,
		})
	}

	label, _ := emotion.Detect(resp.Message.Content)

	var body map[string]interface{}
	if err := json.Unmarshal(resp.Raw, &body); err != nil || body == nil {
		body = map[string]interface{}{
			"id":     "chatcmpl-" + uuid.New().String(),
			"object": "chat.completion",
			"model":  resp.Model,
			"choices": []map[string]interface{}{{
				"index": 0,
				"message": map[string]string{
					"role":    "assistant",
					"content": resp.Message.Content,
				},
				"finish_reason": resp.FinishReason,
			}},
		}
	}
	body["emotion"] = string(label)

	log.Info("completion answered", "emotion", label, "latency_ms", resp.LatencyMs)
	return c.JSON(body)
}

// streamCompletion proxies the upstream SSE stream chunk-for-chunk.
// Upstream failure degrades to a single synthetic chunk carrying the
// failure message so the caller still hears something.
func (s *Server) streamCompletion(c *fiber.Ctx, req *llm.ChatRequest) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("Connection", "keep-alive")

	model := req.Model

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithTimeout(context.Background(), streamTimeout)
		defer cancel()

		stream, err := s.llm.Stream(ctx, req)
		if err != nil {
			log.Error("upstream stream failed", "error", err)
			s.writeFailureChunk(w, model)
			return
		}
		defer stream.Close()

		var reply strings.Builder
		for {
			chunk, err := stream.Recv()
			if err != nil {
				log.Error("stream read failed", "error", err)
				s.writeFailureChunk(w, model)
				return
			}
			if len(chunk.Raw) > 0 {
				fmt.Fprintf(w, "data: %s\n\n", chunk.Raw)
				w.Flush()
				reply.WriteString(chunk.Delta)
			}
			if chunk.Done {
				break
			}
		}

		fmt.Fprint(w, "data: [DONE]\n\n")
		w.Flush()

		label, _ := emotion.Detect(reply.String())
		log.Info("completion streamed", "emotion", label, "chars", reply.Len())
	})

	return nil
}

// writeFailureChunk emits the canned failure reply as one completion
// chunk followed by the stream terminator.
func (s *Server) writeFailureChunk(w *bufio.Writer, model string) {
	chunk := map[string]interface{}{
		"id":      "chatcmpl-" + uuid.New().String(),
		"object":  "chat.completion.chunk",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]interface{}{{
			"index": 0,
			"delta": map[string]string{
				"role":    "assistant",
				"content": s.failureMsg,
			},
			"finish_reason": "stop",
		}},
	}

	data, err := json.Marshal(chunk)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	fmt.Fprint(w, "data: [DONE]\n\n")
	w.Flush()
}
