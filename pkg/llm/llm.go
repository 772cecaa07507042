// Package llm provides a chat-completion client for OpenAI-compatible
// APIs (Groq, OpenAI, Ollama, vLLM and others).
//
// The package exists to serve the RAG proxy: besides the parsed response
// it preserves the raw upstream JSON so a proxy can re-emit completions
// and stream chunks verbatim.
//
// Example usage:
//
//	client, _ := llm.NewClient(
//	    llm.WithAPIKey(os.Getenv("GROQ_API_KEY")),
//	    llm.WithModel("llama-3.3-70b-versatile"),
//	)
//	defer client.Close()
//
//	resp, _ := client.Chat(ctx, &llm.ChatRequest{
//	    Messages: []llm.Message{llm.NewUserMessage("Hello!")},
//	})
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the chat-completion interface implemented by Client and Mock.
type Provider interface {
	// Chat generates a complete response from a sequence of messages.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Stream generates a streaming response for real-time output.
	Stream(ctx context.Context, req *ChatRequest) (Stream, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// Stream is a streaming chat response.
type Stream interface {
	// Recv returns the next chunk. The final chunk has Done set.
	Recv() (*StreamChunk, error)

	// Close stops the stream and releases resources.
	Close() error
}

// StreamChunk is one piece of a streaming response.
type StreamChunk struct {
	// Delta is the incremental text content.
	Delta string

	// FinishReason indicates why generation stopped (stop, length).
	FinishReason string

	// Raw is the upstream chunk JSON, exactly as received, for
	// verbatim re-emission by a proxy. Empty on synthetic chunks.
	Raw json.RawMessage

	// Done is true when the stream is complete.
	Done bool
}

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewSystemMessage builds a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage builds a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage builds an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ChatRequest describes a chat completion.
type ChatRequest struct {
	// Messages is the conversation history.
	Messages []Message

	// Model overrides the client default.
	Model string

	// MaxTokens limits the response length. Zero uses the default.
	MaxTokens int

	// Temperature controls randomness (0.0-2.0). Zero uses the default.
	Temperature float64

	// TopP controls nucleus sampling.
	TopP float64

	// Stop sequences that halt generation.
	Stop []string
}

// ChatResponse is a complete (non-streaming) completion.
type ChatResponse struct {
	// ID is the upstream completion ID.
	ID string

	// Message is the assistant's reply.
	Message Message

	// FinishReason indicates why generation stopped.
	FinishReason string

	// Usage tracks token consumption.
	Usage Usage

	// Model that produced the completion.
	Model string

	// Raw is the upstream response body, exactly as received.
	Raw json.RawMessage

	// LatencyMs is the round-trip time in milliseconds.
	LatencyMs int64
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
