package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Stream starts a streaming chat completion.
func (c *Client) Stream(ctx context.Context, req *ChatRequest) (Stream, error) {
	payload := c.buildPayload(req, true)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, wrap("marshal payload", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, wrap("create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	// The stream timeout replaces the shorter request timeout.
	hc := &http.Client{
		Timeout:   c.config.StreamTimeout,
		Transport: c.http.Transport,
	}
	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, wrap("stream request", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, parseAPIError(resp.StatusCode, respBody)
	}

	return &sseStream{
		reader: bufio.NewReader(resp.Body),
		body:   resp.Body,
	}, nil
}

// sseStream reads server-sent completion chunks.
type sseStream struct {
	reader *bufio.Reader
	body   io.ReadCloser
	closed bool
}

// Recv returns the next chunk.
func (s *sseStream) Recv() (*StreamChunk, error) {
	if s.closed {
		return nil, ErrStreamClosed
	}

	for {
		line, err := s.reader.ReadString('\n')
		if err == io.EOF {
			return &StreamChunk{Done: true}, nil
		}
		if err != nil {
			return nil, wrap("read stream", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			return &StreamChunk{Done: true}, nil
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			// Skip malformed events
			continue
		}

		if len(event.Choices) == 0 {
			continue
		}

		choice := event.Choices[0]
		return &StreamChunk{
			Delta:        choice.Delta.Content,
			FinishReason: choice.FinishReason,
			Raw:          json.RawMessage(data),
			Done:         choice.FinishReason != "",
		}, nil
	}
}

// Close stops the stream.
func (s *sseStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// streamEvent is the upstream SSE chunk format.
type streamEvent struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
			Role    string `json:"role"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
