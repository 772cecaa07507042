package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Mock implements Provider for testing.
// All methods can be customized via function fields.
type Mock struct {
	// ChatFunc is called when Chat is invoked. If nil, returns a
	// canned assistant reply.
	ChatFunc func(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// StreamFunc is called when Stream is invoked. If nil, returns a
	// stream that replays the canned reply in one chunk.
	StreamFunc func(ctx context.Context, req *ChatRequest) (Stream, error)

	// HealthFunc is called when Health is invoked. If nil, healthy.
	HealthFunc func(ctx context.Context) error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method   string
	Messages []Message
}

const mockReply = "[neutral] This is a mock response."

// NewMock creates a mock provider with canned responses.
func NewMock() *Mock {
	return &Mock{}
}

// Chat returns the scripted or canned response.
func (m *Mock) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	m.record("Chat", req)
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}

	raw, _ := json.Marshal(map[string]interface{}{
		"id":    "mock-completion",
		"model": req.Model,
		"choices": []map[string]interface{}{{
			"message":       map[string]string{"role": "assistant", "content": mockReply},
			"finish_reason": "stop",
		}},
	})

	return &ChatResponse{
		ID:           "mock-completion",
		Message:      NewAssistantMessage(mockReply),
		FinishReason: "stop",
		Model:        req.Model,
		Raw:          raw,
	}, nil
}

// Stream returns the scripted stream or the canned reply as one chunk.
func (m *Mock) Stream(ctx context.Context, req *ChatRequest) (Stream, error) {
	m.record("Stream", req)
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, req)
	}
	return NewMockStream(mockReply), nil
}

// Health returns the scripted health result.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }

// Calls returns the recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times a method was invoked.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Reset clears recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *Mock) record(method string, req *ChatRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var msgs []Message
	if req != nil {
		msgs = append(msgs, req.Messages...)
	}
	m.calls = append(m.calls, MockCall{Method: method, Messages: msgs})
}

// mockStream replays fixed deltas, then a Done chunk.
type mockStream struct {
	chunks []StreamChunk
	pos    int
}

// NewMockStream builds a Stream that emits each delta as a chunk with
// plausible raw JSON, then finishes.
func NewMockStream(deltas ...string) Stream {
	chunks := make([]StreamChunk, 0, len(deltas)+1)
	for i, d := range deltas {
		finish := ""
		if i == len(deltas)-1 {
			finish = "stop"
		}
		raw, _ := json.Marshal(map[string]interface{}{
			"id":     fmt.Sprintf("mock-chunk-%d", i),
			"object": "chat.completion.chunk",
			"choices": []map[string]interface{}{{
				"index":         0,
				"delta":         map[string]string{"content": d},
				"finish_reason": finish,
			}},
		})
		chunks = append(chunks, StreamChunk{
			Delta:        d,
			FinishReason: finish,
			Raw:          raw,
			Done:         finish != "",
		})
	}
	return &mockStream{chunks: chunks}
}

// ErrorStream returns a Stream whose first Recv fails with err.
func ErrorStream(err error) Stream {
	return &errStream{err: err}
}

func (s *mockStream) Recv() (*StreamChunk, error) {
	if s.pos >= len(s.chunks) {
		return &StreamChunk{Done: true}, nil
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return &chunk, nil
}

func (s *mockStream) Close() error { return nil }

type errStream struct{ err error }

func (s *errStream) Recv() (*StreamChunk, error) { return nil, s.err }
func (s *errStream) Close() error                { return nil }

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
