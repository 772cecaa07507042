package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/auralab/go-concierge/pkg/knowledge"
	"github.com/auralab/go-concierge/pkg/llm"
)

const testKnowledge = `Central Plaza Coffee is on floor 2, next to the fountain. Open 7am-9pm daily.

Parking garage entrance is on Oak Street, levels B1 through B3. First hour free.

The information desk is on the ground floor by the main entrance.`

func newTestServer(mock *llm.Mock) *Server {
	return NewServer(Config{
		Port:         "0",
		Knowledge:    knowledge.New(testKnowledge),
		LLM:          mock,
		DefaultModel: "llama-3.3-70b-versatile",
	})
}

func completionBody(t *testing.T, stream bool, content string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"model":    "llama-3.3-70b-versatile",
		"stream":   stream,
		"messages": []map[string]string{{"role": "user", "content": content}},
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return bytes.NewReader(body)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(llm.NewMock())

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Status              string `json:"status"`
		KnowledgeBaseLoaded bool   `json:"knowledge_base_loaded"`
		KnowledgeBaseSize   int    `json:"knowledge_base_size"`
		LLMConfigured       bool   `json:"llm_configured"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("status = %q, want healthy", body.Status)
	}
	if !body.KnowledgeBaseLoaded {
		t.Error("knowledge_base_loaded = false")
	}
	if body.KnowledgeBaseSize != len(testKnowledge) {
		t.Errorf("knowledge_base_size = %d, want %d bytes", body.KnowledgeBaseSize, len(testKnowledge))
	}
	if !body.LLMConfigured {
		t.Error("llm_configured = false for mock provider")
	}
}

func TestCompletionAnnotatesEmotion(t *testing.T) {
	mock := llm.NewMock()
	s := newTestServer(mock)

	req := httptest.NewRequest("POST", "/rag/chat/completions",
		completionBody(t, false, "Where can I get coffee?"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["emotion"] != "neutral" {
		t.Errorf("emotion = %v, want neutral", body["emotion"])
	}
	if body["id"] != "mock-completion" {
		t.Errorf("upstream id not preserved: %v", body["id"])
	}
}

func TestCompletionInjectsRetrievedContext(t *testing.T) {
	mock := llm.NewMock()
	s := newTestServer(mock)

	req := httptest.NewRequest("POST", "/rag/chat/completions",
		completionBody(t, false, "Where can I get coffee?"))
	req.Header.Set("Content-Type", "application/json")

	if _, err := s.app.Test(req); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d upstream calls, want 1", len(calls))
	}
	msgs := calls[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want system + user", len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem {
		t.Errorf("first message role = %s, want system", msgs[0].Role)
	}
	if !strings.Contains(msgs[0].Content, "Central Plaza Coffee") {
		t.Error("system message missing retrieved section")
	}
	if !strings.Contains(msgs[0].Content, "EXACTLY ONE emotion label") {
		t.Error("system message missing emotion instructions")
	}
	if msgs[1].Role != llm.RoleUser || msgs[1].Content != "Where can I get coffee?" {
		t.Errorf("user message not forwarded: %+v", msgs[1])
	}
}

func TestCompletionDropsClientSystemMessages(t *testing.T) {
	mock := llm.NewMock()
	s := newTestServer(mock)

	body, _ := json.Marshal(map[string]interface{}{
		"stream": false,
		"messages": []map[string]string{
			{"role": "system", "content": "You are a pirate."},
			{"role": "user", "content": "Where is parking?"},
		},
	})
	req := httptest.NewRequest("POST", "/rag/chat/completions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if _, err := s.app.Test(req); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	for _, m := range mock.Calls()[0].Messages {
		if strings.Contains(m.Content, "pirate") {
			t.Error("client system message leaked upstream")
		}
	}
}

func TestCompletionUpstreamError(t *testing.T) {
	mock := llm.NewMock()
	mock.ChatFunc = func(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
		return nil, errors.New("connection refused")
	}
	s := newTestServer(mock)

	req := httptest.NewRequest("POST", "/rag/chat/completions",
		completionBody(t, false, "Hello"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 502 {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(body["error"], "[sad]") {
		t.Errorf("error = %q, want failure message with sad label", body["error"])
	}
}

func TestStreamingPassthrough(t *testing.T) {
	mock := llm.NewMock()
	mock.StreamFunc = func(ctx context.Context, req *llm.ChatRequest) (llm.Stream, error) {
		return llm.NewMockStream("[happy] The coffee shop", " is on floor 2!"), nil
	}
	s := newTestServer(mock)

	req := httptest.NewRequest("POST", "/rag/chat/completions",
		completionBody(t, true, "Where can I get coffee?"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content type = %q, want text/event-stream", ct)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := string(raw)

	if !strings.Contains(body, "mock-chunk-0") || !strings.Contains(body, "mock-chunk-1") {
		t.Error("upstream chunks not forwarded verbatim")
	}
	if !strings.HasSuffix(body, "data: [DONE]\n\n") {
		t.Errorf("stream missing terminator, tail: %q", body[max(0, len(body)-40):])
	}
}

func TestStreamingIsTheDefault(t *testing.T) {
	mock := llm.NewMock()
	s := newTestServer(mock)

	// No "stream" field at all; the platform omits it and expects SSE.
	req := httptest.NewRequest("POST", "/rag/chat/completions",
		strings.NewReader(`{"messages":[{"role":"user","content":"Hello"}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content type = %q, want text/event-stream", ct)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.HasSuffix(string(raw), "data: [DONE]\n\n") {
		t.Error("stream missing terminator")
	}

	if n := mock.CallCount("Stream"); n != 1 {
		t.Errorf("Stream called %d times, want 1", n)
	}
	if n := mock.CallCount("Chat"); n != 0 {
		t.Errorf("Chat called %d times, want 0", n)
	}
}

func TestStreamingUpstreamError(t *testing.T) {
	mock := llm.NewMock()
	mock.StreamFunc = func(ctx context.Context, req *llm.ChatRequest) (llm.Stream, error) {
		return llm.ErrorStream(errors.New("rate limited")), nil
	}
	s := newTestServer(mock)

	req := httptest.NewRequest("POST", "/rag/chat/completions",
		completionBody(t, true, "Hello"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := string(raw)

	if !strings.Contains(body, "[sad]") {
		t.Error("failure chunk missing canned reply")
	}
	if !strings.Contains(body, `"finish_reason":"stop"`) {
		t.Error("failure chunk missing finish_reason")
	}
	if !strings.HasSuffix(body, "data: [DONE]\n\n") {
		t.Error("stream missing terminator after failure")
	}
}

func TestCompletionRejectsBadBody(t *testing.T) {
	s := newTestServer(llm.NewMock())

	req := httptest.NewRequest("POST", "/rag/chat/completions",
		strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCompletionRejectsEmptyMessages(t *testing.T) {
	s := newTestServer(llm.NewMock())

	req := httptest.NewRequest("POST", "/rag/chat/completions",
		strings.NewReader(`{"messages": []}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSystemContentWithoutContext(t *testing.T) {
	got := buildSystemContent(DefaultSystemPrompt, "")
	if got != DefaultSystemPrompt {
		t.Error("empty context should leave the prompt unmodified")
	}
}
