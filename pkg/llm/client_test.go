package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected /chat/completions, got %s", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Expected Bearer test-key, got %s", auth)
		}

		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["model"] != "llama-3.3-70b-versatile" {
			t.Errorf("Unexpected model: %v", payload["model"])
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-123",
			"model": "llama-3.3-70b-versatile",
			"choices": [{"message": {"role": "assistant", "content": "[happy] Glad to help!"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 6, "total_tokens": 18}
		}`)
	}))
	defer server.Close()

	client, err := NewClient(
		WithBaseURL(server.URL),
		WithAPIKey("test-key"),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Close()

	resp, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("Hello")},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if resp.Message.Content != "[happy] Glad to help!" {
		t.Errorf("Unexpected content: %s", resp.Message.Content)
	}
	if resp.ID != "chatcmpl-123" {
		t.Errorf("Unexpected ID: %s", resp.ID)
	}
	if resp.Usage.TotalTokens != 18 {
		t.Errorf("Expected 18 tokens, got %d", resp.Usage.TotalTokens)
	}
	if len(resp.Raw) == 0 {
		t.Error("Expected raw body to be preserved")
	}
}

func TestClientChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "Invalid API Key", "code": "invalid_api_key"}}`)
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL), WithAPIKey("bad-key"))
	defer client.Close()

	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("Hello")},
	})
	if err == nil {
		t.Fatal("Expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 401 || !apiErr.IsUnauthorized() {
		t.Errorf("Unexpected status: %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid API Key" {
		t.Errorf("Unexpected message: %s", apiErr.Message)
	}
}

func TestClientChatRetriesServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "ok", "choices": [{"message": {"role": "assistant", "content": "recovered"}, "finish_reason": "stop"}]}`)
	}))
	defer server.Close()

	client, _ := NewClient(
		WithBaseURL(server.URL),
		WithRetry(2, time.Millisecond),
	)
	defer client.Close()

	resp, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("Hello")},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Message.Content != "recovered" {
		t.Errorf("Unexpected content: %s", resp.Message.Content)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestClientStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["stream"] != true {
			t.Error("Expected stream=true in payload")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"[excited] \"},\"finish_reason\":\"\"}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Big sale!\"},\"finish_reason\":\"\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	defer client.Close()

	stream, err := client.Stream(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("Any offers?")},
	})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer stream.Close()

	var full string
	var chunks int
	for {
		chunk, err := stream.Recv()
		if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
		if chunk.Done {
			break
		}
		chunks++
		full += chunk.Delta
		if len(chunk.Raw) == 0 {
			t.Error("Expected raw chunk JSON")
		}
	}

	if full != "[excited] Big sale!" {
		t.Errorf("Unexpected assembled text: %q", full)
	}
	if chunks != 2 {
		t.Errorf("Expected 2 content chunks, got %d", chunks)
	}
}

func TestClientStreamUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "bad request"}}`)
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL), WithRetry(0, 0))
	defer client.Close()

	_, err := client.Stream(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("Hello")},
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 400 {
		t.Errorf("Expected 400 APIError, got %v", err)
	}
}

func TestMockStreamAssembles(t *testing.T) {
	stream := NewMockStream("Hello, ", "world!")

	var full string
	for {
		chunk, err := stream.Recv()
		if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
		full += chunk.Delta
		if chunk.Done {
			break
		}
	}
	if full != "Hello, world!" {
		t.Errorf("Assembled %q", full)
	}
}

func TestMockRecordsCalls(t *testing.T) {
	mock := NewMock()

	_, err := mock.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if mock.CallCount("Chat") != 1 {
		t.Errorf("Expected 1 Chat call, got %d", mock.CallCount("Chat"))
	}

	mock.Reset()
	if len(mock.Calls()) != 0 {
		t.Error("Expected 0 calls after reset")
	}
}
