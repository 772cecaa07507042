// Package agora manages the remote conversational AI agent through the
// platform's REST API.
//
// The platform runs the actual agent (ASR, LLM routing, TTS, RTC); this
// package only starts and stops it. Authentication is HTTP basic auth
// built from the customer key/secret pair.
package agora

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/auralab/go-concierge/internal/httpc"
)

// DefaultBaseURL is the platform's conversational AI agent API root.
const DefaultBaseURL = "https://api.agora.io/api/conversational-ai-agent/v2"

// Client calls the agent lifecycle endpoints for one project.
type Client struct {
	// BaseURL may be overridden for testing.
	BaseURL string

	appID          string
	customerKey    string
	customerSecret string
	http           *http.Client
}

// NewClient creates a lifecycle client for the given project.
func NewClient(appID, customerKey, customerSecret string) *Client {
	return &Client{
		BaseURL:        DefaultBaseURL,
		appID:          appID,
		customerKey:    customerKey,
		customerSecret: customerSecret,
		http:           httpc.Client,
	}
}

// JoinResponse is the platform's reply to a successful join.
type JoinResponse struct {
	AgentID  string `json:"agent_id"`
	Status   string `json:"status"`
	CreateTS int64  `json:"create_ts"`
}

// Join starts an agent in the configured channel and returns its ID.
func (c *Client) Join(ctx context.Context, req *JoinRequest) (*JoinResponse, error) {
	url := fmt.Sprintf("%s/projects/%s/join", c.BaseURL, c.appID)

	resp, err := c.post(ctx, url, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("agora: read join response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	var result JoinResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("agora: decode join response: %w", err)
	}
	return &result, nil
}

// Leave stops a running agent and removes it from the channel.
func (c *Client) Leave(ctx context.Context, agentID string) error {
	if agentID == "" {
		return fmt.Errorf("agora: agent ID required")
	}

	url := fmt.Sprintf("%s/projects/%s/agents/%s/leave", c.BaseURL, c.appID, agentID)

	resp, err := c.post(ctx, url, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return newAPIError(resp.StatusCode, body)
	}
	return nil
}

// post sends an authenticated JSON POST.
func (c *Client) post(ctx context.Context, url string, payload interface{}) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("agora: marshal payload: %w", err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("agora: create request: %w", err)
	}

	req.Header.Set("Authorization", "Basic "+c.basicAuth())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agora: request failed: %w", err)
	}
	return resp, nil
}

// basicAuth encodes customerKey:customerSecret for the Authorization header.
func (c *Client) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(c.customerKey + ":" + c.customerSecret))
}

// APIError is a non-2xx platform response.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("agora: API error %d: %s", e.StatusCode, e.Message)
}

// newAPIError extracts a message from an error response body.
func newAPIError(status int, body []byte) error {
	var errResp struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Message != "" {
			message = errResp.Message
		} else if errResp.Detail != "" {
			message = errResp.Detail
		}
	}

	return &APIError{StatusCode: status, Message: message}
}
