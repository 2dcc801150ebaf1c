// Package backend is the HTTP client for the chat endpoint the dashboard's
// assistant talks to.
//
//	POST {base}/chat   {"messages":[{"role":"user","content":"..."}]}
//	                -> {"reply":"..."}          on 2xx
//	                -> {"detail":"..."}         optionally, on failure
//	GET  {base}/health -> {"status":"ok"}
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/billie-coop/genomechat/internal/chat"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// maxErrorBody bounds how much of a failure body is read looking for detail.
const maxErrorBody = 64 << 10

// Client talks to the chat backend.
type Client struct {
	client  *http.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a client for the backend at baseURL. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		client:  &http.Client{},
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type chatRequest struct {
	Messages []chat.Turn `json:"messages"`
}

type chatResponse struct {
	Reply *string `json:"reply"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// Chat sends the ordered history and returns the assistant reply.
// Failures are *TransportError, *StatusError or *ProtocolError.
func (c *Client) Chat(ctx context.Context, turns []chat.Turn) (string, error) {
	if turns == nil {
		turns = []chat.Turn{}
	}
	body, err := json.Marshal(chatRequest{Messages: turns})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	var result chatResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", &ProtocolError{Reason: "body is not valid JSON", Err: err}
	}
	if result.Reply == nil {
		return "", &ProtocolError{Reason: "missing reply field"}
	}
	return *result.Reply, nil
}

// Health checks that the backend is up.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// statusError extracts a string detail from a failure body when there is one.
// FastAPI style validation errors carry a list in detail; those fall back to
// the generic status description.
func statusError(resp *http.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return se
	}
	var body errorResponse
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return se
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		se.Detail = strings.TrimSpace(detail)
	}
	return se
}
