package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"checkout-orchestrator/internal/core/httpclient"
)

var (
	// ErrUnauthorized is returned for 401 responses (sign-in required).
	ErrUnauthorized = errors.New("commerce: unauthorized")
	// ErrForbidden is returned for 403 responses. Kept distinct from
	// ErrUnauthorized so the UI can show an access-denied message instead
	// of a sign-in prompt.
	ErrForbidden = errors.New("commerce: forbidden")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("commerce: not found")
)

// APIError carries the backend's message for a rejected request (e.g., 400).
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Message is the backend-provided error description.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("commerce: status %d: %s", e.StatusCode, e.Message)
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Err     string          `json:"error"`
}

// Client talks to the headless commerce backend. All endpoints share one base
// host and the {success, data, message, error} response envelope.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a commerce backend client with the shared logging HTTP client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  httpclient.NewClient(timeout),
	}
}

// Get issues a GET request and decodes the envelope data into out.
// token may be empty for public endpoints.
func (c *Client) Get(ctx context.Context, path, token string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, token, nil, nil, out)
}

// Post issues a JSON POST request and decodes the envelope data into out.
func (c *Client) Post(ctx context.Context, path, token string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, token, body, nil, out)
}

// PostWithHeaders issues a JSON POST request with extra headers (e.g., an
// idempotency key) and decodes the envelope data into out.
func (c *Client) PostWithHeaders(ctx context.Context, path, token string, body interface{}, headers map[string]string, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, token, body, headers, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body interface{}, headers map[string]string, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var env envelope
		msg := "unexpected backend response"
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
			if env.Message != "" {
				msg = env.Message
			} else if env.Err != "" {
				msg = env.Err
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success || env.Data == nil {
		msg := env.Message
		if msg == "" {
			msg = env.Err
		}
		if msg == "" {
			msg = "backend reported failure"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}
