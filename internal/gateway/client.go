// Package gateway is the HTTP client for the REST gateway that owns customers,
// products and inventory.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultErrorMessage is used when a failed response carries no message.
const DefaultErrorMessage = "request failed"

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Credentials are attached to every request made by a Client. An empty Token
// sends no Authorization header.
type Credentials struct {
	Token string
}

// StatusError is returned for any non-2xx gateway response. Message is the
// gateway's own message when it sent one.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	client  *http.Client
	creds   Credentials
}

// NewClient creates a client for the gateway at baseURL. A zero timeout means
// requests are bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// WithCredentials returns a copy of c that authenticates as creds.
func (c *Client) WithCredentials(creds Credentials) *Client {
	cp := *c
	cp.creds = creds
	return &cp
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// newHTTPRequest builds a JSON request against path, relative to the base URL.
func (c *Client) newHTTPRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		rd = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.creds.Token)
	}
	return req, nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	req, err := c.newHTTPRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call gateway: %w", err)
	}
	return resp, nil
}

// Do sends body as JSON and decodes a successful response into out. out may
// be nil, and an empty success body leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		return readStatusError(resp)
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Delete issues a DELETE and reports whether the gateway confirmed it. See
// ParseDeleteResponse for the accepted body shapes.
func (c *Client) Delete(ctx context.Context, path string) (bool, error) {
	resp, err := c.send(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return false, err
	}
	defer closeBody(resp)

	ok := isSuccess(resp.StatusCode)
	if !ok {
		return false, readStatusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	return ParseDeleteResponse(data).Resolve(ok), nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// readStatusError builds a StatusError from a failed response, taking the
// message from a JSON body when there is one.
func readStatusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			slog.Debug("gateway error body is not JSON", "status", resp.StatusCode, "error", err)
		}
	}

	msg := errorMessage(body.Message)
	if msg == "" {
		msg = DefaultErrorMessage
	}
	return &StatusError{Status: resp.StatusCode, Message: msg}
}

// errorMessage reads a message that is either a string or a list of strings.
// Lists are joined with "; ".
func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err != nil {
		return ""
	}
	parts := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, "; ")
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		slog.Error("failed to close gateway response body", "error", err)
	}
}
