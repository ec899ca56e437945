// Package transport implements the HTTP+JSON boundary with the backend.
// It knows nothing about entities or failures: every error path ends in
// a typed transport error (*StatusError, *DecodeError) or a wrapped
// net error, which the failure package classifies.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusError is a non-2xx response. Message carries the structured
// error body field when the backend sent one, otherwise it is empty and
// the call site's fallback applies.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.Code)
}

// DecodeError is a malformed, truncated, or unexpectedly empty response
// body. Empty success bodies where a value is expected are decode
// errors, never silently coerced to zero values.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Client issues JSON requests against a single backend. Base URL and
// bearer token are fixed at construction; nothing is read ambiently per
// request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Client. baseURL must not include the /api/v1 prefix.
// token may be empty; requests are then sent unauthenticated.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient creates a Client with a caller-supplied http.Client.
// Used by tests to point at an httptest server.
func NewWithHTTPClient(baseURL, token string, hc *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: hc,
	}
}

// errBody is the structured error payload of non-2xx responses. The
// backend uses "error"; older endpoints use "detail".
type errBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (b errBody) message() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Detail
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response
// into out. out may be nil when no response value is expected.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE request. body may be nil for path-addressed
// deletes; out may be nil for 204 responses.
func (c *Client) Delete(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("transport: encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("transport: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transport: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errBody
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = json.Unmarshal(data, &eb)
		return &StatusError{Code: resp.StatusCode, Message: eb.message()}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &DecodeError{Err: errors.New("empty response body")}
		}
		return &DecodeError{Err: err}
	}
	return nil
}
