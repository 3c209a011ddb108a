// ABOUTME: Request pipeline shared by every endpoint
// ABOUTME: Builds URLs, merges headers, sends JSON, and parses tolerant responses

package client

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

// RequestOptions describes a single API call
type RequestOptions struct {
	Method   string            // defaults to GET
	Body     interface{}       // JSON-encoded when non-nil
	Headers  map[string]string // merged over the defaults
	SkipAuth bool              // omit the Authorization header
}

// response is a parsed API response
type response struct {
	status int
	data   interface{}
}

// Request performs an API call and returns the parsed body: decoded JSON,
// the raw text when the body is not JSON, or nil when it is empty.
// Non-2xx responses fail with *APIError; transport failures do not.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (interface{}, error) {
	resp, err := c.do(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return resp.data, nil
}

func (c *Client) do(ctx context.Context, path string, opts RequestOptions) (*response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	// Set last so caller headers cannot suppress it
	if !opts.SkipAuth {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, req, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from backend: %w", err)
	}
	data := parseBody(raw)

	slog.Debug("API request",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", req.Header.Get("X-Request-ID"))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, data)
	}

	return &response{status: resp.StatusCode, data: data}, nil
}

// buildURL joins the base URL and path with exactly one slash
func (c *Client) buildURL(path string) string {
	p := path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if c.baseURL == "" {
		return p
	}
	return strings.TrimRight(c.baseURL, "/") + p
}

// parseBody decodes JSON when possible and keeps the raw text otherwise
func parseBody(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	// Trailing garbage means the body was not a single JSON document
	if _, err := dec.Token(); err != io.EOF {
		return string(raw)
	}
	return v
}
