// ABOUTME: Study session endpoints: create, list, update, and delete
// ABOUTME: Validates required fields locally before any request is sent

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Default paging for ListSessions
const (
	DefaultPage = 1
	DefaultSize = 20
)

// CreateSession calls POST /sessions
func (c *Client) CreateSession(ctx context.Context, in SessionInput) (*Session, error) {
	if in.Topic == "" || in.Minutes == 0 || in.SessionDate == "" {
		return nil, validationError("All fields are required")
	}

	resp, err := c.do(ctx, "/sessions", RequestOptions{Method: http.MethodPost, Body: in})
	if err != nil {
		return nil, err
	}
	return decodeSessionResponse("POST /sessions", resp.data, in)
}

// ListSessions calls GET /sessions with paging and optional filters
func (c *Client) ListSessions(ctx context.Context, opts ListOptions) (*SessionPage, error) {
	page := opts.Page
	if page <= 0 {
		page = DefaultPage
	}
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	if opts.Topic != "" {
		params.Set("topic", opts.Topic)
	}
	if opts.StartDate != "" {
		params.Set("start_date", opts.StartDate)
	}
	if opts.EndDate != "" {
		params.Set("end_date", opts.EndDate)
	}

	resp, err := c.do(ctx, "/sessions?"+params.Encode(), RequestOptions{Method: http.MethodGet})
	if err != nil {
		return nil, err
	}
	return decodeSessionPage(resp.data)
}

// UpdateSession calls PUT /sessions/{id}
func (c *Client) UpdateSession(ctx context.Context, id int64, in SessionInput) (*Session, error) {
	if id <= 0 {
		return nil, validationError("session_id is required")
	}

	endpoint := fmt.Sprintf("/sessions/%d", id)
	resp, err := c.do(ctx, endpoint, RequestOptions{Method: http.MethodPut, Body: in})
	if err != nil {
		return nil, err
	}
	return decodeSessionResponse("PUT "+endpoint, resp.data, in)
}

// DeleteSession calls DELETE /sessions/{id}. The backend answers 204 No
// Content; any success is reported uniformly.
func (c *Client) DeleteSession(ctx context.Context, id int64) (*DeleteResult, error) {
	if id <= 0 {
		return nil, validationError("session_id is required")
	}

	if _, err := c.do(ctx, fmt.Sprintf("/sessions/%d", id), RequestOptions{Method: http.MethodDelete}); err != nil {
		return nil, err
	}
	return &DeleteResult{Success: true}, nil
}

// decodeSessionResponse falls back to the submitted values when the backend
// answers without a body
func decodeSessionResponse(endpoint string, data interface{}, in SessionInput) (*Session, error) {
	if data == nil {
		return &Session{Topic: in.Topic, Minutes: in.Minutes, SessionDate: in.SessionDate}, nil
	}
	if _, err := asObject(endpoint, data); err != nil {
		return nil, err
	}
	s := decodeSession(data)
	return &s, nil
}
