// ABOUTME: Error types returned by the API client
// ABOUTME: Distinguishes server rejections, local validation, decoding, and transport failures

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
)

// ErrValidation matches APIErrors raised by local input validation
var ErrValidation = errors.New("validation failed")

// APIError is returned when the backend rejects a request or when required
// input is missing before a request is sent
type APIError struct {
	Message string
	Status  int
	Details interface{} // parsed response body, nil for local validation
	Local   bool        // true when raised before any network call
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) identify local validation failures
func (e *APIError) Is(target error) bool {
	return target == ErrValidation && e.Local
}

// validationError builds the uniform client-side validation failure
func validationError(message string) *APIError {
	return &APIError{Message: message, Status: http.StatusBadRequest, Local: true}
}

// newAPIError extracts a message from detail, then message, then the status
func newAPIError(status int, data interface{}) *APIError {
	message := fmt.Sprintf("Request failed with status %d", status)
	if obj, ok := data.(map[string]interface{}); ok {
		if m := messageField(obj["detail"]); m != "" {
			message = m
		} else if m := messageField(obj["message"]); m != "" {
			message = m
		}
	}
	return &APIError{Message: message, Status: status, Details: data}
}

// messageField renders an error field as text. Structured values such as
// validation error lists are rendered as compact JSON.
func messageField(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []interface{}, map[string]interface{}:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	default:
		return fmt.Sprint(val)
	}
}

// DecodeError is returned when a successful response does not have the
// shape an endpoint promises
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, req *http.Request, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled: %w", ctx.Err())
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ctx.Err())
	}
	target := c.baseURL
	if target == "" {
		target = req.URL.String()
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", target, err)
}

var networkPattern = regexp.MustCompile(`(?i)cannot connect|connection refused|no such host|timed out|timeout|network|unsupported protocol scheme`)

// Message returns the text a screen should show for err: the API message
// when the backend or validation produced one, fallback otherwise
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// FriendlyMessage is like Message but explains network failures, which are
// the usual cause when the API base URL is wrong or the backend is down
func FriendlyMessage(err error, action string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return Message(err, "Failed to "+action)
	}
	if networkPattern.MatchString(err.Error()) {
		return fmt.Sprintf("Failed to %s (network). Verify the backend API is running at the configured API base URL.", action)
	}
	if err.Error() != "" {
		return err.Error()
	}
	return "Failed to " + action
}
