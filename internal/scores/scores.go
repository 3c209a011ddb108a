// ABOUTME: Client for the hosted scores table (Supabase REST)
// ABOUTME: Supports anonymous sign-in, listing the latest scores, and adding a score

package scores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/validate"
)

// ErrNotConfigured is returned by every call when the URL or key is missing
var ErrNotConfigured = errors.New("Supabase is not configured. Set SUPABASE_URL and SUPABASE_KEY in .env and restart.")

const (
	clientInfo  = "pst-web-frontend"
	latestPath  = "/rest/v1/scores?select=*&order=created_at.desc&limit=20"
	insertPath  = "/rest/v1/scores"
	signupPath  = "/auth/v1/signup"
)

// Score is one row of the scores table
type Score struct {
	ID        string  `json:"id" yaml:"id"`
	Username  string  `json:"username" yaml:"username"`
	Score     float64 `json:"score" yaml:"score"`
	Level     string  `json:"level" yaml:"level"`
	CreatedAt string  `json:"created_at" yaml:"created_at"`
}

// NewScore is the insert payload
type NewScore struct {
	Username string  `json:"username"`
	Score    float64 `json:"score"`
	Level    string  `json:"level"`
}

// sessionTokens sends the anonymous session token when one exists and the
// anon key otherwise. The session is never persisted.
type sessionTokens struct {
	mu      sync.RWMutex
	anonKey string
	session string
}

func (s *sessionTokens) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session != "" {
		return s.session
	}
	return s.anonKey
}

func (s *sessionTokens) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = token
}

func (s *sessionTokens) hasSession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != ""
}

// Client talks to the scores table
type Client struct {
	api    *client.Client
	tokens *sessionTokens
}

// New creates a scores client. With an empty url or key the client is
// returned unconfigured and every call fails with ErrNotConfigured.
func New(url, key string, opts ...client.Option) *Client {
	url = strings.TrimSpace(url)
	key = strings.TrimSpace(key)
	if url == "" || key == "" {
		slog.Warn("Scores disabled: missing SUPABASE_URL or SUPABASE_KEY")
		return &Client{}
	}

	tokens := &sessionTokens{anonKey: key}
	all := append([]client.Option{
		client.WithHeader("apikey", key),
		client.WithHeader("X-Client-Info", clientInfo),
	}, opts...)
	all = append(all, client.WithTokenStore(tokens))

	return &Client{api: client.New(url, all...), tokens: tokens}
}

// Configured reports whether the URL and key were provided
func (c *Client) Configured() bool {
	return c.api != nil
}

// SignInAnonymously creates an anonymous auth session and keeps its token
// in memory for later calls
func (c *Client) SignInAnonymously(ctx context.Context) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	data, err := c.api.Request(ctx, signupPath, client.RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]interface{}{},
	})
	if err != nil {
		return err
	}

	obj, ok := data.(map[string]interface{})
	if !ok {
		return &client.DecodeError{Endpoint: "POST " + signupPath, Err: errors.New("expected a JSON object")}
	}
	if token, ok := obj["access_token"].(string); ok && token != "" {
		c.tokens.SetToken(token)
		slog.Debug("Anonymous scores session established")
	}
	return nil
}

// EnsureSession signs in anonymously once. Failure is only logged since
// permissive table policies accept the anon key alone.
func (c *Client) EnsureSession(ctx context.Context) {
	if c.Configured() && c.tokens.hasSession() {
		return
	}
	if err := c.SignInAnonymously(ctx); err != nil {
		slog.Warn("Anonymous sign-in failed", "error", err)
	}
}

// Latest returns the newest scores, newest first
func (c *Client) Latest(ctx context.Context) ([]Score, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	data, err := c.api.Request(ctx, latestPath, client.RequestOptions{Method: http.MethodGet})
	if err != nil {
		return nil, err
	}
	return decodeScores(data)
}

// Add validates and inserts a score
func (c *Client) Add(ctx context.Context, in NewScore) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Level = strings.TrimSpace(in.Level)
	switch {
	case in.Username == "":
		return validate.ErrUsernameRequired
	case math.IsNaN(in.Score) || math.IsInf(in.Score, 0):
		return validate.ErrScoreInvalid
	case in.Level == "":
		return validate.ErrLevelRequired
	}

	_, err := c.api.Request(ctx, insertPath, client.RequestOptions{
		Method:  http.MethodPost,
		Body:    in,
		Headers: map[string]string{"Prefer": "return=minimal"},
	})
	return err
}

func decodeScores(data interface{}) ([]Score, error) {
	if data == nil {
		return []Score{}, nil
	}
	list, ok := data.([]interface{})
	if !ok {
		return nil, &client.DecodeError{Endpoint: "GET /rest/v1/scores", Err: fmt.Errorf("expected a JSON array, got %T", data)}
	}

	out := make([]Score, 0, len(list))
	for _, item := range list {
		row, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, Score{
			ID:        text(row["id"]),
			Username:  text(row["username"]),
			Score:     number(row["score"]),
			Level:     text(row["level"]),
			CreatedAt: text(row["created_at"]),
		})
	}
	return out, nil
}

func text(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func number(v interface{}) float64 {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err == nil {
			return f
		}
	case float64:
		return n
	}
	return 0
}
