// ABOUTME: Tests for the scores client
// ABOUTME: Verifies headers, anonymous sessions, listing, inserts, and unconfigured behavior

package scores

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/validate"
)

func TestUnconfigured(t *testing.T) {
	tests := []struct{ url, key string }{
		{"", ""},
		{"https://project.supabase.co", ""},
		{"", "anon-key"},
	}

	for _, tc := range tests {
		c := New(tc.url, tc.key)
		if c.Configured() {
			t.Errorf("expected unconfigured for %q/%q", tc.url, tc.key)
		}
		if _, err := c.Latest(context.Background()); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("Latest: expected ErrNotConfigured, got %v", err)
		}
		if err := c.Add(context.Background(), NewScore{Username: "a", Score: 1, Level: "x"}); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("Add: expected ErrNotConfigured, got %v", err)
		}
		if err := c.SignInAnonymously(context.Background()); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("SignInAnonymously: expected ErrNotConfigured, got %v", err)
		}
		c.EnsureSession(context.Background())
	}
}

func TestLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/scores" {
			t.Errorf("expected /rest/v1/scores, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("select") != "*" || q.Get("order") != "created_at.desc" || q.Get("limit") != "20" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("expected apikey header, got %q", r.Header.Get("apikey"))
		}
		if r.Header.Get("X-Client-Info") != "pst-web-frontend" {
			t.Errorf("expected X-Client-Info header, got %q", r.Header.Get("X-Client-Info"))
		}
		if r.Header.Get("Authorization") != "Bearer anon-key" {
			t.Errorf("expected anon key as bearer before sign-in, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`[
			{"id": 2, "username": "bob", "score": 12.5, "level": "hard", "created_at": "2024-01-02T00:00:00Z"},
			{"id": 1, "username": "alice", "score": 10, "level": "easy", "created_at": "2024-01-01T00:00:00Z"},
			"junk"
		]`))
	}))
	defer server.Close()

	got, err := New(server.URL, "anon-key").Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(got))
	}
	want := Score{ID: "2", Username: "bob", Score: 12.5, Level: "hard", CreatedAt: "2024-01-02T00:00:00Z"}
	if got[0] != want {
		t.Errorf("expected %+v, got %+v", want, got[0])
	}
}

func TestLatest_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	got, err := New(server.URL, "anon-key").Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestLatest_NotArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rows":[]}`))
	}))
	defer server.Close()

	_, err := New(server.URL, "anon-key").Latest(context.Background())
	var decErr *client.DecodeError
	if !errors.As(err, &decErr) {
		t.Errorf("expected *DecodeError, got %v", err)
	}
}

func TestAdd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/scores" {
			t.Errorf("expected POST /rest/v1/scores, got %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Prefer") != "return=minimal" {
			t.Errorf("expected Prefer header, got %q", r.Header.Get("Prefer"))
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" || body["score"] != 42.0 || body["level"] != "easy" {
			t.Errorf("expected trimmed payload, got %v", body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := New(server.URL, "anon-key").Add(context.Background(), NewScore{Username: "  alice ", Score: 42, Level: " easy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdd_Validation(t *testing.T) {
	c := New("http://localhost:1", "anon-key", client.WithTransport(client.TransportFunc(func(r *http.Request) (*http.Response, error) {
		t.Errorf("unexpected network call to %s", r.URL)
		return nil, errors.New("network disabled")
	})))

	tests := []struct {
		in   NewScore
		want error
	}{
		{NewScore{Username: " ", Score: 1, Level: "x"}, validate.ErrUsernameRequired},
		{NewScore{Username: "a", Score: 1, Level: ""}, validate.ErrLevelRequired},
	}
	for _, tc := range tests {
		if err := c.Add(context.Background(), tc.in); !errors.Is(err, tc.want) {
			t.Errorf("Add(%+v) = %v, want %v", tc.in, err, tc.want)
		}
	}
}

func TestAdd_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"new row violates row-level security policy"}`))
	}))
	defer server.Close()

	err := New(server.URL, "anon-key").Add(context.Background(), NewScore{Username: "a", Score: 1, Level: "x"})
	if err == nil || err.Error() != "new row violates row-level security policy" {
		t.Errorf("expected policy message, got %v", err)
	}
}

func TestSignInAnonymously_UsesSessionToken(t *testing.T) {
	var lastAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/signup":
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			w.Write([]byte(`{"access_token":"anon-session","user":{"id":"u1","is_anonymous":true}}`))
		default:
			lastAuth = r.Header.Get("Authorization")
			w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	c := New(server.URL, "anon-key")
	c.EnsureSession(context.Background())
	if _, err := c.Latest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lastAuth != "Bearer anon-session" {
		t.Errorf("expected session token, got %q", lastAuth)
	}
}

func TestEnsureSession_FailureIsNonFatal(t *testing.T) {
	var lastAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/v1/signup" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"msg":"Anonymous sign-ins are disabled"}`))
			return
		}
		lastAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL, "anon-key")
	c.EnsureSession(context.Background())
	if _, err := c.Latest(context.Background()); err != nil {
		t.Fatalf("expected listing to work without a session, got %v", err)
	}
	if lastAuth != "Bearer anon-key" {
		t.Errorf("expected anon key fallback, got %q", lastAuth)
	}
}
