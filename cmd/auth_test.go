// ABOUTME: Tests for the register, login, logout, and whoami commands
// ABOUTME: Verifies local validation, token persistence, and output

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/storage"
	"github.com/markalston/study-tracker/internal/tokenstore"
)

func TestRunRegister_ValidatesLocally(t *testing.T) {
	isolate(t)
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()
	apiURL = server.URL

	tests := []struct {
		email, password, want string
	}{
		{"", "password123", "Email and password are required"},
		{"not-an-email", "password123", "Enter a valid email address"},
		{"a@b.co", "short", "Password must be at least 8 characters"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		code := runRegister(context.Background(), &buf, tt.email, tt.password)
		if code != exitInvalid {
			t.Errorf("expected exit code 1 for %q, got %d", tt.email, code)
		}
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("expected %q, got %q", tt.want, buf.String())
		}
	}
	if called {
		t.Error("validation failures must not reach the network")
	}
}

func TestRunRegister_Success(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/register" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ada@example.com" || body["password"] != "password123" {
			t.Errorf("unexpected body %v", body)
		}
		jsonHandler(http.StatusCreated, map[string]interface{}{"id": 7, "email": "ada@example.com"})(w, r)
	}))
	defer server.Close()
	apiURL = server.URL

	var buf bytes.Buffer
	code := runRegister(context.Background(), &buf, " ada@example.com ", "password123")

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Registration successful for ada@example.com") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRunRegister_ServerRejects(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(jsonHandler(http.StatusBadRequest, map[string]string{"detail": "Email already registered"}))
	defer server.Close()
	apiURL = server.URL

	var buf bytes.Buffer
	code := runRegister(context.Background(), &buf, "ada@example.com", "password123")

	if code != exitInvalid {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Email already registered") {
		t.Errorf("expected server message, got %q", buf.String())
	}
}

func TestRunLogin_StoresToken(t *testing.T) {
	dir := isolate(t)
	server := httptest.NewServer(jsonHandler(http.StatusOK, map[string]string{
		"access_token": "jwt-token",
		"token_type":   "bearer",
	}))
	defer server.Close()
	apiURL = server.URL

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, "ada@example.com", "password123")

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Logged in as ada@example.com.") {
		t.Errorf("unexpected output %q", buf.String())
	}
	if got := storedToken(dir); got != "jwt-token" {
		t.Errorf("expected stored token jwt-token, got %q", got)
	}
}

func TestRunLogin_JSON(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(jsonHandler(http.StatusOK, map[string]string{
		"access_token": "jwt-token",
		"token_type":   "bearer",
	}))
	defer server.Close()
	apiURL = server.URL
	jsonOutput = true

	var buf bytes.Buffer
	runLogin(context.Background(), &buf, "ada@example.com", "password123")

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["authenticated"] != true || parsed["token_type"] != "bearer" {
		t.Errorf("unexpected JSON %v", parsed)
	}
	if _, ok := parsed["access_token"]; ok {
		t.Error("the token itself must not be printed")
	}
}

func TestRunLogin_Rejected(t *testing.T) {
	dir := isolate(t)
	server := httptest.NewServer(jsonHandler(http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"}))
	defer server.Close()
	apiURL = server.URL

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, "ada@example.com", "password123")

	if code != exitError {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(buf.String(), "Incorrect email or password") {
		t.Errorf("expected server message, got %q", buf.String())
	}
	if got := storedToken(dir); got != "" {
		t.Errorf("expected no token, got %q", got)
	}
}

func TestRunLogin_NoTokenInResponse(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(jsonHandler(http.StatusOK, map[string]string{"token_type": "bearer"}))
	defer server.Close()
	apiURL = server.URL

	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf, "ada@example.com", "password123"); code != exitError {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestRunLogout(t *testing.T) {
	dir := isolate(t)
	seedToken(t, dir, "jwt-token")

	var buf bytes.Buffer
	runLogout(&buf)
	if !strings.Contains(buf.String(), "Logged out.") {
		t.Errorf("unexpected output %q", buf.String())
	}
	if got := storedToken(dir); got != "" {
		t.Errorf("expected token cleared, got %q", got)
	}

	buf.Reset()
	runLogout(&buf)
	if !strings.Contains(buf.String(), "Not logged in.") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRunWhoami(t *testing.T) {
	dir := isolate(t)
	seedToken(t, dir, "jwt-token")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer jwt-token" {
			t.Errorf("expected bearer token, got %q", got)
		}
		jsonHandler(http.StatusOK, map[string]interface{}{"id": 3, "email": "ada@example.com"})(w, r)
	}))
	defer server.Close()
	apiURL = server.URL

	var buf bytes.Buffer
	code := runWhoami(context.Background(), &buf)

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	for _, want := range []string{"ada@example.com", "User ID:  3"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q, got %q", want, buf.String())
		}
	}
}

func TestFormatWhoami_WithoutClaims(t *testing.T) {
	tokens := tokenstore.New(storage.NewFile(filepath.Join(t.TempDir(), "storage.json")))
	tokens.SetToken("not-a-jwt")

	out := formatWhoami(&client.User{ID: 1, Email: "a@b.co"}, tokens, time.Now())
	if strings.Contains(out, "Session:") {
		t.Errorf("opaque tokens should not show an expiry: %q", out)
	}
}

func TestFormatWhoami_ShowsExpiry(t *testing.T) {
	now := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		exp  time.Time
		want string
	}{
		{"valid", now.Add(time.Hour), "Session:  expires"},
		{"expired", now.Add(-time.Hour), "Session:  expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": "3",
				"exp": tt.exp.Unix(),
			}).SignedString([]byte("test-secret"))
			if err != nil {
				t.Fatalf("signing token: %v", err)
			}
			tokens := tokenstore.New(storage.NewMemory())
			tokens.SetToken(signed)

			out := formatWhoami(&client.User{ID: 3, Email: "a@b.co"}, tokens, now)
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in %q", tt.want, out)
			}
		})
	}
}
