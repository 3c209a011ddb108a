// ABOUTME: HTTP client for the Study Tracker API
// ABOUTME: Holds the base URL, transport, token store, and default headers

package client

import (
	"net/http"
	"sync"
	"time"
)

// Transport sends a single HTTP request. *http.Client satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportFunc adapts a function to the Transport interface
type TransportFunc func(req *http.Request) (*http.Response, error)

// Do implements Transport
func (f TransportFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// TokenStore supplies and receives the bearer credential
type TokenStore interface {
	Token() string
	SetToken(token string)
}

// Client is the API client for the Study Tracker backend
type Client struct {
	baseURL   string
	transport Transport
	tokens    TokenStore
	headers   map[string]string
}

// Option configures a Client
type Option func(*Client)

// WithTransport replaces the default *http.Client
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithTimeout uses an *http.Client that gives up after d. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.transport = &http.Client{Timeout: d}
	}
}

// WithTokenStore sets the credential source used for authenticated requests
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithHeader adds a header sent on every request. Per-request headers win.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// New creates a new API client with the given base URL.
// An empty base URL produces path-relative request URLs.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		transport: &http.Client{},
		tokens:    &memoryTokens{},
		headers:   map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Tokens returns the client's token store
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// memoryTokens is the fallback store when none is injected
type memoryTokens struct {
	mu    sync.RWMutex
	token string
}

func (m *memoryTokens) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *memoryTokens) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}
