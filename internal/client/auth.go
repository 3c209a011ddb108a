// ABOUTME: Authentication endpoints: register, login, logout, and profile
// ABOUTME: Login stores the returned access token as a side effect

package client

import (
	"context"
	"net/http"
)

// Register calls POST /auth/register
func (c *Client) Register(ctx context.Context, cred Credentials) (*User, error) {
	if cred.Email == "" || cred.Password == "" {
		return nil, validationError("Email and password are required")
	}

	resp, err := c.do(ctx, "/auth/register", RequestOptions{
		Method:   http.MethodPost,
		Body:     cred,
		SkipAuth: true,
	})
	if err != nil {
		return nil, err
	}
	if resp.data == nil {
		return &User{Email: cred.Email}, nil
	}
	return decodeUser("POST /auth/register", resp.data)
}

// Login calls POST /auth/login and stores the access token when present
func (c *Client) Login(ctx context.Context, cred Credentials) (*LoginResult, error) {
	if cred.Email == "" || cred.Password == "" {
		return nil, validationError("Email and password are required")
	}

	resp, err := c.do(ctx, "/auth/login", RequestOptions{
		Method:   http.MethodPost,
		Body:     cred,
		SkipAuth: true,
	})
	if err != nil {
		return nil, err
	}

	obj, err := asObject("POST /auth/login", resp.data)
	if err != nil {
		return nil, err
	}
	result := &LoginResult{
		AccessToken: stringOr(obj["access_token"], ""),
		TokenType:   stringOr(obj["token_type"], ""),
	}
	if result.AccessToken != "" {
		c.tokens.SetToken(result.AccessToken)
	}
	return result, nil
}

// Logout forgets the stored credential
func (c *Client) Logout() {
	c.tokens.SetToken("")
}

// Me calls GET /me with the current credential
func (c *Client) Me(ctx context.Context) (*User, error) {
	resp, err := c.do(ctx, "/me", RequestOptions{Method: http.MethodGet})
	if err != nil {
		return nil, err
	}
	return decodeUser("GET /me", resp.data)
}
