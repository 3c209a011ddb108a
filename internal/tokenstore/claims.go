// ABOUTME: Read-only inspection of JWT bearer tokens
// ABOUTME: Decodes subject and expiry for display without verifying signatures

package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Claims is the displayable subset of a token's payload
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that has passed
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// ErrNoToken is returned when claims are requested while signed out
var ErrNoToken = errors.New("no token stored")

// Claims decodes the current token. The signature is not verified; the
// backend remains the authority on validity.
func (s *Store) Claims() (*Claims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNoToken
	}
	return ParseClaims(token)
}

// ParseClaims decodes the payload of a JWT without verifying it
func ParseClaims(token string) (*Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("token is not a JWT: %w", err)
	}

	c := &Claims{}
	if sub, ok := mc["sub"].(string); ok {
		c.Subject = sub
	}
	c.IssuedAt = unixClaim(mc["iat"])
	c.ExpiresAt = unixClaim(mc["exp"])
	return c, nil
}

func unixClaim(v interface{}) time.Time {
	switch n := v.(type) {
	case float64:
		return time.Unix(int64(n), 0)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return time.Unix(i, 0)
		}
	}
	return time.Time{}
}
