package client

import (
	"context"
	"net/http"
	"strconv"
)

// DefaultTop is the leaderboard size used when callers have no preference
const DefaultTop = 10

// Leaderboard calls GET /leaderboard without credentials. top <= 0 omits
// the parameter and lets the backend choose.
func (c *Client) Leaderboard(ctx context.Context, top int) (*Leaderboard, error) {
	path := "/leaderboard"
	if top > 0 {
		path += "?top=" + strconv.Itoa(top)
	}

	resp, err := c.do(ctx, path, RequestOptions{Method: http.MethodGet, SkipAuth: true})
	if err != nil {
		return nil, err
	}
	return decodeLeaderboard(resp.data)
}
