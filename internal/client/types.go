// ABOUTME: Request and response types for the Study Tracker API
// ABOUTME: Mirrors the backend JSON wire contract

package client

import "encoding/json"

// Credentials is the register/login request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the /auth/login response
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// User is the /me and /auth/register response
type User struct {
	ID    int64                  `json:"id" yaml:"id"`
	Email string                 `json:"email" yaml:"email"`
	Extra map[string]interface{} `json:"-" yaml:",inline"` // any other profile fields
}

// MarshalJSON flattens Extra next to the known fields
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(u.Extra)+2)
	for k, v := range u.Extra {
		out[k] = v
	}
	out["id"] = u.ID
	out["email"] = u.Email
	return json.Marshal(out)
}

// Session is a single logged study session
type Session struct {
	ID          int64  `json:"id" yaml:"id"`
	Topic       string `json:"topic" yaml:"topic"`
	Minutes     int    `json:"minutes" yaml:"minutes"`
	SessionDate string `json:"session_date" yaml:"session_date"`
}

// SessionInput is the create/update request body
type SessionInput struct {
	Topic       string `json:"topic"`
	Minutes     int    `json:"minutes"`
	SessionDate string `json:"session_date"`
}

// SessionPage is one page of the /sessions listing
type SessionPage struct {
	Items        []Session `json:"items" yaml:"items"`
	Total        int       `json:"total" yaml:"total"`
	TotalMinutes int       `json:"total_minutes" yaml:"total_minutes"`
}

// ListOptions filters the /sessions listing. Zero values use the defaults.
type ListOptions struct {
	Page      int
	Size      int
	Topic     string
	StartDate string
	EndDate   string
}

// DeleteResult is the normalized result of a delete
type DeleteResult struct {
	Success bool `json:"success" yaml:"success"`
}

// LeaderboardEntry is one user's aggregate study time
type LeaderboardEntry struct {
	UserID       int64  `json:"user_id" yaml:"user_id"`
	Email        string `json:"email" yaml:"email"`
	TotalMinutes int    `json:"total_minutes" yaml:"total_minutes"`
}

// Leaderboard holds the all-time and trailing 30 day standings
type Leaderboard struct {
	AllTime    []LeaderboardEntry `json:"all_time" yaml:"all_time"`
	Last30Days []LeaderboardEntry `json:"last_30_days" yaml:"last_30_days"`
}
