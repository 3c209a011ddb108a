// ABOUTME: Boundary decoding from parsed JSON into typed results
// ABOUTME: Defaults missing or mistyped fields and rejects non-object payloads

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errNotObject = errors.New("expected a JSON object")

// asObject returns the payload as an object or a DecodeError
func asObject(endpoint string, data interface{}) (map[string]interface{}, error) {
	obj, ok := data.(map[string]interface{})
	if !ok {
		return nil, &DecodeError{Endpoint: endpoint, Err: fmt.Errorf("%w, got %s", errNotObject, describe(data))}
	}
	return obj, nil
}

func describe(v interface{}) string {
	switch v.(type) {
	case nil:
		return "empty body"
	case string:
		return "text"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// asArray returns v as a list; anything else becomes an empty list
func asArray(v interface{}) []interface{} {
	if list, ok := v.([]interface{}); ok {
		return list
	}
	return []interface{}{}
}

// asNumber coerces JSON numbers and numeric strings. ok is false for
// anything that is not a finite number.
func asNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func intOr(v interface{}, fallback int) int {
	if f, ok := asNumber(v); ok {
		return int(f)
	}
	return fallback
}

func int64Or(v interface{}, fallback int64) int64 {
	if f, ok := asNumber(v); ok {
		return int64(f)
	}
	return fallback
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

// plain converts json.Number leaves back to float64 or int64 for display
func plain(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = plain(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

func decodeSession(v interface{}) Session {
	obj, _ := v.(map[string]interface{})
	return Session{
		ID:          int64Or(obj["id"], 0),
		Topic:       stringOr(obj["topic"], ""),
		Minutes:     intOr(obj["minutes"], 0),
		SessionDate: stringOr(obj["session_date"], ""),
	}
}

func decodeSessionPage(data interface{}) (*SessionPage, error) {
	obj, err := asObject("GET /sessions", data)
	if err != nil {
		return nil, err
	}

	items := asArray(obj["items"])
	page := &SessionPage{
		Items:        make([]Session, 0, len(items)),
		Total:        intOr(obj["total"], 0),
		TotalMinutes: intOr(obj["total_minutes"], 0),
	}
	for _, item := range items {
		if _, ok := item.(map[string]interface{}); !ok {
			continue
		}
		page.Items = append(page.Items, decodeSession(item))
	}
	return page, nil
}

func decodeLeaderboardEntries(v interface{}) []LeaderboardEntry {
	list := asArray(v)
	entries := make([]LeaderboardEntry, 0, len(list))
	for i, item := range list {
		obj, _ := item.(map[string]interface{})
		entries = append(entries, LeaderboardEntry{
			UserID:       int64Or(obj["user_id"], int64(i+1)),
			Email:        stringOr(obj["email"], "Unknown"),
			TotalMinutes: intOr(obj["total_minutes"], 0),
		})
	}
	return entries
}

func decodeLeaderboard(data interface{}) (*Leaderboard, error) {
	obj, err := asObject("GET /leaderboard", data)
	if err != nil {
		return nil, err
	}
	return &Leaderboard{
		AllTime:    decodeLeaderboardEntries(obj["all_time"]),
		Last30Days: decodeLeaderboardEntries(obj["last_30_days"]),
	}, nil
}

func decodeUser(endpoint string, data interface{}) (*User, error) {
	obj, err := asObject(endpoint, data)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:    int64Or(obj["id"], 0),
		Email: stringOr(obj["email"], ""),
		Extra: map[string]interface{}{},
	}
	for k, v := range obj {
		if k == "id" || k == "email" {
			continue
		}
		u.Extra[k] = plain(v)
	}
	return u, nil
}
