// ABOUTME: Token store holding the current bearer credential
// ABOUTME: Caches the token in memory and mirrors it to durable storage

package tokenstore

import (
	"log/slog"
	"sync"

	"github.com/markalston/study-tracker/internal/storage"
)

// StorageKey is the durable storage key holding the bearer token as plain text
const StorageKey = "pst_jwt"

// Store owns the single live credential
type Store struct {
	mu      sync.RWMutex
	token   string
	storage storage.Storage
}

// New creates a token store and hydrates it from durable storage.
// Storage failures are logged and the store starts empty.
func New(s storage.Storage) *Store {
	st := &Store{storage: s}
	if s == nil {
		return st
	}

	saved, found, err := s.GetItem(StorageKey)
	if err != nil {
		slog.Debug("Token hydration failed", "error", err)
		return st
	}
	if found && saved != "" {
		st.token = saved
	}
	return st
}

// Token returns the current bearer token, or "" when signed out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the token. An empty value clears memory and storage.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if s.storage == nil {
		return
	}

	var err error
	if token != "" {
		err = s.storage.SetItem(StorageKey, token)
	} else {
		err = s.storage.RemoveItem(StorageKey)
	}
	if err != nil {
		slog.Debug("Token persistence failed", "error", err)
	}
}

// IsAuthenticated reports whether a non-empty token is present
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}
