// ABOUTME: Durable key/value storage for client-side state
// ABOUTME: Selects a file, SQLite, or in-memory backend from configuration

package storage

import (
	"fmt"
	"path/filepath"
)

// Storage is a string key/value store that survives process restarts
type Storage interface {
	GetItem(key string) (value string, found bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the storage backend rooted at dir
func Open(backend, dir string) (Storage, error) {
	switch backend {
	case "", BackendFile:
		return NewFile(filepath.Join(dir, "storage.json")), nil
	case BackendSQLite:
		return NewSQLite(filepath.Join(dir, "storage.db"))
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want file, sqlite, or memory)", backend)
	}
}
