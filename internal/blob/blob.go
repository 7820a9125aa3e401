// Package blob provides the durable string-keyed blob stores that hold
// taskpad's persisted state.
//
// Two keys are in use: KeyTasks holds the JSON task envelope and KeyTheme
// holds the literal "dark" or "light". Every Put replaces the previous value
// in one step, so readers see either the old or the new value, never a mix.
package blob

import (
	"errors"
	"fmt"

	"github.com/amonks/taskpad/internal/config"
)

// Well-known keys.
const (
	KeyTasks = "tasks"
	KeyTheme = "theme"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("blob not found")

// Store is a durable key/value store for opaque blobs.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(key string, value []byte) error

	// Close releases any resources held by the store.
	Close() error
}

// Open opens the store selected by cfg.Driver.
func Open(cfg config.Storage) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewDir(cfg.Dir), nil
	case "memory":
		return NewMemory(), nil
	case "postgres":
		return OpenPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("blob key is required")
	}
	for _, r := range key {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return fmt.Errorf("invalid blob key %q", key)
		}
	}
	return nil
}
