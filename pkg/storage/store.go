// Package storage holds the key/value backends the document set is
// persisted to. Every backend stores one serialized blob under one key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pluqqy/tabpad/pkg/models"
)

// Storage errors
var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrInvalidKey     = errors.New("invalid storage key")
	ErrClosed         = errors.New("storage is closed")
)

// Store persists a single serialized blob.
type Store interface {
	// Load returns the stored blob, or (nil, nil) when nothing has been saved.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored blob.
	Save(ctx context.Context, data []byte) error
	Close() error
}

// Open creates the backend named in settings. dir is the workspace
// directory that file based backends write into.
func Open(ctx context.Context, dir string, settings models.StorageSettings) (Store, error) {
	key := settings.Key
	if key == "" {
		key = models.DefaultStorageKey
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	switch strings.ToLower(settings.Backend) {
	case "", models.StorageBackendFile:
		return NewFileStore(dir, key)
	case models.StorageBackendSQLite:
		return NewSQLiteStore(ctx, filepath.Join(dir, "storage.db"), key)
	case models.StorageBackendMemory:
		return NewMemoryStore(key), nil
	default:
		return nil, fmt.Errorf("%w: %s (must be: file, sqlite, or memory)", ErrUnknownBackend, settings.Backend)
	}
}

// ValidateKey rejects keys that cannot be used as a file name
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}

	invalidChars := []string{"/", "\\", "..", "~", "$", "`"}
	for _, char := range invalidChars {
		if strings.Contains(key, char) {
			return fmt.Errorf("%w: key contains invalid character: %s", ErrInvalidKey, char)
		}
	}

	return nil
}
