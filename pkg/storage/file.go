package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore writes the blob to <dir>/<key>.json
type FileStore struct {
	dir string
	key string
}

// NewFileStore creates a file backed store, creating dir if needed
func NewFileStore(dir, key string) (*FileStore, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, key: key}, nil
}

// Path returns the file the blob is stored in
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.key+".json")
}

func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.Path(), err)
	}
	return data, nil
}

// Save writes to a temp file and renames it over the target so a crash
// never leaves a half written blob behind.
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.Path()
	tmp, err := os.CreateTemp(s.dir, s.key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

func (s *FileStore) Close() error {
	return nil
}
