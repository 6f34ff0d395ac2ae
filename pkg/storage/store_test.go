package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/tabpad/pkg/models"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	data, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data, "empty store should load nil")

	require.NoError(t, s.Save(ctx, []byte(`{"version":1}`)))
	data, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(data))

	require.NoError(t, s.Save(ctx, []byte(`{"version":2}`)))
	data, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"version":2}`, string(data))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(models.DefaultStorageKey)
	exerciseStore(t, s)
	assert.Equal(t, 2, s.SaveCount())

	boom := errors.New("quota exceeded")
	s.SetFailure(boom)
	assert.ErrorIs(t, s.Save(context.Background(), []byte("x")), boom)
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, boom)

	s.SetFailure(nil)
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Save(context.Background(), []byte("x")), ErrClosed)
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	s, err := NewFileStore(dir, "project")
	require.NoError(t, err)
	exerciseStore(t, s)

	assert.Equal(t, filepath.Join(dir, "project.json"), s.Path())
	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestFileStore_CancelledContext(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "project")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Save(ctx, []byte("x")), context.Canceled)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.db")

	s, err := NewSQLiteStore(ctx, path, "project")
	require.NoError(t, err)
	exerciseStore(t, s)

	updated, err := s.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.False(t, updated.IsZero())
	require.NoError(t, s.Close())

	// Reopening sees the same value
	s, err = NewSQLiteStore(ctx, path, "project")
	require.NoError(t, err)
	defer s.Close()
	data, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"version":2}`, string(data))

	// Keys are independent
	other, err := NewSQLiteStore(ctx, path, "other")
	require.NoError(t, err)
	defer other.Close()
	data, err = other.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name     string
		settings models.StorageSettings
		wantType interface{}
		wantErr  error
	}{
		{"default is file", models.StorageSettings{}, &FileStore{}, nil},
		{"file", models.StorageSettings{Backend: "file", Key: "k"}, &FileStore{}, nil},
		{"sqlite", models.StorageSettings{Backend: "SQLite", Key: "k"}, &SQLiteStore{}, nil},
		{"memory", models.StorageSettings{Backend: "memory"}, &MemoryStore{}, nil},
		{"unknown", models.StorageSettings{Backend: "redis"}, nil, ErrUnknownBackend},
		{"bad key", models.StorageSettings{Backend: "file", Key: "../escape"}, nil, ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, dir, tt.settings)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.IsType(t, tt.wantType, s)
		})
	}
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, ValidateKey("tabpad-project"))
	assert.ErrorIs(t, ValidateKey(""), ErrInvalidKey)
	assert.ErrorIs(t, ValidateKey("   "), ErrInvalidKey)
	assert.ErrorIs(t, ValidateKey("a/b"), ErrInvalidKey)
	assert.ErrorIs(t, ValidateKey("a\\b"), ErrInvalidKey)
}
