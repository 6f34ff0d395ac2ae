package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver (pure Go)
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite WASM binary
)

const localStorageSchema = `CREATE TABLE IF NOT EXISTS local_storage (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps the blob in a key/value table, the same shape as a
// browser's localStorage.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// NewSQLiteStore opens (or creates) the database at path
func NewSQLiteStore(ctx context.Context, path, key string) (*SQLiteStore, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, localStorageSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create local_storage table: %w", err)
	}

	return &SQLiteStore{db: db, key: key}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE key = ?`, s.key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", s.key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", s.key, err)
	}
	return nil
}

// UpdatedAt returns when the blob was last saved, or the zero time
func (s *SQLiteStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	var unix int64
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM local_storage WHERE key = ?`, s.key,
	).Scan(&unix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return time.Unix(unix, 0), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
