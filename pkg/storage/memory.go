package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps the blob in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu     sync.Mutex
	key    string
	values map[string][]byte
	closed bool

	saves   int
	failure error
}

// NewMemoryStore creates an empty in-memory store for key
func NewMemoryStore(key string) *MemoryStore {
	return &MemoryStore{
		key:    key,
		values: make(map[string][]byte),
	}
}

func (s *MemoryStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return nil, s.failure
	}
	if s.closed {
		return nil, ErrClosed
	}
	data, ok := s.values[s.key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return s.failure
	}
	if s.closed {
		return ErrClosed
	}
	s.values[s.key] = append([]byte(nil), data...)
	s.saves++
	return nil
}

// Set seeds the stored blob directly
func (s *MemoryStore) Set(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[s.key] = append([]byte(nil), data...)
}

// SetFailure makes every Load and Save return err until it is cleared with nil
func (s *MemoryStore) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = err
}

// SaveCount returns the number of successful saves
func (s *MemoryStore) SaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
