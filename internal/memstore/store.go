// Package memstore implements an in-process store backend. Data lives only
// as long as the Store value; it backs ephemeral sessions and tests.
package memstore

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/checklist/internal/codec"
	"github.com/mesh-intelligence/checklist/pkg/types"
)

// Store implements types.Store over an in-memory map of encoded values.
type Store struct {
	mu     sync.Mutex
	key    string
	values map[string][]byte
	closed bool
}

// New returns an empty store for key. An empty key means types.TasksKey.
func New(key string) *Store {
	if key == "" {
		key = types.TasksKey
	}
	return &Store{key: key, values: make(map[string][]byte)}
}

// Load decodes the stored value. A missing key yields an empty list.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &types.StoreReadError{Key: s.key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, &types.StoreReadError{Key: s.key, Err: types.ErrStoreClosed}
	}
	texts, err := codec.Decode(s.values[s.key])
	if err != nil {
		return nil, &types.StoreReadError{Key: s.key, Err: err}
	}
	return texts, nil
}

// Save encodes and stores texts.
func (s *Store) Save(ctx context.Context, texts []string) error {
	if err := ctx.Err(); err != nil {
		return &types.StoreWriteError{Key: s.key, Err: err}
	}

	data, err := codec.Encode(texts)
	if err != nil {
		return &types.StoreWriteError{Key: s.key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &types.StoreWriteError{Key: s.key, Err: types.ErrStoreClosed}
	}
	s.values[s.key] = data
	return nil
}

// Raw returns the encoded value currently stored, or nil.
func (s *Store) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.values[s.key]...)
}

// SetRaw replaces the stored value without validation.
func (s *Store) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[s.key] = append([]byte(nil), data...)
}

// Close marks the store closed. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
