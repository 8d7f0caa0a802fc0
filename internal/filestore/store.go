// Package filestore implements a store backend that keeps the task list as
// a JSON file named after the store key inside the data directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mesh-intelligence/checklist/internal/codec"
	"github.com/mesh-intelligence/checklist/pkg/types"
)

// Store implements types.Store over <DataDir>/<key>.json.
type Store struct {
	mu     sync.Mutex
	key    string
	path   string
	closed bool
}

// Open prepares a file store for config. The data directory is created if
// needed; the file itself is only written on the first Save.
func Open(config types.Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	key := config.StoreKey()
	return &Store{
		key:  key,
		path: filepath.Join(dataDir, key+".json"),
	}, nil
}

// Path returns the file the list is persisted to.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the file. A missing file yields an empty list.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &types.StoreReadError{Key: s.key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, &types.StoreReadError{Key: s.key, Err: types.ErrStoreClosed}
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, &types.StoreReadError{Key: s.key, Err: err}
	}

	texts, err := codec.Decode(data)
	if err != nil {
		return nil, &types.StoreReadError{Key: s.key, Err: err}
	}
	return texts, nil
}

// Save encodes texts and atomically replaces the file.
func (s *Store) Save(ctx context.Context, texts []string) error {
	if err := ctx.Err(); err != nil {
		return &types.StoreWriteError{Key: s.key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &types.StoreWriteError{Key: s.key, Err: types.ErrStoreClosed}
	}

	data, err := codec.Encode(texts)
	if err != nil {
		return &types.StoreWriteError{Key: s.key, Err: err}
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return &types.StoreWriteError{Key: s.key, Err: err}
	}
	return nil
}

// Close marks the store closed. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
