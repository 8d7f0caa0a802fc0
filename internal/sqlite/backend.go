// Package sqlite implements the SQLite store backend for the checklist.
// The task list is kept as a JSON array in a single row of a key-value
// table; the database file is the source of truth across sessions.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/checklist/internal/codec"
	"github.com/mesh-intelligence/checklist/pkg/types"
)

// Backend implements types.Store on top of an embedded SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	key      string
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (or creates) the database in config.DataDir and ensures the
// schema exists. Existing data is preserved.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps pragmas in effect.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, q := range pragmas {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return fmt.Errorf("set pragma %q: %w", q, err)
		}
	}
	if _, err := db.Exec(createKV); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	b.db = db
	b.config = config
	b.key = config.StoreKey()
	b.attached = true
	return nil
}

// Detach closes the database. After Detach, Load and Save fail with
// ErrStoreClosed. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		if err != nil {
			return err
		}
	}
	return nil
}

// Close implements types.Store by detaching.
func (b *Backend) Close() error {
	return b.Detach()
}

// Load returns the task list stored under the configured key. A missing row
// yields an empty list.
func (b *Backend) Load(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, &types.StoreReadError{Key: b.key, Err: types.ErrStoreClosed}
	}

	var value string
	err := b.db.QueryRowContext(ctx, selectValue, b.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, &types.StoreReadError{Key: b.key, Err: err}
	}

	texts, err := codec.Decode([]byte(value))
	if err != nil {
		return nil, &types.StoreReadError{Key: b.key, Err: err}
	}
	return texts, nil
}

// Save overwrites the row for the configured key with the encoded list.
func (b *Backend) Save(ctx context.Context, texts []string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return &types.StoreWriteError{Key: b.key, Err: types.ErrStoreClosed}
	}

	data, err := codec.Encode(texts)
	if err != nil {
		return &types.StoreWriteError{Key: b.key, Err: err}
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := b.db.ExecContext(ctx, upsertValue, b.key, string(data), now); err != nil {
		return &types.StoreWriteError{Key: b.key, Err: err}
	}
	return nil
}
