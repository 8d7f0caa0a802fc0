package types

import (
	"context"
	"errors"
	"fmt"
)

// Store is a key-value adapter over a single key holding the serialized
// task list. Implementations must be safe for concurrent use; Save is a
// full-sequence overwrite, so repeating it is harmless.
type Store interface {
	// Load returns the persisted sequence. A missing key yields an empty,
	// non-nil slice. Corrupt or unreadable data yields a *StoreReadError.
	Load(ctx context.Context) ([]string, error)

	// Save overwrites the persisted sequence. Inaccessible media yields a
	// *StoreWriteError. Callers must not assume durability before Save
	// returns.
	Save(ctx context.Context, texts []string) error

	// Close releases backend resources. Close is idempotent.
	Close() error
}

// Store error classes, matched with errors.Is.
var (
	ErrStoreRead   = errors.New("store read failed")
	ErrStoreWrite  = errors.New("store write failed")
	ErrStoreClosed = errors.New("store is closed")

	ErrAlreadyAttached = errors.New("store is already attached")
)

// ErrIndexOutOfRange reports an edit or delete against an index that is
// not in the current list.
var ErrIndexOutOfRange = errors.New("task index out of range")

// StoreReadError reports that hydration from the store failed.
type StoreReadError struct {
	Key string
	Err error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("read %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StoreReadError) Unwrap() error { return e.Err }

// Is matches ErrStoreRead.
func (e *StoreReadError) Is(target error) bool { return target == ErrStoreRead }

// StoreWriteError reports that persisting the list failed.
type StoreWriteError struct {
	Key string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("write %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StoreWriteError) Unwrap() error { return e.Err }

// Is matches ErrStoreWrite.
func (e *StoreWriteError) Is(target error) bool { return target == ErrStoreWrite }
