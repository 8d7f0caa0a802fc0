// Package store provides the public factory for checklist store backends,
// keeping the backend implementations internal.
package store

import (
	"fmt"

	"github.com/mesh-intelligence/checklist/internal/filestore"
	"github.com/mesh-intelligence/checklist/internal/memstore"
	"github.com/mesh-intelligence/checklist/internal/sqlite"
	"github.com/mesh-intelligence/checklist/pkg/types"
)

// Open returns a ready Store for the backend named in config.
//
// Example:
//
//	s, err := store.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".checklist-db",
//	})
//	defer s.Close()
func Open(config types.Config) (types.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Backend {
	case types.BackendSQLite:
		b := sqlite.NewBackend()
		if err := b.Attach(config); err != nil {
			return nil, fmt.Errorf("attach sqlite: %w", err)
		}
		return b, nil
	case types.BackendJSON:
		s, err := filestore.Open(config)
		if err != nil {
			return nil, fmt.Errorf("open json store: %w", err)
		}
		return s, nil
	case types.BackendMemory:
		return memstore.New(config.StoreKey()), nil
	default:
		return nil, types.ErrBackendUnknown
	}
}
