package types

import "errors"

// Config holds backend selection and parameters for opening a Store.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Key is the store key the task list lives under. Empty means TasksKey.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	// Strict makes precondition violations panic instead of being ignored.
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrKeyInvalid     = errors.New("store key must not contain path separators")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendJSON:   true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	for _, r := range c.Key {
		if r == '/' || r == '\\' {
			return ErrKeyInvalid
		}
	}
	return nil
}

// StoreKey returns the configured key, falling back to TasksKey.
func (c Config) StoreKey() string {
	if c.Key == "" {
		return TasksKey
	}
	return c.Key
}
