package checklist

import (
	"log/slog"
	"time"
)

// DefaultOpTimeout bounds each background Load or Save.
const DefaultOpTimeout = 5 * time.Second

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNotify registers a callback for background completions. It is called
// from a background goroutine, never while the controller lock is held.
func WithNotify(fn func(Event)) Option {
	return func(c *Controller) {
		c.notify = fn
	}
}

// WithStrict makes precondition violations panic. Without it they are
// logged and reported as ErrIndexOutOfRange with no state change.
func WithStrict(strict bool) Option {
	return func(c *Controller) {
		c.strict = strict
	}
}

// WithSessionID overrides the generated session ID attached to log lines.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.session = id
		}
	}
}

// WithOpTimeout overrides DefaultOpTimeout.
func WithOpTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.opTimeout = d
		}
	}
}
