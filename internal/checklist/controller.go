package checklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/checklist/pkg/types"
)

// Controller owns the expansion state and the task list. All methods are
// safe for concurrent use; each intent is applied atomically.
type Controller struct {
	store     types.Store
	logger    *slog.Logger
	notify    func(Event)
	strict    bool
	session   string
	opTimeout time.Duration

	mu        sync.Mutex
	expansion types.Expansion
	tasks     []types.Task

	// generation changes on every expand, collapse, and reload; a load
	// carries the generation it was issued under.
	generation uint64

	// loading is set while the load for the current generation is pending.
	loading bool

	// mutations is the sequence number of the latest add, edit, or delete.
	mutations uint64

	persister persister

	inflight int
	idle     []chan struct{}
}

// New returns a collapsed controller with an empty task list backed by store.
func New(store types.Store, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		logger:    slog.Default(),
		session:   newSessionID(),
		opTimeout: DefaultOpTimeout,
		tasks:     []types.Task{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("session", c.session))
	return c
}

// newSessionID generates a UUID v7 for log correlation.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Session returns the session ID attached to this controller's log lines.
func (c *Controller) Session() string {
	return c.session
}

// State returns a snapshot of the current state.
func (c *Controller) State() types.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Rows returns the rendered rows for the current task list.
func (c *Controller) Rows() []types.Row {
	return c.State().Rows()
}

func (c *Controller) stateLocked() types.State {
	tasks := make([]types.Task, len(c.tasks))
	copy(tasks, c.tasks)
	return types.State{Expansion: c.expansion, Tasks: tasks}
}

// ToggleExpansion flips the root node. Expanding starts a background load
// that replaces the task list when it resolves. Collapsing keeps the list
// and invalidates any load still in flight.
func (c *Controller) ToggleExpansion() types.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if c.expansion == types.Collapsed {
		c.expansion = types.Expanded
		c.startLoadLocked()
	} else {
		c.expansion = types.Collapsed
		c.loading = false
	}
	c.logger.Debug("toggled expansion",
		slog.String("expansion", c.expansion.String()),
		slog.Uint64("generation", c.generation))
	return c.stateLocked()
}

// Reload re-issues hydration while expanded, typically after
// EventLoadFailed. It is a no-op while collapsed.
func (c *Controller) Reload() types.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.expansion == types.Expanded {
		c.generation++
		c.startLoadLocked()
	}
	return c.stateLocked()
}

// Hydrating reports whether the load issued by the latest expand or reload
// is still pending. A mutation made meanwhile causes that load to be
// discarded, so presentation layers should hold mutations until it clears.
func (c *Controller) Hydrating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// AddTask appends a task carrying the sentinel text.
func (c *Controller) AddTask() types.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tasks = append(c.tasks, types.NewTask())
	c.mutatedLocked("add")
	return c.stateLocked()
}

// EditTask replaces the text at index. An index outside the current list
// changes nothing and returns ErrIndexOutOfRange, or panics in strict mode.
func (c *Controller) EditTask(index int, text string) (types.State, error) {
	c.mu.Lock()
	n := len(c.tasks)
	if index < 0 || index >= n {
		st := c.stateLocked()
		c.mu.Unlock()
		return st, c.violation("edit", index, n)
	}
	c.tasks[index] = types.Task{Text: text}
	c.mutatedLocked("edit")
	st := c.stateLocked()
	c.mu.Unlock()
	return st, nil
}

// DeleteTask removes the task at index, shifting later tasks left. An index
// outside the current list changes nothing and returns ErrIndexOutOfRange,
// or panics in strict mode.
func (c *Controller) DeleteTask(index int) (types.State, error) {
	c.mu.Lock()
	n := len(c.tasks)
	if index < 0 || index >= n {
		st := c.stateLocked()
		c.mu.Unlock()
		return st, c.violation("delete", index, n)
	}
	c.tasks = append(c.tasks[:index], c.tasks[index+1:]...)
	c.mutatedLocked("delete")
	st := c.stateLocked()
	c.mu.Unlock()
	return st, nil
}

// violation reports a caller defect. It must be called without c.mu held.
func (c *Controller) violation(op string, index, n int) error {
	err := fmt.Errorf("%s task %d of %d: %w", op, index, n, types.ErrIndexOutOfRange)
	if c.strict {
		panic(err)
	}
	c.logger.Error("precondition violated", slog.String("op", op), slog.Int("index", index), slog.Int("len", n))
	return err
}

func (c *Controller) mutatedLocked(op string) {
	c.mutations++
	c.logger.Debug("mutated", slog.String("op", op), slog.Uint64("seq", c.mutations), slog.Int("len", len(c.tasks)))
	c.enqueueSaveLocked()
}

// startLoadLocked issues a background load for the current generation.
func (c *Controller) startLoadLocked() {
	gen, seq := c.generation, c.mutations
	c.loading = true
	c.beginLocked()
	go c.hydrate(gen, seq)
}

func (c *Controller) hydrate(gen, seq uint64) {
	defer c.end()

	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	texts, err := c.store.Load(ctx)
	cancel()

	c.mu.Lock()
	if gen == c.generation {
		c.loading = false
	}
	ev := Event{Seq: seq}
	switch {
	case gen != c.generation || seq != c.mutations:
		ev.Kind = EventLoadDiscarded
		c.logger.Debug("discarded stale load",
			slog.Uint64("generation", gen), slog.Uint64("current_generation", c.generation),
			slog.Uint64("seq", seq), slog.Uint64("current_seq", c.mutations))
	case err != nil:
		ev.Kind = EventLoadFailed
		ev.Err = err
		c.logger.Warn("load failed, keeping in-memory list", slog.String("error", err.Error()))
	default:
		ev.Kind = EventHydrated
		c.tasks = types.TasksFromTexts(texts)
		c.logger.Debug("hydrated", slog.Int("len", len(c.tasks)))
	}
	ev.State = c.stateLocked()
	c.mu.Unlock()

	c.emit(ev)
}

func (c *Controller) emit(ev Event) {
	if c.notify != nil {
		c.notify(ev)
	}
}

// beginLocked registers one background operation.
func (c *Controller) beginLocked() {
	c.inflight++
}

// end retires one background operation and wakes waiters when none remain.
func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight--
	if c.inflight == 0 {
		for _, ch := range c.idle {
			close(ch)
		}
		c.idle = nil
	}
}

// Wait blocks until no load or save is in flight, or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	if c.inflight == 0 {
		c.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	c.idle = append(c.idle, ch)
	c.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close waits for pending work and then closes the store.
func (c *Controller) Close(ctx context.Context) error {
	waitErr := c.Wait(ctx)
	if waitErr != nil {
		c.logger.Warn("closing with persistence in flight", slog.String("error", waitErr.Error()))
	}
	return errors.Join(waitErr, c.store.Close())
}
