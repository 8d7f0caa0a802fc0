package cli

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/checklist/internal/checklist"
	"github.com/mesh-intelligence/checklist/internal/logging"
	"github.com/mesh-intelligence/checklist/internal/paths"
	"github.com/mesh-intelligence/checklist/pkg/store"
	"github.com/mesh-intelligence/checklist/pkg/types"
)

// settleTimeout bounds how long a one-shot command waits for hydration and
// persistence.
const settleTimeout = 10 * time.Second

// eventLog records controller events and optionally forwards them.
type eventLog struct {
	mu      sync.Mutex
	events  []checklist.Event
	forward func(checklist.Event)
}

func (l *eventLog) record(ev checklist.Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	fwd := l.forward
	l.mu.Unlock()
	if fwd != nil {
		fwd(ev)
	}
}

func (l *eventLog) setForward(fn func(checklist.Event)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.forward = fn
}

// lastErr returns the error of the most recent event of kind, if any.
func (l *eventLog) lastErr(kind checklist.EventKind) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Kind == kind {
			return l.events[i].Err
		}
	}
	return nil
}

// session is one controller bound to the configured store.
type session struct {
	ctrl   *checklist.Controller
	events *eventLog
	config types.Config
}

// resolveStoreConfig builds the store Config from flags and config.yaml.
func (e *env) resolveStoreConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(e.flags.dataDir, e.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysError("resolve data dir: %s", err)
	}
	cfg := types.Config{
		Backend: e.cfg.GetString(cfgKeyBackend),
		DataDir: dataDir,
		Strict:  e.cfg.GetBool(cfgKeyStrict),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError("invalid configuration: %s", err)
	}
	return cfg, nil
}

// openSession opens the store and builds a collapsed controller over it.
func (e *env) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := e.resolveStoreConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), e.cfg.GetString(cfgKeyLogLevel), e.cfg.GetString(cfgKeyLogFormat))
	if err != nil {
		return nil, userError("invalid configuration: %s", err)
	}

	s, err := store.Open(cfg)
	if err != nil {
		return nil, sysError("open store: %s", err)
	}

	events := &eventLog{}
	ctrl := checklist.New(s,
		checklist.WithLogger(logger),
		checklist.WithStrict(cfg.Strict),
		checklist.WithNotify(events.record),
	)
	logger.Debug("session opened",
		slog.String("backend", cfg.Backend),
		slog.String("data_dir", cfg.DataDir))

	return &session{ctrl: ctrl, events: events, config: cfg}, nil
}

// expand opens the root node and waits for hydration. A failed load aborts
// the command so a one-shot mutation cannot overwrite unread data.
func (s *session) expand(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	s.ctrl.ToggleExpansion()
	if err := s.ctrl.Wait(ctx); err != nil {
		return sysError("hydrate: %s", err)
	}
	if err := s.events.lastErr(checklist.EventLoadFailed); err != nil {
		return sysError("hydrate: %s", err)
	}
	return nil
}

// close flushes pending saves and closes the store. A dropped save is
// reported as a warning; the mutation already happened in memory.
func (s *session) close(cmd *cobra.Command) error {
	ctx, cancel := context.WithTimeout(cmdContext(cmd), settleTimeout)
	defer cancel()

	if err := s.ctrl.Close(ctx); err != nil {
		return sysError("close store: %s", err)
	}
	if err := s.events.lastErr(checklist.EventSaveFailed); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: changes were not saved: %s\n", err)
	}
	return nil
}

// withExpanded runs fn against an expanded, hydrated controller and closes
// the session afterwards.
func (e *env) withExpanded(cmd *cobra.Command, fn func(*checklist.Controller) (types.State, error)) error {
	s, err := e.openSession(cmd)
	if err != nil {
		return err
	}

	ctx := cmdContext(cmd)
	if err := s.expand(ctx); err != nil {
		_ = s.ctrl.Close(ctx)
		return err
	}

	st, fnErr := fn(s.ctrl)
	if err := s.close(cmd); err != nil {
		return err
	}
	if fnErr != nil {
		return fnErr
	}
	return printState(cmd.OutOrStdout(), st, e.flags.jsonMode)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
