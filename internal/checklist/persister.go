package checklist

import (
	"context"
	"log/slog"
)

// snapshot is one full-list save request.
type snapshot struct {
	seq   uint64
	texts []string
}

// persister holds the newest unsaved snapshot. Guarded by Controller.mu.
type persister struct {
	pending  *snapshot
	draining bool

	// saved is the sequence number of the newest snapshot the store accepted.
	saved uint64
}

// Saved returns the sequence number of the newest snapshot the store
// accepted, and the sequence number of the latest mutation.
func (c *Controller) Saved() (saved, latest uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persister.saved, c.mutations
}

// enqueueSaveLocked replaces any pending snapshot with the current list and
// starts the drain goroutine if none is running.
func (c *Controller) enqueueSaveLocked() {
	texts := make([]string, len(c.tasks))
	for i, t := range c.tasks {
		texts[i] = t.Text
	}
	if prev := c.persister.pending; prev != nil {
		c.logger.Debug("superseded pending save", slog.Uint64("seq", prev.seq), slog.Uint64("by", c.mutations))
	}
	c.persister.pending = &snapshot{seq: c.mutations, texts: texts}

	if !c.persister.draining {
		c.persister.draining = true
		c.beginLocked()
		go c.drain()
	}
}

// drain writes pending snapshots one at a time until none remain.
func (c *Controller) drain() {
	defer c.end()

	for {
		c.mu.Lock()
		snap := c.persister.pending
		if snap == nil {
			c.persister.draining = false
			c.mu.Unlock()
			return
		}
		c.persister.pending = nil
		c.mu.Unlock()

		err := c.save(snap)

		c.mu.Lock()
		ev := Event{Kind: EventSaved, Seq: snap.seq}
		if err != nil {
			ev.Kind = EventSaveFailed
			ev.Err = err
		} else if snap.seq > c.persister.saved {
			c.persister.saved = snap.seq
		}
		ev.State = c.stateLocked()
		c.mu.Unlock()

		c.emit(ev)
	}
}

// save writes snap, retrying once immediately on failure.
func (c *Controller) save(snap *snapshot) error {
	err := c.saveOnce(snap)
	if err == nil {
		return nil
	}
	c.logger.Warn("save failed, retrying", slog.Uint64("seq", snap.seq), slog.String("error", err.Error()))

	if err = c.saveOnce(snap); err != nil {
		c.logger.Warn("save dropped", slog.Uint64("seq", snap.seq), slog.Int("len", len(snap.texts)), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (c *Controller) saveOnce(snap *snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()
	return c.store.Save(ctx, snap.texts)
}
