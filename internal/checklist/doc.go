// Package checklist implements the task list controller: the sole owner of
// the root node's expansion state and of the ordered task list.
//
// Every intent mutates memory synchronously and returns the new State for
// rendering. Hydration and persistence run in the background against a
// types.Store:
//
//   - Expanding issues a Load tagged with a generation number. The result is
//     applied only if no collapse, re-expand, or mutation happened since it
//     was issued; otherwise it is discarded.
//   - Each mutation bumps a sequence number and hands the full list to the
//     persister. Saves run one at a time, newest snapshot first, so a stale
//     list can never land after a newer one. A failed save is retried once,
//     then dropped with a warning.
//
// Store failures never cross the intent boundary; they surface as Events
// and log lines.
package checklist
