package checklist

import "github.com/mesh-intelligence/checklist/pkg/types"

// EventKind classifies background completions.
type EventKind int

// Event kinds.
const (
	// EventHydrated: a load resolved and replaced the task list.
	EventHydrated EventKind = iota + 1
	// EventLoadFailed: a load failed; the task list was left untouched.
	EventLoadFailed
	// EventLoadDiscarded: a load resolved after the state it was issued for
	// had already changed.
	EventLoadDiscarded
	// EventSaved: a snapshot reached the store.
	EventSaved
	// EventSaveFailed: a snapshot was dropped after its retry failed.
	EventSaveFailed
)

func (k EventKind) String() string {
	switch k {
	case EventHydrated:
		return "hydrated"
	case EventLoadFailed:
		return "load_failed"
	case EventLoadDiscarded:
		return "load_discarded"
	case EventSaved:
		return "saved"
	case EventSaveFailed:
		return "save_failed"
	default:
		return "unknown"
	}
}

// Event reports a background completion to the presentation layer.
type Event struct {
	Kind EventKind

	// State is the controller state right after the completion was handled.
	State types.State

	// Seq is the mutation sequence number of the saved snapshot, or the
	// sequence number current when the load was issued.
	Seq uint64

	// Err is set for EventLoadFailed and EventSaveFailed.
	Err error
}
