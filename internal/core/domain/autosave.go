package domain

import "time"

// SaveState is the autosave controller state.
type SaveState string

// Autosave states.
const (
	// SaveStateIdle means nothing is scheduled or running.
	SaveStateIdle SaveState = "idle"

	// SaveStatePending means a debounce timer is armed.
	SaveStatePending SaveState = "pending"

	// SaveStateSaving means a save request is in flight.
	SaveStateSaving SaveState = "saving"

	// SaveStateError means the last save failed and changes are unsaved.
	SaveStateError SaveState = "error"
)

// String returns the string representation.
func (s SaveState) String() string {
	return string(s)
}

// Description returns a short label for status displays.
func (s SaveState) Description() string {
	switch s {
	case SaveStateIdle:
		return "All changes saved"
	case SaveStatePending:
		return "Unsaved changes"
	case SaveStateSaving:
		return "Saving..."
	case SaveStateError:
		return "Save failed"
	default:
		return unknownDescription
	}
}

// SaveStatus is a point-in-time view of the autosave controller.
type SaveStatus struct {
	State SaveState

	// Dirty is set while the live document differs from the last
	// successful save.
	Dirty bool

	// BuildID is empty until the first save creates the build.
	BuildID string

	// LastSavedAt is the time of the last successful save.
	LastSavedAt time.Time

	// LastError is the message of the last failed save, cleared on success.
	LastError string

	// Saves counts successful saves in this session.
	Saves int
}
