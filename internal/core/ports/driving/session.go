package driving

import (
	"context"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// Session is one open document: an editor wired to an autosave controller.
type Session interface {
	// Editor returns the session's editor.
	Editor() Editor

	// BuildID returns the persisted build ID, "" until the first save.
	BuildID() string

	// Status returns the autosave state.
	Status() domain.SaveStatus

	// SaveNow cancels the debounce timer and saves synchronously if dirty.
	SaveNow(ctx context.Context) error

	// Retry re-attempts a failed save.
	Retry(ctx context.Context) error

	// Reset flushes the current document and starts a fresh one.
	Reset(ctx context.Context, templateID string) error

	// Close performs a final save if dirty. Later edits are not persisted.
	Close(ctx context.Context) error
}

// SessionService opens editing sessions.
type SessionService interface {
	// New starts a session on a fresh document. An empty template ID uses
	// the configured default.
	New(templateID string) (Session, error)

	// NewDocument returns a fresh unsaved document without opening a
	// session. An empty template ID uses the configured default.
	NewDocument(templateID string) (domain.Document, error)

	// Open loads a persisted build into a new session.
	Open(ctx context.Context, buildID string) (Session, error)
}
