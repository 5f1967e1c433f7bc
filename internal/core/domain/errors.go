package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown template or section type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSessionClosed indicates the editing session has been closed.
	ErrSessionClosed = errors.New("session closed")

	// Persistence Errors.

	// ErrPersistence indicates the build store failed. Saves are retried
	// on the next change or an explicit retry.
	ErrPersistence = errors.New("persistence failed")

	// ErrUnauthorized indicates the persistence API rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the persistence API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Export Errors.

	// ErrExportFailed indicates the export pipeline could not produce output.
	ErrExportFailed = errors.New("export failed")
)

// PersistenceError describes a failed call to the build store.
type PersistenceError struct {
	// Op is the store operation (create, update, get, list, delete).
	Op string

	// BuildID is empty for create and list.
	BuildID string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *PersistenceError) Error() string {
	if e.BuildID == "" {
		return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence %s %s: %v", e.Op, e.BuildID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes every PersistenceError match ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// ExportError describes a failed export. Editing state is never affected.
type ExportError struct {
	// Stage is the pipeline step that failed (layout, render, write).
	Stage string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExportError) Unwrap() error {
	return e.Err
}

// Is makes every ExportError match ErrExportFailed.
func (e *ExportError) Is(target error) bool {
	return target == ErrExportFailed
}
