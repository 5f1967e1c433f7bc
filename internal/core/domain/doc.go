// Package domain defines the core business entities for vitae.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: one resume (sections, order, settings, style, template)
//   - Section: a typed content block with a stable identity
//   - Style: visual settings with hard bounds
//   - Payload: the wire form shared with persistence and export
//   - ExportLayout: a document resolved into print units
//
// The mutation functions in mutations.go are pure. They are the only
// place document invariants are enforced; services wrap them with
// history and autosave.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
