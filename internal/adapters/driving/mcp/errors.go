// Package mcp provides an MCP (Model Context Protocol) server adapter for vitae.
// It lets AI assistants list, edit, and lay out resume builds.
package mcp

import "errors"

var (
	// ErrMissingLibraryService is returned when the library service is not provided.
	ErrMissingLibraryService = errors.New("mcp: library service is required")

	// ErrMissingSessionService is returned when the session service is not provided.
	ErrMissingSessionService = errors.New("mcp: session service is required")

	// errNoExporter is returned by export_layout when no export service is set.
	errNoExporter = errors.New("mcp: export service not configured")
)
