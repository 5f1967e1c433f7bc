package mcp

import (
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Library lists and loads saved builds.
	Library driving.LibraryService

	// Sessions opens builds for editing.
	Sessions driving.SessionService

	// Export resolves layouts. Optional.
	Export driving.ExportService

	// Templates lists the template catalog. Optional.
	Templates driving.TemplateService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	return nil
}
