// Package tui provides an interactive terminal user interface for vitae.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Library lists, deletes and duplicates builds.
	Library driving.LibraryService

	// Sessions opens builds for editing.
	Sessions driving.SessionService

	// Templates lists templates for the add-section picker and template cycling.
	Templates driving.TemplateService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(library driving.LibraryService, sessions driving.SessionService) *Ports {
	return &Ports{
		Library:  library,
		Sessions: sessions,
	}
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
