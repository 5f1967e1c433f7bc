// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewLibrary lists saved builds.
	ViewLibrary
	// ViewEditor edits one build.
	ViewEditor
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewLibrary:
		return "library"
	case ViewEditor:
		return "editor"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit once the open build is flushed.
type Quit struct{}

// BuildsLoaded carries the library listing.
type BuildsLoaded struct {
	Builds []domain.BuildSummary
	Err    error
}

// OpenRequested asks the app to open a build. An empty BuildID starts a
// new document.
type OpenRequested struct {
	BuildID string
}

// BuildOpened carries a live editing session.
type BuildOpened struct {
	Session driving.Session
	Err     error
}

// BuildDeleted signals a build was deleted.
type BuildDeleted struct {
	BuildID string
	Err     error
}

// BuildDuplicated signals a build was copied.
type BuildDuplicated struct {
	BuildID string
	Err     error
}

// SessionClosed signals the editor session was flushed and closed. It
// carries the final title and save status for the start screen.
type SessionClosed struct {
	BuildID string
	Title   string
	Status  domain.SaveStatus
	Err     error
}

// SessionReset signals the open session was flushed and now holds a new
// document.
type SessionReset struct {
	Err error
}

// RecentLoaded carries the builds shown on the start screen.
type RecentLoaded struct {
	Builds []domain.BuildSummary
	Err    error
}

// SaveCompleted carries the result of an explicit save or retry.
type SaveCompleted struct {
	Err error
}

// StatusTick polls the autosave status while a build is open.
type StatusTick struct{}

// SettingsLoaded carries the current settings.
type SettingsLoaded struct {
	Settings []driving.SettingInfo
	Err      error
}

// SettingsSaved signals a setting was written or removed.
type SettingsSaved struct {
	Key string
	Err error
}
