// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// Bar displays the autosave status, history position and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	status   domain.SaveStatus
	history  domain.HistoryPosition
	message  string
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		keymap:   km,
		status:   domain.SaveStatus{State: domain.SaveStateIdle},
		history:  domain.HistoryEmpty,
		bindings: km.EditorHelp(),
		width:    80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the save state and any transient message.
func (s *Bar) renderLeft() string {
	parts := []string{s.styles.SaveState(s.status.State).Render(s.saveLabel())}
	if s.history != domain.HistoryEmpty {
		parts = append(parts, s.styles.Muted.Render("history: "+string(s.history)))
	}
	if s.message != "" {
		parts = append(parts, s.styles.Normal.Render(s.message))
	}
	return strings.Join(parts, "  ")
}

func (s *Bar) saveLabel() string {
	st := s.status
	switch st.State {
	case domain.SaveStateError:
		if st.LastError != "" {
			return fmt.Sprintf("%s: %s", st.State.Description(), st.LastError)
		}
		return st.State.Description()
	case domain.SaveStateIdle:
		if st.Dirty {
			return "Unsaved changes"
		}
		if !st.LastSavedAt.IsZero() {
			return fmt.Sprintf("Saved %s", st.LastSavedAt.Format(time.Kitchen))
		}
		return st.State.Description()
	default:
		return st.State.Description()
	}
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetStatus sets the autosave status.
func (s *Bar) SetStatus(status domain.SaveStatus) {
	s.status = status
}

// Status returns the autosave status shown.
func (s *Bar) Status() domain.SaveStatus {
	return s.status
}

// SetHistory sets the undo history position.
func (s *Bar) SetHistory(pos domain.HistoryPosition) {
	s.history = pos
}

// SetBindings replaces the keybinding hints.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetMessage sets a transient message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.status = domain.SaveStatus{State: domain.SaveStateIdle}
	s.history = domain.HistoryEmpty
	s.message = ""
}
