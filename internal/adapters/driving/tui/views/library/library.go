// Package library provides the saved-builds view for the TUI.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

var errNoLibrary = errors.New("library service not available")

// View lists saved builds.
type View struct {
	styles  *styles.Styles
	library driving.LibraryService

	builds   []domain.BuildSummary
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool

	// confirmDelete holds the id awaiting a second delete press.
	confirmDelete string
}

// NewView creates a new library view.
func NewView(s *styles.Styles, library driving.LibraryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		library: library,
		builds:  []domain.BuildSummary{},
	}
}

// Init initialises the view and loads builds.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.confirmDelete = ""
	return v.loadBuilds()
}

// loadBuilds returns a command that lists builds.
func (v *View) loadBuilds() tea.Cmd {
	return func() tea.Msg {
		if v.library == nil {
			return messages.BuildsLoaded{Err: errNoLibrary}
		}
		builds, err := v.library.List(context.Background())
		return messages.BuildsLoaded{Builds: builds, Err: err}
	}
}

// Update handles messages for the library view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.BuildsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.builds = msg.Builds
		v.err = nil
		if v.selected >= len(v.builds) {
			v.selected = max(len(v.builds)-1, 0)
		}
		return v, nil

	case messages.BuildDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadBuilds()

	case messages.BuildDuplicated:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.selected = 0
		return v, v.loadBuilds()
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	if k != "d" && k != "delete" {
		v.confirmDelete = ""
	}

	switch k {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.builds)-1 {
			v.selected++
		}
	case "enter":
		if b, ok := v.current(); ok {
			return v, func() tea.Msg {
				return messages.OpenRequested{BuildID: b.BuildID}
			}
		}
	case "n":
		return v, func() tea.Msg {
			return messages.OpenRequested{}
		}
	case "c":
		if b, ok := v.current(); ok {
			return v, v.duplicate(b.BuildID)
		}
	case "d", "delete":
		b, ok := v.current()
		if !ok {
			return v, nil
		}
		if v.confirmDelete != b.BuildID {
			v.confirmDelete = b.BuildID
			return v, nil
		}
		v.confirmDelete = ""
		return v, v.delete(b.BuildID)
	case "r":
		v.loading = true
		return v, v.loadBuilds()
	}

	return v, nil
}

func (v *View) current() (domain.BuildSummary, bool) {
	if v.selected < 0 || v.selected >= len(v.builds) {
		return domain.BuildSummary{}, false
	}
	return v.builds[v.selected], true
}

func (v *View) delete(id string) tea.Cmd {
	return func() tea.Msg {
		if v.library == nil {
			return messages.BuildDeleted{BuildID: id, Err: errNoLibrary}
		}
		return messages.BuildDeleted{BuildID: id, Err: v.library.Delete(context.Background(), id)}
	}
}

func (v *View) duplicate(id string) tea.Cmd {
	return func() tea.Msg {
		if v.library == nil {
			return messages.BuildDuplicated{Err: errNoLibrary}
		}
		newID, err := v.library.Duplicate(context.Background(), id)
		return messages.BuildDuplicated{BuildID: newID, Err: err}
	}
}

// View renders the library view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Resumes"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading resumes..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	case len(v.builds) == 0:
		b.WriteString(v.styles.Muted.Render("No resumes yet. Press n to start one."))
		b.WriteString("\n")
	default:
		for i := range v.builds {
			b.WriteString(v.renderBuild(i, v.builds[i]))
			b.WriteString("\n")
		}
	}

	if v.confirmDelete != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render("Press d again to delete this resume"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderBuild renders a single build line.
func (v *View) renderBuild(index int, build domain.BuildSummary) string {
	title := build.Title
	if title == "" {
		title = build.BuildID
	}
	maxLen := v.width - 40
	if maxLen < 10 {
		maxLen = 10
	}
	if len(title) > maxLen {
		title = title[:maxLen-3] + "..."
	}

	updated := ""
	if !build.UpdatedAt.IsZero() {
		updated = build.UpdatedAt.Local().Format("2006-01-02 15:04")
	}
	tmpl := fmt.Sprintf("[%s]", build.TemplateID)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %-10s %s  %s", tmpl, title, updated))
	}
	return "  " + v.styles.Subtitle.Render(fmt.Sprintf("%-10s ", tmpl)) +
		v.styles.Normal.Render(title) + "  " + v.styles.Muted.Render(updated)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] open  [n] new  [c] duplicate  [d] delete  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Builds returns the listed builds.
func (v *View) Builds() []domain.BuildSummary {
	return v.builds
}

// SelectedIndex returns the selected build index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
