// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// SectionList displays a document's sections in order.
type SectionList struct {
	sections []domain.Section
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSectionList creates a new section list component.
func NewSectionList(s *styles.Styles) *SectionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SectionList{
		styles: s,
		width:  80,
		height: 20,
	}
}

// Init initialises the list.
func (l *SectionList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SectionList) Update(msg tea.Msg) (*SectionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *SectionList) View() string {
	if len(l.sections) == 0 {
		return l.styles.Muted.Render("No sections")
	}

	visible := l.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.sections) {
		end = len(l.sections)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderSection(i, l.sections[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *SectionList) renderSection(index int, section domain.Section) string {
	label := Label(section)
	maxLen := l.width - 20
	if maxLen < 10 {
		maxLen = 10
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}

	typeStr := fmt.Sprintf("[%s]", section.Type)
	if index == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("> %-16s %s", typeStr, label))
	}

	line := "  " + l.styles.Subtitle.Render(fmt.Sprintf("%-16s ", typeStr)) + l.styles.Normal.Render(label)
	if section.Locked {
		line += " " + l.styles.Locked.Render("(locked)")
	}
	return line
}

// Label returns a one-line description of a section.
func Label(section domain.Section) string {
	for _, k := range []string{"title", "name", "text"} {
		if s, ok := section.Data[k].(string); ok && strings.TrimSpace(s) != "" {
			return firstLine(s)
		}
	}
	for _, k := range []string{"items", "groups"} {
		if items, ok := section.Data[k].([]any); ok {
			return fmt.Sprintf("%s (%d)", section.Type.Title(), len(items))
		}
	}
	return section.Type.Title()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// SetSections replaces the list contents, keeping the selection in range.
func (l *SectionList) SetSections(sections []domain.Section) {
	l.sections = sections
	l.clamp()
}

// Sections returns the listed sections.
func (l *SectionList) Sections() []domain.Section {
	return l.sections
}

// Select moves the selection to the section with the given id.
func (l *SectionList) Select(id string) {
	for i, s := range l.sections {
		if s.ID == id {
			l.selected = i
			return
		}
	}
}

// Selected returns the selected section.
func (l *SectionList) Selected() (domain.Section, bool) {
	if l.selected < 0 || l.selected >= len(l.sections) {
		return domain.Section{}, false
	}
	return l.sections[l.selected], true
}

// SelectedIndex returns the selected position.
func (l *SectionList) SelectedIndex() int {
	return l.selected
}

// MoveUp moves the selection up.
func (l *SectionList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the selection down.
func (l *SectionList) MoveDown() {
	if l.selected < len(l.sections)-1 {
		l.selected++
	}
}

// SetDimensions sets the list size.
func (l *SectionList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

func (l *SectionList) clamp() {
	if l.selected >= len(l.sections) {
		l.selected = len(l.sections) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}
