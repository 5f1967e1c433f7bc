// Package editor provides the document editing view for the TUI.
package editor

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

// StatusInterval is how often the autosave status is polled.
const StatusInterval = 250 * time.Millisecond

// Mode is the editor's input mode.
type Mode int

const (
	// ModeBrowse navigates and edits sections.
	ModeBrowse Mode = iota
	// ModeAdd picks a section type to add.
	ModeAdd
	// ModeRename edits the title.
	ModeRename
)

// Tick returns a command that delivers the next StatusTick.
func Tick() tea.Cmd {
	return tea.Tick(StatusInterval, func(time.Time) tea.Msg {
		return messages.StatusTick{}
	})
}

// View edits the document of one session.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	templates driving.TemplateService

	session driving.Session
	doc     domain.Document

	list  *list.SectionList
	bar   *status.Bar
	field *input.Field

	mode      Mode
	picker    []domain.SectionType
	pickerSel int

	width  int
	height int
}

// NewView creates a new editor view. templates may be nil.
func NewView(s *styles.Styles, templates driving.TemplateService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		styles:    s,
		keymap:    km,
		templates: templates,
		list:      list.NewSectionList(s),
		bar:       status.NewBar(s, km),
		field:     input.NewField(s, "Title", "Untitled Resume"),
		width:     80,
		height:    24,
	}
}

// SetSession attaches an open session. nil detaches.
func (v *View) SetSession(sess driving.Session) {
	v.session = sess
	v.mode = ModeBrowse
	v.bar.Clear()
	v.refresh()
}

// Session returns the attached session.
func (v *View) Session() driving.Session {
	return v.session
}

// Init starts status polling.
func (v *View) Init() tea.Cmd {
	if v.session == nil {
		return nil
	}
	return Tick()
}

// Update handles messages for the editor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.StatusTick:
		if v.session == nil {
			return v, nil
		}
		v.refreshStatus()
		return v, Tick()

	case messages.SaveCompleted:
		if msg.Err != nil {
			v.bar.SetMessage("Save failed")
		} else {
			v.bar.SetMessage("Saved")
		}
		v.refreshStatus()
		return v, nil

	case messages.SessionReset:
		if v.session == nil {
			return v, nil
		}
		v.mode = ModeBrowse
		v.refresh()
		if msg.Err != nil {
			v.bar.SetMessage("New resume failed")
		} else {
			v.bar.SetMessage("Started a new resume")
		}
		return v, nil

	case tea.KeyMsg:
		if v.session == nil {
			if msg.String() == "esc" {
				return v, back
			}
			return v, nil
		}
		switch v.mode {
		case ModeAdd:
			return v.handlePickerKeys(msg)
		case ModeRename:
			return v.handleRenameKeys(msg)
		default:
			return v.handleBrowseKeys(msg)
		}
	}
	return v, nil
}

func back() tea.Msg {
	return messages.ViewChanged{View: messages.ViewLibrary}
}

//nolint:gocyclo // one case per binding
func (v *View) handleBrowseKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	ed := v.session.Editor()
	k := msg.String()
	v.bar.SetMessage("")

	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, back

	case keymap.Matches(k, v.keymap.MoveUp), keymap.Matches(k, v.keymap.MoveDown):
		sec, ok := v.list.Selected()
		if !ok {
			return v, nil
		}
		delta := 1
		if keymap.Matches(k, v.keymap.MoveUp) {
			delta = -1
		}
		if ed.MoveSection(sec.ID, delta) {
			v.refresh()
			v.list.Select(sec.ID)
		}

	case keymap.Matches(k, v.keymap.Up), keymap.Matches(k, v.keymap.Down):
		v.list, _ = v.list.Update(msg)

	case keymap.Matches(k, v.keymap.Add):
		v.openPicker()

	case keymap.Matches(k, v.keymap.Delete):
		sec, ok := v.list.Selected()
		if !ok {
			return v, nil
		}
		if sec.Locked {
			v.bar.SetMessage(fmt.Sprintf("%s cannot be removed", sec.Type.Title()))
			return v, nil
		}
		if ed.RemoveSection(sec.ID) {
			v.refresh()
		}

	case keymap.Matches(k, v.keymap.Undo):
		if !ed.Undo() {
			v.bar.SetMessage("Nothing to undo")
		}
		v.refresh()

	case keymap.Matches(k, v.keymap.Redo):
		if !ed.Redo() {
			v.bar.SetMessage("Nothing to redo")
		}
		v.refresh()

	case keymap.Matches(k, v.keymap.Template):
		next := v.nextTemplate()
		if next != "" && ed.ChangeTemplate(next) {
			v.bar.SetMessage("Template: " + next)
			v.refresh()
		}

	case keymap.Matches(k, v.keymap.Rename):
		v.mode = ModeRename
		v.field.SetValue(v.doc.Title)
		return v, v.field.Focus()

	case keymap.Matches(k, v.keymap.Save):
		return v, v.save(v.session.SaveNow)

	case keymap.Matches(k, v.keymap.Retry):
		return v, v.save(v.session.Retry)

	case keymap.Matches(k, v.keymap.New):
		return v, v.reset()
	}
	return v, nil
}

func (v *View) handlePickerKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = ModeBrowse
	case "up", "k":
		if v.pickerSel > 0 {
			v.pickerSel--
		}
	case "down", "j":
		if v.pickerSel < len(v.picker)-1 {
			v.pickerSel++
		}
	case "enter":
		v.mode = ModeBrowse
		if v.pickerSel >= len(v.picker) {
			return v, nil
		}
		t := v.picker[v.pickerSel]
		id, ok := v.session.Editor().AddSection(t)
		if !ok {
			v.bar.SetMessage(fmt.Sprintf("%s is not supported by this template", t.Title()))
			return v, nil
		}
		v.refresh()
		v.list.Select(id)
	}
	return v, nil
}

func (v *View) handleRenameKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = ModeBrowse
		v.field.Blur()
		return v, nil
	case "enter":
		v.mode = ModeBrowse
		v.field.Blur()
		if v.session.Editor().SetTitle(strings.TrimSpace(v.field.Value())) {
			v.refresh()
		}
		return v, nil
	}
	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

func (v *View) save(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return messages.SaveCompleted{Err: fn(context.Background())}
	}
}

// reset flushes the current build and starts a new one on the default
// template within the same session.
func (v *View) reset() tea.Cmd {
	sess := v.session
	return func() tea.Msg {
		return messages.SessionReset{Err: sess.Reset(context.Background(), "")}
	}
}

// openPicker lists the section types the current template supports.
func (v *View) openPicker() {
	types := domain.AllSectionTypes()
	if v.templates != nil {
		if info, ok := v.templates.Get(v.doc.Template); ok {
			types = info.Sections
		}
	}
	v.picker = v.picker[:0]
	for _, t := range types {
		if t != domain.SectionHeader {
			v.picker = append(v.picker, t)
		}
	}
	v.pickerSel = 0
	v.mode = ModeAdd
}

// nextTemplate returns the template after the current one, wrapping.
func (v *View) nextTemplate() string {
	if v.templates == nil {
		return ""
	}
	all := v.templates.List()
	if len(all) == 0 {
		return ""
	}
	for i, info := range all {
		if info.ID == v.doc.Template {
			return all[(i+1)%len(all)].ID
		}
	}
	return all[0].ID
}

func (v *View) refresh() {
	if v.session == nil {
		v.doc = domain.Document{}
		v.list.SetSections(nil)
		return
	}
	v.doc = v.session.Editor().Document()
	v.list.SetSections(v.doc.Ordered())
	v.refreshStatus()
}

func (v *View) refreshStatus() {
	v.bar.SetStatus(v.session.Status())
	v.bar.SetHistory(v.session.Editor().HistoryPosition())
}

// View renders the editor.
func (v *View) View() string {
	if v.session == nil {
		return v.styles.Muted.Render("No resume open.") + "\n\n" + v.styles.Help.Render("[esc] back")
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.doc.Title))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("template: %s", v.doc.Template)))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	b.WriteString("\n")

	switch v.mode {
	case ModeAdd:
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Add section"))
		b.WriteString("\n")
		for i, t := range v.picker {
			if i == v.pickerSel {
				b.WriteString(v.styles.Selected.Render("> " + t.Title()))
			} else {
				b.WriteString(v.styles.Normal.Render("  " + t.Title()))
			}
			b.WriteString("\n")
		}
	case ModeRename:
		b.WriteString("\n")
		b.WriteString(v.field.View())
		b.WriteString("\n")
	case ModeBrowse:
	}

	b.WriteString("\n")
	b.WriteString(v.bar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-8)
	v.bar.SetWidth(width)
	v.field.SetWidth(width)
}

// Mode returns the current input mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Document returns the last rendered document.
func (v *View) Document() domain.Document {
	return v.doc
}

// SelectedSection returns the selected section.
func (v *View) SelectedSection() (domain.Section, bool) {
	return v.list.Selected()
}
