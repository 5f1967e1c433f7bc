// Package menu provides the start screen: recently edited resumes, the
// outcome of the last editing session and the app actions.
package menu

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

// RecentLimit caps the builds listed on the start screen.
const RecentLimit = 5

// Action is what selecting an entry does.
type Action int

const (
	// ActionOpen opens the entry's build.
	ActionOpen Action = iota
	// ActionNew starts an unsaved document.
	ActionNew
	// ActionLibrary shows every build.
	ActionLibrary
	// ActionSettings shows the settings view.
	ActionSettings
	// ActionHelp shows the keybindings.
	ActionHelp
	// ActionQuit exits the app.
	ActionQuit
)

// Entry is one selectable line of the start screen.
type Entry struct {
	Action Action
	Label  string
	// Build is set for ActionOpen.
	Build domain.BuildSummary
}

// key identifies an entry across reloads.
func (e Entry) key() string {
	if e.Action == ActionOpen {
		return "build:" + e.Build.BuildID
	}
	return fmt.Sprintf("action:%d", e.Action)
}

var actions = []Entry{
	{Action: ActionNew, Label: "New resume"},
	{Action: ActionLibrary, Label: "All resumes"},
	{Action: ActionSettings, Label: "Settings"},
	{Action: ActionHelp, Label: "Help"},
	{Action: ActionQuit, Label: "Quit"},
}

// LastSession is how the most recently closed editing session ended.
type LastSession struct {
	BuildID string
	Title   string
	Status  domain.SaveStatus
	Err     error
}

// View is the start screen.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	library driving.LibraryService

	recent   []domain.BuildSummary
	entries  []Entry
	last     *LastSession
	err      error
	loading  bool
	selected int

	width  int
	height int
	ready  bool
}

// NewView creates the start screen. library may be nil, in which case no
// recent builds are listed.
func NewView(s *styles.Styles, library driving.LibraryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	v := &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		library: library,
		width:   80,
		height:  24,
	}
	v.rebuild()
	return v
}

// Init loads the recent builds.
func (v *View) Init() tea.Cmd {
	if v.library == nil {
		return nil
	}
	v.loading = true
	library := v.library
	return func() tea.Msg {
		builds, err := library.List(context.Background())
		return messages.RecentLoaded{Builds: builds, Err: err}
	}
}

// Update handles messages for the start screen.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.RecentLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.recent = newestFirst(msg.Builds, RecentLimit)
		}
		v.rebuild()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeys(msg)
	}
	return v, nil
}

func (v *View) handleKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.entries)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keymap.Select):
		if v.selected < len(v.entries) {
			return v, v.choose(v.entries[v.selected])
		}
	case keymap.Matches(k, v.keymap.New):
		return v, v.choose(Entry{Action: ActionNew})
	case keymap.Matches(k, v.keymap.Reload):
		return v, v.Init()
	case keymap.Matches(k, v.keymap.Help):
		return v, v.choose(Entry{Action: ActionHelp})
	case keymap.Matches(k, v.keymap.Quit):
		return v, quit
	}
	return v, nil
}

func (v *View) choose(e Entry) tea.Cmd {
	switch e.Action {
	case ActionOpen:
		id := e.Build.BuildID
		return func() tea.Msg { return messages.OpenRequested{BuildID: id} }
	case ActionNew:
		return func() tea.Msg { return messages.OpenRequested{} }
	case ActionLibrary:
		return changeView(messages.ViewLibrary)
	case ActionSettings:
		return changeView(messages.ViewSettings)
	case ActionHelp:
		return changeView(messages.ViewHelp)
	case ActionQuit:
		return quit
	}
	return nil
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

func quit() tea.Msg {
	return messages.Quit{}
}

// rebuild recomputes the entries and keeps the cursor on the same entry
// when it survives the reload.
func (v *View) rebuild() {
	prev := ""
	if v.selected < len(v.entries) {
		prev = v.entries[v.selected].key()
	}

	entries := make([]Entry, 0, len(v.recent)+len(actions))
	for _, b := range v.recent {
		entries = append(entries, Entry{Action: ActionOpen, Label: b.Title, Build: b})
	}
	entries = append(entries, actions...)
	v.entries = entries

	v.selected = 0
	for i, e := range entries {
		if e.key() == prev {
			v.selected = i
			break
		}
	}
}

// newestFirst orders builds by last update and keeps at most limit.
func newestFirst(builds []domain.BuildSummary, limit int) []domain.BuildSummary {
	out := append([]domain.BuildSummary(nil), builds...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SetLastSession records how the last editing session ended.
func (v *View) SetLastSession(last LastSession) {
	v.last = &last
}

// View renders the start screen.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("vitae"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Resume builder"))
	b.WriteString("\n\n")

	if line := v.lastSessionLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n\n")
	}

	b.WriteString(v.styles.Subtitle.Render("Recent"))
	b.WriteString("\n")
	switch {
	case v.loading && len(v.recent) == 0:
		b.WriteString(v.styles.Muted.Render("  Loading..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("  Could not list resumes: %s", v.err)))
		b.WriteString("\n")
	case len(v.recent) == 0:
		b.WriteString(v.styles.Muted.Render("  No resumes yet"))
		b.WriteString("\n")
	}

	for i, e := range v.entries {
		if e.Action != ActionOpen && (i == 0 || v.entries[i-1].Action == ActionOpen) {
			b.WriteString("\n")
		}
		b.WriteString(v.renderEntry(e, i == v.selected))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] navigate  [enter] select  [n] new  [r] reload  [q] quit"))
	return b.String()
}

func (v *View) renderEntry(e Entry, selected bool) string {
	label := e.Label
	if e.Action == ActionOpen && label == "" {
		label = "(untitled)"
	}
	if selected {
		label = v.styles.Selected.Render("> " + label)
	} else {
		label = v.styles.Normal.Render("  " + label)
	}
	if e.Action != ActionOpen {
		return label
	}
	meta := e.Build.TemplateID
	if !e.Build.UpdatedAt.IsZero() {
		meta += ", " + e.Build.UpdatedAt.Local().Format("2006-01-02 15:04")
	}
	return label + "  " + v.styles.Muted.Render(meta)
}

// lastSessionLine describes the last closed session, or "" when none.
func (v *View) lastSessionLine() string {
	if v.last == nil {
		return ""
	}
	title := v.last.Title
	if title == "" {
		title = "(untitled)"
	}
	prefix := v.styles.Muted.Render("Last edit: ") + v.styles.Normal.Render(title) + "  "

	if v.last.Err != nil {
		return prefix + v.styles.Error.Render(fmt.Sprintf("Not saved: %s", v.last.Err))
	}
	st := v.last.Status
	label := st.State.Description()
	switch {
	case st.State == domain.SaveStateError && st.LastError != "":
		label = fmt.Sprintf("%s: %s", label, st.LastError)
	case st.State == domain.SaveStateIdle && !st.LastSavedAt.IsZero():
		label = "Saved " + st.LastSavedAt.Local().Format(time.Kitchen)
	case st.State == domain.SaveStateIdle && v.last.BuildID == "":
		label = "Nothing to save"
	}
	return prefix + v.styles.SaveState(st.State).Render(label)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the cursor index.
func (v *View) Selected() int {
	return v.selected
}

// Entries returns the selectable entries, recent builds first.
func (v *View) Entries() []Entry {
	return v.entries
}
