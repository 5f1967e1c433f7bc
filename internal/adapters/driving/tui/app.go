package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/views/editor"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/views/library"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/vitae-cli/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	keymap *keymap.KeyMap

	menuView     *menu.View
	libraryView  *library.View
	editorView   *editor.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool

	// startBuild is opened in the editor on startup when set.
	startBuild string
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       keymap.DefaultKeyMap(),
		menuView:     menu.NewView(s, ports.Library),
		libraryView:  library.NewView(s, ports.Library),
		editorView:   editor.NewView(s, ports.Templates),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithBuild opens buildID in the editor as soon as the program starts.
func (a *App) WithBuild(buildID string) *App {
	a.startBuild = buildID
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("vitae"),
		a.menuView.Init(),
	}
	if a.startBuild != "" {
		cmds = append(cmds, a.open(a.startBuild))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, a.quit()
		}
		return a, a.forwardKey(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.OpenRequested:
		a.err = nil
		return a, a.open(msg.BuildID)

	case messages.BuildOpened:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.editorView.SetSession(msg.Session)
		a.currentView = messages.ViewEditor
		return a, a.editorView.Init()

	case messages.SessionClosed:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.menuView.SetLastSession(menu.LastSession{
			BuildID: msg.BuildID,
			Title:   msg.Title,
			Status:  msg.Status,
			Err:     msg.Err,
		})
		switch a.currentView {
		case messages.ViewLibrary:
			return a, a.libraryView.Init()
		case messages.ViewMenu:
			return a, a.menuView.Init()
		}
		return a, nil

	case messages.RecentLoaded:
		a.menuView, cmd = a.menuView.Update(msg)
		return a, cmd

	case messages.StatusTick, messages.SaveCompleted, messages.SessionReset:
		a.editorView, cmd = a.editorView.Update(msg)
		return a, cmd

	case messages.BuildsLoaded, messages.BuildDeleted, messages.BuildDuplicated:
		a.libraryView, cmd = a.libraryView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, a.quit()
	}

	return a, nil
}

func (a *App) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewLibrary:
		a.libraryView, cmd = a.libraryView.Update(msg)
	case messages.ViewEditor:
		a.editorView, cmd = a.editorView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// switchView changes the active view. Leaving the editor closes its session.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	leavingEditor := a.currentView == messages.ViewEditor && view != messages.ViewEditor
	a.currentView = view
	a.err = nil

	if leavingEditor && a.editorView.Session() != nil {
		return a.closeSession()
	}

	switch view {
	case messages.ViewLibrary:
		return a.libraryView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu:
		return a.menuView.Init()
	case messages.ViewEditor, messages.ViewHelp:
	}
	return nil
}

// open returns a command that opens buildID, or a new build when empty.
func (a *App) open(buildID string) tea.Cmd {
	sessions := a.ports.Sessions
	ctx := a.ctx
	return func() tea.Msg {
		if buildID == "" {
			sess, err := sessions.New("")
			return messages.BuildOpened{Session: sess, Err: err}
		}
		sess, err := sessions.Open(ctx, buildID)
		return messages.BuildOpened{Session: sess, Err: err}
	}
}

// closeSession detaches the editor session and flushes it in the background.
func (a *App) closeSession() tea.Cmd {
	sess := a.editorView.Session()
	a.editorView.SetSession(nil)
	if sess == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		err := sess.Close(ctx)
		return messages.SessionClosed{
			BuildID: sess.BuildID(),
			Title:   sess.Editor().Document().Title,
			Status:  sess.Status(),
			Err:     err,
		}
	}
}

// quit flushes the open session, then exits.
func (a *App) quit() tea.Cmd {
	sess := a.editorView.Session()
	if sess == nil {
		return tea.Quit
	}
	a.editorView.SetSession(nil)
	ctx := context.WithoutCancel(a.ctx)
	return func() tea.Msg {
		if err := sess.Close(ctx); err != nil {
			logger.Error("closing build %s: %v", sess.BuildID(), err)
		}
		return tea.QuitMsg{}
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewLibrary:
		body = a.libraryView.View()
	case messages.ViewEditor:
		body = a.editorView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	if a.err != nil {
		body += "\n\n" + a.styles.Error.Render(fmt.Sprintf("Error: %s", a.err))
	}
	return body
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("Changes are saved automatically a moment after you stop editing."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.libraryView.SetDimensions(width, height)
	a.editorView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
