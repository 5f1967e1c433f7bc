package menu

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/services"
)

func press(v *View, key string) (*View, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	return v.Update(msg)
}

func summary(id, title string, updated time.Time) domain.BuildSummary {
	return domain.BuildSummary{BuildID: id, Title: title, TemplateID: "classic", UpdatedAt: updated}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.Nil(t, v.Init(), "no library, nothing to load")
	assert.Equal(t, 0, v.Selected())
	assert.Len(t, v.Entries(), len(actions))
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_Navigation(t *testing.T) {
	v := NewView(nil, nil)

	v, _ = press(v, "up")
	assert.Equal(t, 0, v.Selected())

	v, _ = press(v, "down")
	v, _ = press(v, "j")
	assert.Equal(t, 2, v.Selected())

	v, _ = press(v, "k")
	assert.Equal(t, 1, v.Selected())

	for i := 0; i < 10; i++ {
		v, _ = press(v, "down")
	}
	assert.Equal(t, len(actions)-1, v.Selected())
}

func TestView_SelectAction(t *testing.T) {
	tests := []struct {
		name  string
		downs int
		want  tea.Msg
	}{
		{"new resume", 0, messages.OpenRequested{}},
		{"all resumes", 1, messages.ViewChanged{View: messages.ViewLibrary}},
		{"settings", 2, messages.ViewChanged{View: messages.ViewSettings}},
		{"help", 3, messages.ViewChanged{View: messages.ViewHelp}},
		{"quit", 4, messages.Quit{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(nil, nil)
			for i := 0; i < tt.downs; i++ {
				v, _ = press(v, "down")
			}
			_, cmd := press(v, "enter")
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestView_ShortcutKeys(t *testing.T) {
	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"n", messages.OpenRequested{}},
		{"?", messages.ViewChanged{View: messages.ViewHelp}},
		{"q", messages.Quit{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, cmd := press(NewView(nil, nil), tt.key)
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestView_RecentBuilds(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var builds []domain.BuildSummary
	for i := 0; i < RecentLimit+2; i++ {
		builds = append(builds, summary(
			string(rune('a'+i)), string(rune('A'+i))+" resume", base.Add(time.Duration(i)*time.Hour)))
	}

	v := NewView(nil, nil)
	v, _ = v.Update(messages.RecentLoaded{Builds: builds})

	entries := v.Entries()
	require.Len(t, entries, RecentLimit+len(actions))
	assert.Equal(t, "g", entries[0].Build.BuildID, "newest first")
	assert.Equal(t, "c", entries[RecentLimit-1].Build.BuildID)
	assert.Equal(t, ActionNew, entries[RecentLimit].Action)
	assert.Equal(t, RecentLimit, v.Selected(), "cursor stays on New resume")

	v, _ = press(v, "k")
	_, cmd := press(v, "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, messages.OpenRequested{BuildID: "c"}, cmd())

	v.SetDimensions(100, 40)
	view := v.View()
	assert.Contains(t, view, "G resume")
	assert.NotContains(t, view, "A resume")
	assert.Contains(t, view, "classic")
}

func TestView_LoadsFromLibrary(t *testing.T) {
	store := memory.NewBuildStore()
	doc := domain.NewDocument("modern")
	doc.Title = "Data Engineer"
	store.Put("b-1", doc.ToPayload())

	v := NewView(nil, services.NewLibraryService(store))
	v.SetDimensions(100, 40)
	cmd := v.Init()
	require.NotNil(t, cmd)
	assert.Contains(t, v.View(), "Loading...")

	loaded, ok := cmd().(messages.RecentLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	v, _ = v.Update(loaded)

	assert.Contains(t, v.View(), "Data Engineer")
	assert.NotContains(t, v.View(), "Loading...")

	_, reload := press(v, "r")
	require.NotNil(t, reload)
	assert.IsType(t, messages.RecentLoaded{}, reload())
}

func TestView_RecentLoadError(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(80, 24)

	v, _ = v.Update(messages.RecentLoaded{Err: errors.New("store offline")})
	assert.Contains(t, v.View(), "Could not list resumes: store offline")
	assert.Len(t, v.Entries(), len(actions))
}

func TestView_LastSession(t *testing.T) {
	saved := time.Date(2026, 3, 1, 15, 4, 0, 0, time.Local)
	tests := []struct {
		name string
		last LastSession
		want string
	}{
		{
			"saved",
			LastSession{BuildID: "b-1", Title: "Staff Engineer", Status: domain.SaveStatus{
				State: domain.SaveStateIdle, BuildID: "b-1", LastSavedAt: saved,
			}},
			"Saved " + saved.Format(time.Kitchen),
		},
		{
			"never saved",
			LastSession{Title: "Untitled Resume", Status: domain.SaveStatus{State: domain.SaveStateIdle}},
			"Nothing to save",
		},
		{
			"autosave failed",
			LastSession{BuildID: "b-1", Title: "Staff Engineer", Status: domain.SaveStatus{
				State: domain.SaveStateError, LastError: "disk full",
			}},
			"Save failed: disk full",
		},
		{
			"close failed",
			LastSession{Title: "Staff Engineer", Err: errors.New("timeout")},
			"Not saved: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(nil, nil)
			v.SetDimensions(100, 40)
			assert.NotContains(t, v.View(), "Last edit:")

			v.SetLastSession(tt.last)
			view := v.View()
			assert.Contains(t, view, "Last edit:")
			assert.Contains(t, view, tt.last.Title)
			assert.Contains(t, view, tt.want)
		})
	}
}

func TestView_View(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(80, 24)

	view := v.View()
	assert.Contains(t, view, "vitae")
	assert.Contains(t, view, "No resumes yet")
	assert.Contains(t, view, "> New resume")
	assert.Contains(t, view, "All resumes")
}
