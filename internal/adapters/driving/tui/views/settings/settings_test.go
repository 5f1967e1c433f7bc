package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	values map[string]string
	setErr error
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{values: map[string]string{
		"autosave.delay": "1500",
		"export.paper":   "a4",
		"remote.token":   "****",
	}}
}

func (m *mockSettingsService) Get() domain.EditorSettings         { return domain.DefaultEditorSettings() }
func (m *mockSettingsService) GetDefaults() domain.EditorSettings { return domain.DefaultEditorSettings() }

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Unset(key string) error {
	delete(m.values, key)
	return nil
}

func (m *mockSettingsService) Describe() []driving.SettingInfo {
	out := []driving.SettingInfo{}
	for _, k := range []string{"autosave.delay", "export.paper", "remote.token"} {
		out = append(out, driving.SettingInfo{Key: k, Value: m.values[k], Default: "a4", Description: "about " + k})
	}
	return out
}

func keyPress(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// run executes cmd and feeds its message back into the view.
func run(t *testing.T, v *View, cmd tea.Cmd) *View {
	t.Helper()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func loaded(t *testing.T, svc driving.SettingsService) *View {
	t.Helper()
	v := NewView(nil, svc)
	v.SetDimensions(100, 30)
	return run(t, v, v.Init())
}

func TestView_Init(t *testing.T) {
	v := loaded(t, newMockSettings())

	require.Len(t, v.Settings(), 3)
	view := v.View()
	assert.Contains(t, view, "autosave.delay")
	assert.Contains(t, view, "a4 (default)")
	assert.Contains(t, view, "about autosave.delay")
}

func TestView_NilService(t *testing.T) {
	v := loaded(t, nil)

	assert.ErrorIs(t, v.Err(), errNoSettings)
	assert.Contains(t, v.View(), "settings service not available")
}

func TestView_EditValue(t *testing.T) {
	svc := newMockSettings()
	v := loaded(t, svc)

	v, _ = v.Update(keyPress("enter"))
	require.True(t, v.Editing())
	assert.Equal(t, "1500", v.field.Value())

	for i := 0; i < 4; i++ {
		v, _ = v.Update(keyPress("backspace"))
	}
	v, _ = v.Update(keyPress("900"))

	v, cmd := v.Update(keyPress("enter"))
	assert.False(t, v.Editing())
	v = run(t, v, cmd)

	assert.Equal(t, "900", svc.values["autosave.delay"])
	assert.Contains(t, v.View(), "Saved autosave.delay")
}

func TestView_SecretIsNotPrefilled(t *testing.T) {
	v := loaded(t, newMockSettings())

	v, _ = v.Update(keyPress("down"))
	v, _ = v.Update(keyPress("down"))
	v, _ = v.Update(keyPress("enter"))

	require.True(t, v.Editing())
	assert.Empty(t, v.field.Value())
}

func TestView_EditCancel(t *testing.T) {
	svc := newMockSettings()
	v := loaded(t, svc)

	v, _ = v.Update(keyPress("enter"))
	v, _ = v.Update(keyPress("7"))
	v, cmd := v.Update(keyPress("esc"))

	assert.Nil(t, cmd)
	assert.False(t, v.Editing())
	assert.Equal(t, "1500", svc.values["autosave.delay"])
}

func TestView_SetError(t *testing.T) {
	svc := newMockSettings()
	svc.setErr = errors.New("invalid value")
	v := loaded(t, svc)

	v, _ = v.Update(keyPress("enter"))
	v, cmd := v.Update(keyPress("enter"))
	v = run(t, v, cmd)

	assert.EqualError(t, v.Err(), "invalid value")
	assert.Contains(t, v.View(), "Error: invalid value")
}

func TestView_Unset(t *testing.T) {
	svc := newMockSettings()
	v := loaded(t, svc)

	v, _ = v.Update(keyPress("down"))
	_, cmd := v.Update(keyPress("x"))
	run(t, v, cmd)

	assert.NotContains(t, svc.values, "export.paper")
}

func TestView_EscGoesToMenu(t *testing.T) {
	v := loaded(t, newMockSettings())

	_, cmd := v.Update(keyPress("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
