package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsShow(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "settings")
	require.NoError(t, err)

	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "autosave.delay")
	assert.Contains(t, out, "history.limit")
	assert.Contains(t, out, "remote.token")
}

func TestSettingsSetAndUnset(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "", "settings", "set", "history.limit", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Set history.limit")
	assert.Equal(t, 20, env.settings.Get().HistoryLimit)

	out, err = execute(t, "", "settings", "unset", "history.limit")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset history.limit to its default")
	assert.Equal(t, env.settings.GetDefaults().HistoryLimit, env.settings.Get().HistoryLimit)
}

func TestSettingsSet_Errors(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "settings", "set", "no.such.key", "1")
	assert.Error(t, err)

	_, err = execute(t, "", "settings", "set", "history.limit", "-3")
	assert.Error(t, err)

	_, err = execute(t, "", "settings", "set", "history.limit")
	assert.Error(t, err, "only remote.token may omit the value")
}

func TestTemplates(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "templates")
	require.NoError(t, err)

	for _, id := range []string{"classic", "modern", "minimal"} {
		assert.Contains(t, out, "  "+id+"\n")
	}
	assert.Contains(t, out, "Sections: ")
	assert.Contains(t, out, "certifications")
}
