package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

func TestExport_Layout(t *testing.T) {
	env := setupTestServices(t)
	id := env.createBuild(t, "Jane Doe")

	out, err := execute(t, "", "export", id, "--layout")
	require.NoError(t, err)

	var layout domain.ExportLayout
	require.NoError(t, json.Unmarshal([]byte(out), &layout))
	assert.Equal(t, "Jane Doe", layout.Title)
	assert.Equal(t, "classic", layout.Template)
	assert.Equal(t, domain.PaperA4, layout.Paper)
	require.NotEmpty(t, layout.Sections)
	assert.Equal(t, domain.SectionHeader, layout.Sections[0].Type)
}

func TestExport_WritesPDF(t *testing.T) {
	env := setupTestServices(t)
	id := env.createBuild(t, "Jane Doe")
	path := filepath.Join(t.TempDir(), "out", "jane.pdf")

	out, err := execute(t, "", "export", id, "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExport_NotFound(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "export", "missing", "--layout")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Jane Doe", want: "jane-doe"},
		{title: "  Senior Eng. (2026)  ", want: "senior-eng-2026"},
		{title: "../../etc/passwd", want: "etcpasswd"},
		{title: "a -- b", want: "a-b"},
		{title: "", want: "resume"},
		{title: "***", want: "resume"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, fileName(tt.title))
		})
	}
}
