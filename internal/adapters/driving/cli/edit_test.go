package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

func TestEdit_NewDocument(t *testing.T) {
	env := setupTestServices(t)

	script := `# comments and blank lines are skipped

title Jane Doe
add skills
style margins=100 font-size=large
undo
status
save
quit
title ignored after quit
`
	out, err := execute(t, script, "edit")
	require.NoError(t, err)

	assert.Contains(t, out, "title set")
	assert.Contains(t, out, "added ")
	assert.Contains(t, out, "style updated")
	assert.Contains(t, out, "undone")
	assert.Contains(t, out, "history:")
	assert.Contains(t, out, "saved ")
	assert.Equal(t, 1, env.store.Creates())

	builds, err := env.library.List(context.Background())
	require.NoError(t, err)
	require.Len(t, builds, 1)

	doc, err := env.library.Get(context.Background(), builds[0].BuildID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", doc.Title)
	assert.Len(t, doc.SectionOrder, 2)
	assert.Equal(t, domain.DefaultStyle().PageMargins, doc.Style.PageMargins)
}

func TestEdit_ExistingBuild(t *testing.T) {
	env := setupTestServices(t)
	id := env.createBuild(t, "Before")

	out, err := execute(t, "title After\nremove header\nshow\n", "edit", id)
	require.NoError(t, err)

	assert.Contains(t, out, "title set")
	assert.Contains(t, out, "no change", "the header is locked")
	assert.Contains(t, out, "Build: "+id)

	doc, err := env.library.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "After", doc.Title)
	assert.Equal(t, 1, env.store.Updates())
}

func TestEdit_ErrorsDoNotStopTheShell(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "bogus\nadd\nadd certifications\ntitle Still Running\n", "edit", "--template", "modern")
	require.NoError(t, err)

	assert.Contains(t, out, `error: unknown command "bogus"`)
	assert.Contains(t, out, "error: usage: add <type>")
	assert.Contains(t, out, "does not support certifications sections")
	assert.Contains(t, out, "title set")
}

func TestEdit_OpenMissingBuild(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "edit", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEdit_SeedAndSet(t *testing.T) {
	env := setupTestServices(t)
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sections": {"summary": "Backend engineer."}}`), 0600))

	out, err := execute(t, "seed "+path+"\nset header name=Jane email=jane@example.com\nsave\n", "edit")
	require.NoError(t, err)
	assert.Contains(t, out, "seed merged")
	assert.Contains(t, out, "updated")

	builds, err := env.library.List(context.Background())
	require.NoError(t, err)
	require.Len(t, builds, 1)
	doc, err := env.library.Get(context.Background(), builds[0].BuildID)
	require.NoError(t, err)

	header, ok := doc.Section(domain.HeaderSectionID)
	require.True(t, ok)
	assert.Equal(t, "Jane", header.Data["name"])
	assert.Equal(t, "jane@example.com", header.Data["email"])
	assert.Len(t, doc.SectionOrder, 2)
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"name=Jane", "years=3", "tags=[\"a\"]", "gone=null"})
	require.NoError(t, err)

	assert.Equal(t, "Jane", got["name"])
	assert.Equal(t, float64(3), got["years"])
	assert.Equal(t, []any{"a"}, got["tags"])
	assert.Contains(t, got, "gone")
	assert.Nil(t, got["gone"])

	_, err = parseAssignments([]string{"novalue"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = parseAssignments([]string{"=x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseToggles(t *testing.T) {
	got, err := parseToggles([]string{"showDates=false", "showLocation=true"})
	require.NoError(t, err)
	assert.Equal(t, domain.Toggles{"showDates": false, "showLocation": true}, got)

	_, err = parseToggles([]string{"showDates=maybe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = parseToggles([]string{"showDates"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseStylePatch(t *testing.T) {
	patch, err := parseStylePatch([]string{"margins=20", "spacing=2", "line-height=1.4", "font-size=Large", "color=#112233", "font=Inter", "background=band"})
	require.NoError(t, err)

	assert.Equal(t, 20.0, *patch.PageMargins)
	assert.Equal(t, 2.0, *patch.SectionSpacing)
	assert.Equal(t, 1.4, *patch.LineHeight)
	assert.Equal(t, domain.FontPreset("large"), *patch.FontSize)
	assert.Equal(t, "#112233", *patch.PrimaryColor)
	assert.Equal(t, "Inter", *patch.FontFamily)
	assert.Equal(t, domain.Background("band"), *patch.Background)

	patch, err = parseStylePatch([]string{"font-size=11"})
	require.NoError(t, err)
	assert.Equal(t, domain.FontPoints(11), *patch.FontSize)

	_, err = parseStylePatch(nil)
	assert.Error(t, err)
	_, err = parseStylePatch([]string{"margins=wide"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = parseStylePatch([]string{"border=1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEdit_InterruptedStillSaves(t *testing.T) {
	env := setupTestServices(t)

	// An interrupt cancels the command context before stdin is drained.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader("title Unsaved Work\n"))
	rootCmd.SetArgs([]string{"edit"})

	require.NoError(t, rootCmd.ExecuteContext(ctx))

	assert.Equal(t, 1, env.store.Creates())
	builds, err := env.library.List(context.Background())
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, "Unsaved Work", builds[0].Title)
	assert.Contains(t, buf.String(), "Build: "+builds[0].BuildID)
}
