package mcp

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

func createBuild(t *testing.T, server *Server, input CreateBuildInput) string {
	t.Helper()
	_, out, err := server.handleCreateBuild(context.Background(), nil, input)
	require.NoError(t, err)
	require.NotEmpty(t, out.BuildID)
	return out.BuildID
}

func addSection(t *testing.T, server *Server, buildID, sectionType string) string {
	t.Helper()
	_, out, err := server.handleAddSection(context.Background(), nil, AddSectionInput{BuildID: buildID, Type: sectionType})
	require.NoError(t, err)
	require.True(t, out.Changed)
	return out.SectionID
}

func TestServer_handleCreateBuild(t *testing.T) {
	ctx := context.Background()
	server, store := newTestServer(t)

	id := createBuild(t, server, CreateBuildInput{Template: "modern", Title: "Platform Engineer"})

	payload, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer", payload.Title)
	assert.Equal(t, "modern", payload.Template)
	assert.Equal(t, 1, store.Creates())
	assert.Zero(t, store.Updates(), "creating writes the build once")
	assert.Empty(t, server.sessions, "no editing session is opened")

	t.Run("unknown template", func(t *testing.T) {
		_, _, err := server.handleCreateBuild(ctx, nil, CreateBuildInput{Template: "nope"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
		assert.Equal(t, 1, store.Creates())
	})

	t.Run("empty template uses the default", func(t *testing.T) {
		id := createBuild(t, server, CreateBuildInput{})
		payload, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "classic", payload.Template)
	})
}

func TestServer_handleListBuilds(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t)

	_, out, err := server.handleListBuilds(ctx, nil, ListBuildsInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.Empty(t, out.Builds)

	id := createBuild(t, server, CreateBuildInput{Title: "One"})

	_, out, err = server.handleListBuilds(ctx, nil, ListBuildsInput{})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, id, out.Builds[0].BuildID)
	assert.Equal(t, "One", out.Builds[0].Title)
	assert.Equal(t, "classic", out.Builds[0].Template)
	assert.NotEmpty(t, out.Builds[0].UpdatedAt)
}

func TestServer_handleGetBuild(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t)

	t.Run("unknown build", func(t *testing.T) {
		_, _, err := server.handleGetBuild(ctx, nil, BuildRef{BuildID: "missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("stored build", func(t *testing.T) {
		id := createBuild(t, server, CreateBuildInput{})
		_, out, err := server.handleGetBuild(ctx, nil, BuildRef{BuildID: id})
		require.NoError(t, err)

		assert.Equal(t, "Untitled Resume", out.Title)
		require.Len(t, out.Sections, 1)
		assert.Equal(t, domain.HeaderSectionID, out.Sections[0].ID)
		assert.True(t, out.Sections[0].Locked)
		assert.Equal(t, "11", out.Style.FontSize)
		assert.Equal(t, "plain", out.Style.Background)
	})
}

func TestServer_SectionTools(t *testing.T) {
	ctx := context.Background()
	server, store := newTestServer(t)
	id := createBuild(t, server, CreateBuildInput{})

	exp := addSection(t, server, id, "experience")
	skills := addSection(t, server, id, "skills")

	_, out, err := server.handleUpdateSection(ctx, nil, UpdateSectionInput{
		BuildID:   id,
		SectionID: exp,
		Data:      map[string]any{"title": "Work"},
	})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, "idle", out.SaveState)
	assert.Empty(t, out.SaveError)

	_, out, err = server.handleReorderSections(ctx, nil, ReorderSectionsInput{
		BuildID: id,
		Order:   []string{skills, "ghost", skills, exp},
	})
	require.NoError(t, err)
	assert.True(t, out.Changed)

	payload, err := store.Get(ctx, id)
	require.NoError(t, err)
	want := []string{skills, exp, domain.HeaderSectionID}
	if diff := cmp.Diff(want, payload.SectionOrder); diff != "" {
		t.Errorf("section order mismatch (-want +got):\n%s", diff)
	}

	_, out, err = server.handleMoveSection(ctx, nil, MoveSectionInput{BuildID: id, SectionID: domain.HeaderSectionID, Delta: -5})
	require.NoError(t, err)
	assert.True(t, out.Changed)

	_, out, err = server.handleRemoveSection(ctx, nil, SectionRef{BuildID: id, SectionID: domain.HeaderSectionID})
	require.NoError(t, err)
	assert.False(t, out.Changed, "header is locked")

	_, out, err = server.handleRemoveSection(ctx, nil, SectionRef{BuildID: id, SectionID: skills})
	require.NoError(t, err)
	assert.True(t, out.Changed)

	_, got, err := server.handleGetBuild(ctx, nil, BuildRef{BuildID: id})
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, domain.HeaderSectionID, got.Sections[0].ID)
	assert.Equal(t, "Work", got.Sections[1].Data["title"])
}

func TestServer_handleAddSection_Errors(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t)
	id := createBuild(t, server, CreateBuildInput{Template: "minimal"})

	_, _, err := server.handleAddSection(ctx, nil, AddSectionInput{BuildID: id, Type: "hobbies"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, _, err = server.handleAddSection(ctx, nil, AddSectionInput{BuildID: id, Type: "certifications"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, _, err = server.handleAddSection(ctx, nil, AddSectionInput{BuildID: "missing", Type: "skills"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServer_handleUpdateStyle(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t)
	id := createBuild(t, server, CreateBuildInput{})

	margins := 100.0
	_, out, err := server.handleUpdateStyle(ctx, nil, UpdateStyleInput{
		BuildID:     id,
		PageMargins: &margins,
		FontSize:    "large",
		Background:  "band",
	})
	require.NoError(t, err)
	assert.True(t, out.Changed)

	_, got, err := server.handleGetBuild(ctx, nil, BuildRef{BuildID: id})
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Style.PageMargins)
	assert.Equal(t, "large", got.Style.FontSize)
	assert.Equal(t, "band", got.Style.Background)

	t.Run("numeric font size", func(t *testing.T) {
		_, _, err := server.handleUpdateStyle(ctx, nil, UpdateStyleInput{BuildID: id, FontSize: "12"})
		require.NoError(t, err)
		_, got, err := server.handleGetBuild(ctx, nil, BuildRef{BuildID: id})
		require.NoError(t, err)
		assert.Equal(t, "12", got.Style.FontSize)
	})

	t.Run("invalid background", func(t *testing.T) {
		_, _, err := server.handleUpdateStyle(ctx, nil, UpdateStyleInput{BuildID: id, Background: "stripes"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("empty patch", func(t *testing.T) {
		_, _, err := server.handleUpdateStyle(ctx, nil, UpdateStyleInput{BuildID: id})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleChangeTemplate(t *testing.T) {
	ctx := context.Background()
	server, store := newTestServer(t)
	id := createBuild(t, server, CreateBuildInput{})

	_, _, err := server.handleChangeTemplate(ctx, nil, ChangeTemplateInput{BuildID: id, Template: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, out, err := server.handleChangeTemplate(ctx, nil, ChangeTemplateInput{BuildID: id, Template: "modern"})
	require.NoError(t, err)
	assert.True(t, out.Changed)

	payload, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "modern", payload.Template)
}

func TestServer_UndoRedo(t *testing.T) {
	ctx := context.Background()
	server, store := newTestServer(t)
	id := createBuild(t, server, CreateBuildInput{Title: "Before"})

	_, _, err := server.handleSetTitle(ctx, nil, SetTitleInput{BuildID: id, Title: "After"})
	require.NoError(t, err)

	_, out, err := server.handleUndo(ctx, nil, BuildRef{BuildID: id})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	payload, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Before", payload.Title)

	_, out, err = server.handleUndo(ctx, nil, BuildRef{BuildID: id})
	require.NoError(t, err)
	assert.False(t, out.Changed, "nothing left to undo")

	_, out, err = server.handleRedo(ctx, nil, BuildRef{BuildID: id})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	payload, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "After", payload.Title)
}

func TestServer_handleUpdateSettings(t *testing.T) {
	ctx := context.Background()
	server, store := newTestServer(t)
	id := createBuild(t, server, CreateBuildInput{})

	_, _, err := server.handleUpdateSettings(ctx, nil, UpdateSettingsInput{BuildID: id, Type: "hobbies"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, out, err := server.handleUpdateSettings(ctx, nil, UpdateSettingsInput{
		BuildID: id,
		Type:    "experience",
		Toggles: map[string]bool{domain.ToggleShowBullets: false},
	})
	require.NoError(t, err)
	assert.True(t, out.Changed)

	payload, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, payload.SectionSettings.For(domain.SectionExperience).Enabled(domain.ToggleShowBullets))
}

func TestServer_handleExportLayout(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t)
	id := createBuild(t, server, CreateBuildInput{Title: "Layout"})

	_, _, err := server.handleUpdateSection(ctx, nil, UpdateSectionInput{
		BuildID:   id,
		SectionID: domain.HeaderSectionID,
		Data:      map[string]any{"name": "Ada Lovelace"},
	})
	require.NoError(t, err)

	_, layout, err := server.handleExportLayout(ctx, nil, BuildRef{BuildID: id})
	require.NoError(t, err)
	assert.Equal(t, "Layout", layout.Title)
	assert.Equal(t, domain.PaperA4, layout.Paper)
	require.Len(t, layout.Sections, 1)
	assert.Equal(t, "header", layout.Sections[0].Renderer)

	t.Run("no export service", func(t *testing.T) {
		server.ports.Export = nil
		_, _, err := server.handleExportLayout(ctx, nil, BuildRef{BuildID: id})
		assert.ErrorIs(t, err, errNoExporter)
	})
}

func TestServer_handleListTemplates(t *testing.T) {
	server, _ := newTestServer(t)

	_, out, err := server.handleListTemplates(context.Background(), nil, ListTemplatesInput{})
	require.NoError(t, err)

	ids := make([]string, len(out.Templates))
	for i, tmpl := range out.Templates {
		ids[i] = tmpl.ID
	}
	assert.ElementsMatch(t, []string{"classic", "modern", "minimal"}, ids)

	server.ports.Templates = nil
	_, out, err = server.handleListTemplates(context.Background(), nil, ListTemplatesInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Templates)
}
