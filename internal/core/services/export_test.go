package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/templates"
)

func exportFixture() domain.Document {
	doc := domain.NewDocument(templates.Modern)
	doc.Title = "Ada Lovelace"
	doc, _ = domain.UpdateSectionData(doc, domain.HeaderSectionID, map[string]any{"name": "Ada Lovelace"})
	doc, _ = domain.AddSection(doc, domain.SectionCertifications, "certs", map[string]any{
		"items": []any{map[string]any{"name": "CKA"}},
	})
	doc, _ = domain.AddSection(doc, domain.SectionSummary, "summary", map[string]any{"text": "Engineer."})
	doc, _ = domain.AddSection(doc, domain.SectionProjects, "empty", map[string]any{"items": []any{}})
	doc, _ = domain.ReorderSections(doc, []string{domain.HeaderSectionID, "summary", "certs"})
	return doc
}

func TestExportService_Layout(t *testing.T) {
	svc := NewExportService(templates.DefaultRegistry(), nil, domain.PaperLetter)

	layout, err := svc.Layout(context.Background(), exportFixture().ToPayload())
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", layout.Title)
	assert.Equal(t, domain.PaperLetter, layout.Paper)
	assert.InDelta(t, 20*PointsPerMillimetre, layout.Style.MarginPt, 1e-9)

	var ids, renderers []string
	for _, s := range layout.Sections {
		ids = append(ids, s.ID)
		renderers = append(renderers, s.Renderer)
	}
	assert.Equal(t, []string{domain.HeaderSectionID, "summary", "certs"}, ids, "empty sections are skipped")
	assert.Equal(t, []string{"header", "summary", "generic"}, renderers)
}

func TestExportService_LayoutHonoursSettings(t *testing.T) {
	doc := exportFixture()
	doc, _ = domain.AddSection(doc, domain.SectionExperience, "exp", map[string]any{
		"items": []any{map[string]any{"role": "Engineer", "startDate": "2020", "bullets": []any{"Shipped"}}},
	})
	doc, _ = domain.UpdateSectionSettings(doc, domain.SectionExperience, domain.Toggles{domain.ToggleShowBullets: false})
	svc := NewExportService(templates.DefaultRegistry(), nil, domain.PaperA4)

	layout, err := svc.Layout(context.Background(), doc.ToPayload())
	require.NoError(t, err)

	exp := layout.Sections[len(layout.Sections)-1]
	require.Equal(t, "exp", exp.ID)
	for _, b := range exp.Blocks {
		assert.NotEqual(t, domain.BlockBullet, b.Kind)
	}
}

func TestExportService_DoesNotMutateInput(t *testing.T) {
	payload := exportFixture().ToPayload()
	before := payload.Clone()
	svc := NewExportService(templates.DefaultRegistry(), &fakeRenderer{}, domain.PaperA4)

	_, err := svc.Export(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, before, payload)
}

func TestExportService_Export(t *testing.T) {
	r := &fakeRenderer{}
	svc := NewExportService(templates.DefaultRegistry(), r, domain.PaperSize{})

	data, err := svc.Export(context.Background(), exportFixture().ToPayload())
	require.NoError(t, err)

	assert.Equal(t, "rendered:Ada Lovelace", string(data))
	assert.Equal(t, domain.PaperA4, r.layout.Paper)
	assert.Equal(t, "fake", svc.Format())
}

func TestExportService_Errors(t *testing.T) {
	payload := exportFixture().ToPayload()

	_, err := NewExportService(templates.DefaultRegistry(), nil, domain.PaperA4).Export(context.Background(), payload)
	assert.True(t, errors.Is(err, domain.ErrExportFailed))

	cause := errors.New("disk full")
	_, err = NewExportService(templates.DefaultRegistry(), &fakeRenderer{err: cause}, domain.PaperA4).Export(context.Background(), payload)
	var exportErr *domain.ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, "render", exportErr.Stage)
	assert.ErrorIs(t, err, cause)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewExportService(templates.DefaultRegistry(), &fakeRenderer{}, domain.PaperA4).Export(ctx, payload)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrExportFailed)
}
