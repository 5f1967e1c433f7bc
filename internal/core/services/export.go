package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vitae-cli/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

var errNoRenderer = errors.New("no renderer configured")

// ExportService turns document snapshots into static output.
type ExportService struct {
	catalog  driven.TemplateCatalog
	renderer driven.ExportRenderer
	paper    domain.PaperSize
}

// NewExportService creates a new export service. renderer may be nil, in
// which case only Layout is available.
func NewExportService(catalog driven.TemplateCatalog, renderer driven.ExportRenderer, paper domain.PaperSize) *ExportService {
	if paper.Width <= 0 || paper.Height <= 0 {
		paper = domain.PaperA4
	}
	return &ExportService{catalog: catalog, renderer: renderer, paper: paper}
}

// Format returns the renderer's output format.
func (s *ExportService) Format() string {
	if s.renderer == nil {
		return ""
	}
	return s.renderer.Format()
}

// Layout resolves a payload into print units and rendered blocks.
// Sections render in SectionOrder; empty sections are skipped.
func (s *ExportService) Layout(ctx context.Context, payload domain.Payload) (domain.ExportLayout, error) {
	logger.Section("Export Layout")
	doc := domain.Normalize(payload.Document())

	theme := ""
	if info, ok := s.catalog.Info(doc.Template); ok {
		theme = info.ThemeColor
	} else {
		logger.Warn("unknown template %q, every section uses the generic renderer", doc.Template)
	}

	layout := domain.ExportLayout{
		Title:    doc.Title,
		Template: doc.Template,
		Paper:    s.paper,
		Style:    ResolveExportStyle(doc.Style, theme),
	}
	logger.Debug("style: margin=%.2fpt spacing=%.2fpt font=%s %.2fpt",
		layout.Style.MarginPt, layout.Style.SectionSpacingPt, layout.Style.FontFamily, layout.Style.FontSizePt)

	for _, section := range doc.Ordered() {
		if err := ctx.Err(); err != nil {
			return domain.ExportLayout{}, &domain.ExportError{Stage: "layout", Err: err}
		}
		r := s.catalog.Resolve(doc.Template, section.Type)
		blocks := r.Render(section, doc.SectionSettings.For(section.Type))
		logger.Debug("section %s (%s) -> %s: %d blocks", section.ID, section.Type, r.Name(), len(blocks))
		if len(blocks) == 0 {
			continue
		}
		layout.Sections = append(layout.Sections, domain.ExportSection{
			ID:       section.ID,
			Type:     section.Type,
			Renderer: r.Name(),
			Blocks:   blocks,
		})
	}
	return layout, nil
}

// Export renders a payload. Failures are returned as *domain.ExportError.
func (s *ExportService) Export(ctx context.Context, payload domain.Payload) ([]byte, error) {
	if s.renderer == nil {
		return nil, &domain.ExportError{Stage: "render", Err: errNoRenderer}
	}
	layout, err := s.Layout(ctx, payload)
	if err != nil {
		return nil, err
	}
	data, err := s.renderer.Render(ctx, layout)
	if err != nil {
		return nil, &domain.ExportError{Stage: "render", Err: err}
	}
	logger.Info("exported %q as %s (%d bytes)", layout.Title, s.renderer.Format(), len(data))
	return data, nil
}
