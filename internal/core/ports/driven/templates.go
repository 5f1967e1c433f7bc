package driven

import "github.com/custodia-labs/vitae-cli/internal/core/domain"

// SectionRenderer converts one section into layout blocks.
type SectionRenderer interface {
	// Name identifies the renderer variant, e.g. "experience" or "generic".
	Name() string

	// Render produces the blocks for a section. Toggles are the resolved
	// per-type settings for the section's type.
	Render(section domain.Section, toggles domain.Toggles) []domain.Block
}

// TemplateInfo describes a registered template.
type TemplateInfo struct {
	ID         string
	Name       string
	ThemeColor string
	FontFamily string
	Sections   []domain.SectionType
}

// TemplateCatalog maps (template, section type) pairs to renderers.
type TemplateCatalog interface {
	// Has returns true if the template is registered.
	Has(templateID string) bool

	// Supports returns true if the template has a renderer for the type.
	Supports(templateID string, t domain.SectionType) bool

	// Resolve returns the renderer for a section type. Types the template
	// does not support resolve to the generic renderer.
	Resolve(templateID string, t domain.SectionType) SectionRenderer

	// Defaults returns a fresh copy of the initial data for a new section.
	Defaults(templateID string, t domain.SectionType) map[string]any

	// Info returns the template description.
	Info(templateID string) (TemplateInfo, bool)

	// List returns all templates sorted by ID.
	List() []TemplateInfo
}
