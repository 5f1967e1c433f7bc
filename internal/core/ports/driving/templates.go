package driving

import "github.com/custodia-labs/vitae-cli/internal/core/ports/driven"

// TemplateService exposes the template catalog to user interfaces.
type TemplateService interface {
	// List returns all templates.
	List() []driven.TemplateInfo

	// Get returns a template by ID.
	Get(templateID string) (driven.TemplateInfo, bool)
}
