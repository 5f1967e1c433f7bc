package services

import (
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

// Ensure TemplateService implements the interface.
var _ driving.TemplateService = (*TemplateService)(nil)

// TemplateService exposes the template catalog read-only.
type TemplateService struct {
	catalog driven.TemplateCatalog
}

// NewTemplateService creates a new template service.
func NewTemplateService(catalog driven.TemplateCatalog) *TemplateService {
	return &TemplateService{catalog: catalog}
}

// List returns all templates.
func (s *TemplateService) List() []driven.TemplateInfo {
	return s.catalog.List()
}

// Get returns a template by ID.
func (s *TemplateService) Get(templateID string) (driven.TemplateInfo, bool) {
	return s.catalog.Info(templateID)
}
