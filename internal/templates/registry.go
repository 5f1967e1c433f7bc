package templates

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
)

// Capability is what a template offers for one section type.
type Capability struct {
	// Renderer draws the section.
	Renderer driven.SectionRenderer

	// Defaults is the initial data of a newly added section.
	Defaults map[string]any
}

// Template is a named set of section capabilities plus theme defaults.
type Template struct {
	ID         string
	Name       string
	ThemeColor string
	FontFamily string
	Sections   map[domain.SectionType]Capability
}

// Info returns the catalog description of the template.
func (t *Template) Info() driven.TemplateInfo {
	types := make([]domain.SectionType, 0, len(t.Sections))
	for _, st := range domain.AllSectionTypes() {
		if _, ok := t.Sections[st]; ok {
			types = append(types, st)
		}
	}
	return driven.TemplateInfo{
		ID:         t.ID,
		Name:       t.Name,
		ThemeColor: t.ThemeColor,
		FontFamily: t.FontFamily,
		Sections:   types,
	}
}

// Registry maps template IDs to templates.
// Lookups are read-only once the registry is populated; Register may be
// called concurrently with lookups.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
	generic   driven.SectionRenderer
}

var _ driven.TemplateCatalog = (*Registry)(nil)

// NewRegistry creates an empty registry. Unsupported section types
// resolve to the plain generic renderer.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]*Template),
		generic:   &genericRenderer{},
	}
}

// Register adds or replaces a template.
func (r *Registry) Register(t Template) error {
	if t.ID == "" {
		return fmt.Errorf("register template: %w: empty id", domain.ErrInvalidInput)
	}
	for st, c := range t.Sections {
		if c.Renderer == nil {
			return fmt.Errorf("register template %s: %w: no renderer for %s", t.ID, domain.ErrInvalidInput, st)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.ID] = &t
	return nil
}

// Get returns the template with the given ID.
func (r *Registry) Get(templateID string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("template %q: %w", templateID, domain.ErrNotFound)
	}
	return t, nil
}

// Has returns true if a template with the given ID is registered.
func (r *Registry) Has(templateID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[templateID]
	return ok
}

// IDs returns all registered template IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Lookup returns the capability a template declares for a section type.
// It has no fallback: unsupported pairs report false.
func (r *Registry) Lookup(templateID string, t domain.SectionType) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpl, ok := r.templates[templateID]
	if !ok {
		return Capability{}, false
	}
	c, ok := tpl.Sections[t]
	return c, ok
}

// Supports returns true if Lookup would succeed.
func (r *Registry) Supports(templateID string, t domain.SectionType) bool {
	_, ok := r.Lookup(templateID, t)
	return ok
}

// Resolve returns the renderer for the pair, or the generic renderer.
func (r *Registry) Resolve(templateID string, t domain.SectionType) driven.SectionRenderer {
	if c, ok := r.Lookup(templateID, t); ok {
		return c.Renderer
	}
	return r.generic
}

// Defaults returns a deep copy of the initial data for a new section.
// Unsupported pairs get an empty map.
func (r *Registry) Defaults(templateID string, t domain.SectionType) map[string]any {
	c, ok := r.Lookup(templateID, t)
	if !ok || c.Defaults == nil {
		return map[string]any{}
	}
	return domain.CloneData(c.Defaults)
}

// Info returns the description of a template.
func (r *Registry) Info(templateID string) (driven.TemplateInfo, bool) {
	t, err := r.Get(templateID)
	if err != nil {
		return driven.TemplateInfo{}, false
	}
	return t.Info(), true
}

// List returns descriptions of all templates sorted by ID.
func (r *Registry) List() []driven.TemplateInfo {
	ids := r.IDs()
	out := make([]driven.TemplateInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := r.Info(id); ok {
			out = append(out, info)
		}
	}
	return out
}
