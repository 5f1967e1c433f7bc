package templates

import (
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
)

// Built-in template IDs.
const (
	Classic = "classic"
	Modern  = "modern"
	Minimal = "minimal"
)

// DefaultRegistry returns a registry with the built-in templates.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers all built-in templates with the registry.
func RegisterDefaults(r *Registry) {
	for _, t := range []Template{classic(), modern(), minimal()} {
		// Built-in templates always carry renderers.
		_ = r.Register(t)
	}
}

// classic supports every section type with ruled, upper-case headings.
func classic() Template {
	s := style{upper: true, rule: true, sep: " | "}
	return Template{
		ID:         Classic,
		Name:       "Classic",
		ThemeColor: "#1f2937",
		FontFamily: "Georgia",
		Sections:   capabilities(s, domain.AllSectionTypes()...),
	}
}

// modern drops certifications; they render through the generic renderer.
func modern() Template {
	s := style{sep: " · "}
	return Template{
		ID:         Modern,
		Name:       "Modern",
		ThemeColor: "#2563eb",
		FontFamily: "Inter",
		Sections: capabilities(s,
			domain.SectionHeader,
			domain.SectionSummary,
			domain.SectionExperience,
			domain.SectionEducation,
			domain.SectionSkills,
			domain.SectionProjects,
			domain.SectionLanguages,
			domain.SectionCustom,
		),
	}
}

// minimal keeps a single page to the essentials.
func minimal() Template {
	s := style{sep: ", "}
	return Template{
		ID:         Minimal,
		Name:       "Minimal",
		ThemeColor: "#111827",
		FontFamily: "Helvetica",
		Sections: capabilities(s,
			domain.SectionHeader,
			domain.SectionSummary,
			domain.SectionExperience,
			domain.SectionEducation,
			domain.SectionSkills,
		),
	}
}

func capabilities(s style, types ...domain.SectionType) map[domain.SectionType]Capability {
	out := make(map[domain.SectionType]Capability, len(types))
	for _, t := range types {
		out[t] = Capability{Renderer: rendererFor(s, t), Defaults: defaultData(t)}
	}
	return out
}

func rendererFor(s style, t domain.SectionType) driven.SectionRenderer {
	switch t {
	case domain.SectionHeader:
		return &headerRenderer{s}
	case domain.SectionSummary:
		return &summaryRenderer{s}
	case domain.SectionExperience:
		return &experienceRenderer{s}
	case domain.SectionEducation:
		return &educationRenderer{s}
	case domain.SectionSkills:
		return &skillsRenderer{s}
	case domain.SectionProjects:
		return &projectsRenderer{s}
	case domain.SectionCertifications:
		return &certificationsRenderer{s}
	case domain.SectionLanguages:
		return &languagesRenderer{s}
	default:
		return &genericRenderer{s}
	}
}

// defaultData is the initial data of a newly added section.
func defaultData(t domain.SectionType) map[string]any {
	switch t {
	case domain.SectionHeader:
		return map[string]any{"name": "", "title": "", "email": "", "phone": "", "location": ""}
	case domain.SectionSummary:
		return map[string]any{"text": ""}
	case domain.SectionSkills:
		return map[string]any{"groups": []any{
			map[string]any{"category": domain.DefaultSkillCategory, "items": []any{}},
		}}
	case domain.SectionCustom:
		return map[string]any{"title": "Additional", "content": ""}
	default:
		return map[string]any{"items": []any{}}
	}
}
