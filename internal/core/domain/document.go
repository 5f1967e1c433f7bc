package domain

import "time"

// HeaderSectionID is the stable identifier of the header section.
// Every document carries exactly one header and it cannot be removed.
const HeaderSectionID = "header"

// SectionType identifies the kind of content block a section holds.
// The set is closed; data for types this build does not know about is
// kept under SectionCustom or in the settings fallback bucket.
type SectionType string

// Known section types.
const (
	SectionHeader         SectionType = "header"
	SectionSummary        SectionType = "summary"
	SectionExperience     SectionType = "experience"
	SectionEducation      SectionType = "education"
	SectionSkills         SectionType = "skills"
	SectionProjects       SectionType = "projects"
	SectionCertifications SectionType = "certifications"
	SectionLanguages      SectionType = "languages"
	SectionCustom         SectionType = "custom"
)

// IsKnown returns true if the section type is part of the closed set.
func (t SectionType) IsKnown() bool {
	switch t {
	case SectionHeader, SectionSummary, SectionExperience, SectionEducation,
		SectionSkills, SectionProjects, SectionCertifications, SectionLanguages,
		SectionCustom:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t SectionType) String() string {
	return string(t)
}

// Title returns the default heading shown for the section type.
func (t SectionType) Title() string {
	switch t {
	case SectionHeader:
		return "Header"
	case SectionSummary:
		return "Summary"
	case SectionExperience:
		return "Experience"
	case SectionEducation:
		return "Education"
	case SectionSkills:
		return "Skills"
	case SectionProjects:
		return "Projects"
	case SectionCertifications:
		return "Certifications"
	case SectionLanguages:
		return "Languages"
	case SectionCustom:
		return "Additional"
	default:
		return unknownDescription
	}
}

// AllSectionTypes returns every known section type in canonical order.
func AllSectionTypes() []SectionType {
	return []SectionType{
		SectionHeader,
		SectionSummary,
		SectionExperience,
		SectionEducation,
		SectionSkills,
		SectionProjects,
		SectionCertifications,
		SectionLanguages,
		SectionCustom,
	}
}

// Section is a typed content block with a stable identity.
type Section struct {
	// ID is unique within a document.
	ID string `json:"id"`

	// Type selects the renderer used for this section.
	Type SectionType `json:"type"`

	// Data is the section payload. Its shape depends on Type.
	Data map[string]any `json:"data"`

	// Locked sections cannot be removed but still accept data edits.
	Locked bool `json:"locked,omitempty"`
}

// Clone returns a structural deep copy of the section.
func (s Section) Clone() Section {
	return Section{
		ID:     s.ID,
		Type:   s.Type,
		Data:   CloneData(s.Data),
		Locked: s.Locked,
	}
}

// Document is the canonical in-memory representation of one resume.
//
// SectionOrder is always a permutation of the section ids: no duplicates
// and no missing entries.
type Document struct {
	Title           string
	Sections        []Section
	SectionOrder    []string
	SectionSettings SectionSettings
	Style           Style
	Template        string
}

// NewDocument returns a fresh document for the given template with only
// the locked header section present.
func NewDocument(templateID string) Document {
	return Document{
		Title: "Untitled Resume",
		Sections: []Section{{
			ID:     HeaderSectionID,
			Type:   SectionHeader,
			Data:   map[string]any{},
			Locked: true,
		}},
		SectionOrder:    []string{HeaderSectionID},
		SectionSettings: NewSectionSettings(),
		Style:           DefaultStyle(),
		Template:        templateID,
	}
}

// Clone returns a structural deep copy. No slice or map is shared with
// the receiver.
func (d Document) Clone() Document {
	out := Document{
		Title:           d.Title,
		SectionSettings: d.SectionSettings.Clone(),
		Style:           d.Style,
		Template:        d.Template,
	}
	if d.Sections != nil {
		out.Sections = make([]Section, len(d.Sections))
		for i := range d.Sections {
			out.Sections[i] = d.Sections[i].Clone()
		}
	}
	if d.SectionOrder != nil {
		out.SectionOrder = append([]string(nil), d.SectionOrder...)
	}
	return out
}

// Section returns the section with the given id.
func (d Document) Section(id string) (Section, bool) {
	if i := d.indexOf(id); i >= 0 {
		return d.Sections[i], true
	}
	return Section{}, false
}

// SectionsOfType returns all sections of a type, in document order.
func (d Document) SectionsOfType(t SectionType) []Section {
	var out []Section
	for _, s := range d.Ordered() {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// Ordered returns the sections following SectionOrder.
func (d Document) Ordered() []Section {
	out := make([]Section, 0, len(d.SectionOrder))
	for _, id := range d.SectionOrder {
		if s, ok := d.Section(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// OrderIsValid reports whether SectionOrder is a permutation of the
// section ids.
func (d Document) OrderIsValid() bool {
	if len(d.SectionOrder) != len(d.Sections) {
		return false
	}
	seen := make(map[string]bool, len(d.Sections))
	for _, s := range d.Sections {
		seen[s.ID] = false
	}
	for _, id := range d.SectionOrder {
		used, ok := seen[id]
		if !ok || used {
			return false
		}
		seen[id] = true
	}
	return true
}

func (d Document) indexOf(id string) int {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// Payload is the wire form of a Document shared with the persistence
// and export collaborators.
type Payload struct {
	Title           string          `json:"title"`
	Sections        []Section       `json:"sections"`
	SectionOrder    []string        `json:"sectionOrder"`
	SectionSettings SectionSettings `json:"sectionSettings"`
	Style           Style           `json:"style"`
	Template        string          `json:"template"`
}

// ToPayload serialises the document into a detached payload.
func (d Document) ToPayload() Payload {
	c := d.Clone()
	return Payload{
		Title:           c.Title,
		Sections:        c.Sections,
		SectionOrder:    c.SectionOrder,
		SectionSettings: c.SectionSettings,
		Style:           c.Style,
		Template:        c.Template,
	}
}

// Document converts the payload back into a detached document.
func (p Payload) Document() Document {
	return Document{
		Title:           p.Title,
		Sections:        p.Sections,
		SectionOrder:    p.SectionOrder,
		SectionSettings: p.SectionSettings,
		Style:           p.Style,
		Template:        p.Template,
	}.Clone()
}

// Clone returns a structural deep copy of the payload.
func (p Payload) Clone() Payload {
	return Document(p).ToPayload()
}

// BuildSummary is a listing entry for a persisted build.
type BuildSummary struct {
	BuildID    string
	Title      string
	UpdatedAt  time.Time
	Thumbnail  string
	TemplateID string
}
