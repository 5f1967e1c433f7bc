package domain

import (
	"encoding/json"
	"sort"
)

// Toggles holds boolean switches for optional fields of a section type.
type Toggles map[string]bool

// Clone returns a copy of the toggles.
func (t Toggles) Clone() Toggles {
	if t == nil {
		return nil
	}
	out := make(Toggles, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Enabled returns the value of a toggle, false when unset.
func (t Toggles) Enabled(name string) bool {
	return t[name]
}

// Toggle names understood by the built-in renderers.
const (
	ToggleShowBullets  = "showBullets"
	ToggleShowDates    = "showDates"
	ToggleShowLocation = "showLocation"
	ToggleShowGPA      = "showGPA"
	ToggleShowLevel    = "showLevel"
	ToggleGrouped      = "grouped"
	ToggleShowLinks    = "showLinks"
	ToggleShowPhoto    = "showPhoto"
	ToggleShowIssuer   = "showIssuer"
)

// DefaultToggles returns the built-in defaults for a section type.
// Unknown types get an empty set.
func DefaultToggles(t SectionType) Toggles {
	switch t {
	case SectionHeader:
		return Toggles{ToggleShowLinks: true, ToggleShowPhoto: false}
	case SectionExperience:
		return Toggles{ToggleShowBullets: true, ToggleShowDates: true, ToggleShowLocation: true}
	case SectionEducation:
		return Toggles{ToggleShowDates: true, ToggleShowGPA: false, ToggleShowLocation: false}
	case SectionSkills:
		return Toggles{ToggleGrouped: true, ToggleShowLevel: false}
	case SectionProjects:
		return Toggles{ToggleShowBullets: true, ToggleShowLinks: true, ToggleShowDates: false}
	case SectionCertifications:
		return Toggles{ToggleShowIssuer: true, ToggleShowDates: true}
	case SectionLanguages:
		return Toggles{ToggleShowLevel: true}
	case SectionSummary, SectionCustom:
		return Toggles{}
	default:
		return Toggles{}
	}
}

// SectionSettings holds per-section-type toggles.
//
// Known section types live in ByType. Types this build does not recognise
// are parked in Fallback so they survive a load/save round trip untouched.
type SectionSettings struct {
	ByType   map[SectionType]Toggles
	Fallback map[string]Toggles
}

// NewSectionSettings returns empty settings; defaults apply on lookup.
func NewSectionSettings() SectionSettings {
	return SectionSettings{
		ByType:   make(map[SectionType]Toggles),
		Fallback: make(map[string]Toggles),
	}
}

// For returns the effective toggles for a section type: the defaults
// overlaid with stored overrides.
func (s SectionSettings) For(t SectionType) Toggles {
	if !t.IsKnown() {
		if stored, ok := s.Fallback[string(t)]; ok && stored != nil {
			return stored.Clone()
		}
		return Toggles{}
	}
	out := DefaultToggles(t)
	for k, v := range s.ByType[t] {
		out[k] = v
	}
	return out
}

// With returns a copy of the settings with toggles merged for the type.
func (s SectionSettings) With(t SectionType, toggles Toggles) SectionSettings {
	out := s.Clone()
	if out.ByType == nil {
		out.ByType = make(map[SectionType]Toggles)
	}
	if out.Fallback == nil {
		out.Fallback = make(map[string]Toggles)
	}

	var current Toggles
	if t.IsKnown() {
		current = out.ByType[t]
	} else {
		current = out.Fallback[string(t)]
	}
	if current == nil {
		current = Toggles{}
	}
	for k, v := range toggles {
		current[k] = v
	}
	if t.IsKnown() {
		out.ByType[t] = current
	} else {
		out.Fallback[string(t)] = current
	}
	return out
}

// Clone returns a deep copy.
func (s SectionSettings) Clone() SectionSettings {
	out := SectionSettings{}
	if s.ByType != nil {
		out.ByType = make(map[SectionType]Toggles, len(s.ByType))
		for k, v := range s.ByType {
			out.ByType[k] = v.Clone()
		}
	}
	if s.Fallback != nil {
		out.Fallback = make(map[string]Toggles, len(s.Fallback))
		for k, v := range s.Fallback {
			out.Fallback[k] = v.Clone()
		}
	}
	return out
}

// Keys returns every stored section type key, sorted.
func (s SectionSettings) Keys() []string {
	keys := make([]string, 0, len(s.ByType)+len(s.Fallback))
	for k := range s.ByType {
		keys = append(keys, string(k))
	}
	for k := range s.Fallback {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON writes the settings as one flat object keyed by section type.
func (s SectionSettings) MarshalJSON() ([]byte, error) {
	flat := make(map[string]Toggles, len(s.ByType)+len(s.Fallback))
	for k, v := range s.Fallback {
		flat[k] = v
	}
	for k, v := range s.ByType {
		flat[string(k)] = v
	}
	return json.Marshal(flat)
}

// UnmarshalJSON routes known section types to ByType and everything else
// to Fallback.
func (s *SectionSettings) UnmarshalJSON(data []byte) error {
	var flat map[string]Toggles
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	*s = NewSectionSettings()
	for k, v := range flat {
		if v == nil {
			v = Toggles{}
		}
		if t := SectionType(k); t.IsKnown() {
			s.ByType[t] = v
		} else {
			s.Fallback[k] = v
		}
	}
	return nil
}
