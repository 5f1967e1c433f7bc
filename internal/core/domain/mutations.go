package domain

import (
	"reflect"
	"strings"
)

// The functions in this file are pure: they never modify their input and
// always return a detached document together with a flag telling whether
// anything changed. Unknown ids resolve to a no-op.

// AddSection appends a new section built from a deep copy of defaults.
func AddSection(doc Document, t SectionType, id string, defaults map[string]any) (Document, bool) {
	if id == "" || doc.indexOf(id) >= 0 {
		return doc, false
	}
	data := CloneData(defaults)
	if data == nil {
		data = map[string]any{}
	}
	out := doc.Clone()
	out.Sections = append(out.Sections, Section{ID: id, Type: t, Data: data})
	out.SectionOrder = append(out.SectionOrder, id)
	return out, true
}

// RemoveSection deletes an unlocked section from the sections and the order.
func RemoveSection(doc Document, id string) (Document, bool) {
	i := doc.indexOf(id)
	if i < 0 || doc.Sections[i].Locked {
		return doc, false
	}
	out := doc.Clone()
	out.Sections = append(out.Sections[:i], out.Sections[i+1:]...)
	order := out.SectionOrder[:0]
	for _, sid := range out.SectionOrder {
		if sid != id {
			order = append(order, sid)
		}
	}
	out.SectionOrder = order
	return out, true
}

// ReorderSections applies a new ordering. Ids that do not exist and
// repeated ids are dropped; existing ids missing from newOrder are
// appended in their current relative order. Sections are never removed.
func ReorderSections(doc Document, newOrder []string) (Document, bool) {
	known := make(map[string]bool, len(doc.Sections))
	for _, s := range doc.Sections {
		known[s.ID] = true
	}

	order := make([]string, 0, len(doc.Sections))
	placed := make(map[string]bool, len(doc.Sections))
	for _, id := range newOrder {
		if known[id] && !placed[id] {
			order = append(order, id)
			placed[id] = true
		}
	}
	for _, id := range currentOrder(doc) {
		if !placed[id] {
			order = append(order, id)
			placed[id] = true
		}
	}

	if stringsEqual(order, doc.SectionOrder) {
		return doc, false
	}
	out := doc.Clone()
	out.SectionOrder = order
	return out, true
}

// MoveSection shifts a section by delta positions within the order.
func MoveSection(doc Document, id string, delta int) (Document, bool) {
	order := currentOrder(doc)
	from := -1
	for i, sid := range order {
		if sid == id {
			from = i
			break
		}
	}
	if from < 0 || delta == 0 {
		return doc, false
	}
	to := from + delta
	if to < 0 {
		to = 0
	}
	if to > len(order)-1 {
		to = len(order) - 1
	}
	if to == from {
		return doc, false
	}
	moved := append([]string(nil), order[:from]...)
	moved = append(moved, order[from+1:]...)
	moved = append(moved[:to], append([]string{id}, moved[to:]...)...)
	return ReorderSections(doc, moved)
}

// UpdateSectionData shallow-merges partial into the section data.
// A nil value deletes the key.
func UpdateSectionData(doc Document, id string, partial map[string]any) (Document, bool) {
	i := doc.indexOf(id)
	if i < 0 || len(partial) == 0 {
		return doc, false
	}
	merged := CloneData(doc.Sections[i].Data)
	if merged == nil {
		merged = map[string]any{}
	}
	for k, v := range partial {
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = CloneValue(v)
	}
	if reflect.DeepEqual(merged, doc.Sections[i].Data) {
		return doc, false
	}
	out := doc.Clone()
	out.Sections[i].Data = merged
	return out, true
}

// UpdateStyle clamps the patch and merges it into the style.
func UpdateStyle(doc Document, patch StylePatch) (Document, bool) {
	next := patch.Apply(doc.Style)
	if next == doc.Style {
		return doc, false
	}
	out := doc.Clone()
	out.Style = next
	return out, true
}

// ChangeTemplate swaps the active template. Section data is untouched.
func ChangeTemplate(doc Document, templateID string) (Document, bool) {
	if templateID == "" || templateID == doc.Template {
		return doc, false
	}
	out := doc.Clone()
	out.Template = templateID
	return out, true
}

// UpdateSectionSettings merges toggles for a section type.
func UpdateSectionSettings(doc Document, t SectionType, toggles Toggles) (Document, bool) {
	if len(toggles) == 0 {
		return doc, false
	}
	next := doc.SectionSettings.With(t, toggles)
	if reflect.DeepEqual(next.For(t), doc.SectionSettings.For(t)) {
		return doc, false
	}
	out := doc.Clone()
	out.SectionSettings = next
	return out, true
}

// SetTitle renames the document.
func SetTitle(doc Document, title string) (Document, bool) {
	title = strings.TrimSpace(title)
	if title == "" || title == doc.Title {
		return doc, false
	}
	out := doc.Clone()
	out.Title = title
	return out, true
}

// Normalize repairs a document read from storage or an external source:
// the header section exists and is locked, the order is a permutation of
// the section ids, settings maps are allocated and the style is in bounds.
func Normalize(doc Document) Document {
	out := doc.Clone()

	seen := make(map[string]bool, len(out.Sections))
	sections := make([]Section, 0, len(out.Sections)+1)
	hasHeader := false
	for _, s := range out.Sections {
		if s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		if s.Data == nil {
			s.Data = map[string]any{}
		}
		if s.Type == SectionHeader {
			if hasHeader {
				s.Type = SectionCustom
			} else {
				s.Locked = true
				hasHeader = true
			}
		}
		sections = append(sections, s)
	}
	if !hasHeader {
		sections = append([]Section{{
			ID:     HeaderSectionID,
			Type:   SectionHeader,
			Data:   map[string]any{},
			Locked: true,
		}}, sections...)
	}
	out.Sections = sections

	// Rebuild the order from scratch so it is a permutation again.
	repaired, _ := ReorderSections(Document{Sections: out.Sections}, out.SectionOrder)
	out.SectionOrder = repaired.SectionOrder
	if out.SectionOrder == nil {
		out.SectionOrder = currentOrder(out)
	}

	if out.SectionSettings.ByType == nil {
		out.SectionSettings.ByType = make(map[SectionType]Toggles)
	}
	if out.SectionSettings.Fallback == nil {
		out.SectionSettings.Fallback = make(map[string]Toggles)
	}

	out.Style = ClampStyle(fillStyleDefaults(out.Style))
	if strings.TrimSpace(out.Title) == "" {
		out.Title = "Untitled Resume"
	}
	return out
}

// fillStyleDefaults replaces zero values left by older payloads that did
// not carry every style field.
func fillStyleDefaults(s Style) Style {
	def := DefaultStyle()
	if s.PageMargins == 0 {
		s.PageMargins = def.PageMargins
	}
	if s.FontSize == (FontSize{}) {
		s.FontSize = def.FontSize
	}
	if s.LineHeight == 0 {
		s.LineHeight = def.LineHeight
	}
	if s.PrimaryColor == "" {
		s.PrimaryColor = def.PrimaryColor
	}
	if s.FontFamily == "" {
		s.FontFamily = def.FontFamily
	}
	if s.Background == "" {
		s.Background = def.Background
	}
	return s
}

// currentOrder returns SectionOrder restricted to existing ids followed by
// any section missing from it, in slice order.
func currentOrder(doc Document) []string {
	known := make(map[string]bool, len(doc.Sections))
	for _, s := range doc.Sections {
		known[s.ID] = true
	}
	order := make([]string, 0, len(doc.Sections))
	placed := make(map[string]bool, len(doc.Sections))
	for _, id := range doc.SectionOrder {
		if known[id] && !placed[id] {
			order = append(order, id)
			placed[id] = true
		}
	}
	for _, s := range doc.Sections {
		if !placed[s.ID] {
			order = append(order, s.ID)
			placed[s.ID] = true
		}
	}
	return order
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
