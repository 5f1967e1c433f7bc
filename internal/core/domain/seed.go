package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SeedResume is a loosely-shaped resume produced by an external analysis
// or optimisation service. Sections is keyed by whatever names the
// producer used; NormalizeSeed maps them onto canonical section data.
type SeedResume struct {
	Title    string
	Template string
	Sections map[string]any
}

// SeedSection is one normalised block ready to merge into a document.
type SeedSection struct {
	Type SectionType
	Data map[string]any
}

// DefaultSkillCategory names the group a flat skills list is folded into.
const DefaultSkillCategory = "Skills"

// seedAliases maps producer keys onto section types.
var seedAliases = map[string]SectionType{
	"header":         SectionHeader,
	"personalinfo":   SectionHeader,
	"personal_info":  SectionHeader,
	"contact":        SectionHeader,
	"basics":         SectionHeader,
	"summary":        SectionSummary,
	"profile":        SectionSummary,
	"objective":      SectionSummary,
	"experience":     SectionExperience,
	"work":           SectionExperience,
	"employment":     SectionExperience,
	"education":      SectionEducation,
	"skills":         SectionSkills,
	"projects":       SectionProjects,
	"certifications": SectionCertifications,
	"certificates":   SectionCertifications,
	"languages":      SectionLanguages,
}

// headerAliases renames producer field names to canonical header keys.
var headerAliases = map[string]string{
	"fullName":  "name",
	"full_name": "name",
	"jobTitle":  "title",
	"job_title": "title",
	"headline":  "title",
	"mail":      "email",
	"telephone": "phone",
	"address":   "location",
	"city":      "location",
}

// bulletKeys are item fields that hold bullet points.
var bulletKeys = []string{"bullets", "highlights", "achievements", "description"}

// NormalizeSeed converts a seed into canonical sections, sorted by the
// canonical section order so the result is deterministic.
func NormalizeSeed(seed SeedResume) []SeedSection {
	keys := make([]string, 0, len(seed.Sections))
	for k := range seed.Sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []SeedSection
	for _, key := range keys {
		value := seed.Sections[key]
		if value == nil {
			continue
		}
		t, ok := seedAliases[strings.ToLower(key)]
		if !ok {
			out = append(out, SeedSection{
				Type: SectionCustom,
				Data: map[string]any{"title": key, "content": normalizeCustom(value)},
			})
			continue
		}
		data := normalizeSeedValue(t, value)
		if len(data) == 0 {
			continue
		}
		out = append(out, SeedSection{Type: t, Data: data})
	}

	rank := make(map[SectionType]int)
	for i, t := range AllSectionTypes() {
		rank[t] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank[out[i].Type] < rank[out[j].Type]
	})
	return out
}

// ApplySeed merges normalised seed sections into doc. The first section of
// each type receives a shallow merge of the seed data; missing types are
// appended with ids from newID. Custom sections are always appended.
func ApplySeed(doc Document, seed SeedResume, newID func() string) (Document, bool) {
	out := doc
	changed := false

	if title := strings.TrimSpace(seed.Title); title != "" {
		var ok bool
		if out, ok = SetTitle(out, title); ok {
			changed = true
		}
	}

	for _, s := range NormalizeSeed(seed) {
		var ok bool
		existing := out.SectionsOfType(s.Type)
		if len(existing) > 0 && s.Type != SectionCustom {
			out, ok = UpdateSectionData(out, existing[0].ID, s.Data)
		} else {
			out, ok = AddSection(out, s.Type, newID(), s.Data)
		}
		changed = changed || ok
	}
	return out, changed
}

func normalizeSeedValue(t SectionType, v any) map[string]any {
	switch t {
	case SectionHeader:
		return normalizeHeader(v)
	case SectionSummary:
		return normalizeSummary(v)
	case SectionSkills:
		return map[string]any{"groups": normalizeSkills(v)}
	default:
		return normalizeItems(v)
	}
}

func normalizeHeader(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) != "" {
			return map[string]any{"name": strings.TrimSpace(s)}
		}
		return nil
	}
	out := make(map[string]any, len(m))
	for k, val := range m {
		if alias, found := headerAliases[k]; found {
			k = alias
		}
		out[k] = CloneValue(val)
	}
	return out
}

func normalizeSummary(v any) map[string]any {
	switch val := v.(type) {
	case string:
		text := strings.TrimSpace(val)
		if text == "" {
			return nil
		}
		return map[string]any{"text": text}
	case map[string]any:
		return CloneData(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			if s := strings.TrimSpace(fmt.Sprint(p)); s != "" {
				parts = append(parts, s)
			}
		}
		return map[string]any{"text": strings.Join(parts, " ")}
	default:
		return nil
	}
}

// normalizeSkills folds every accepted skills shape into a list of
// {category, items} groups.
func normalizeSkills(v any) []any {
	switch val := v.(type) {
	case string:
		return []any{skillGroup(DefaultSkillCategory, splitList(val))}
	case []string:
		items := make([]any, 0, len(val))
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		return []any{skillGroup(DefaultSkillCategory, items)}
	case []any:
		var flat []any
		var groups []any
		for _, entry := range val {
			switch e := entry.(type) {
			case string:
				if s := strings.TrimSpace(e); s != "" {
					flat = append(flat, s)
				}
			case map[string]any:
				if cat, ok := e["category"].(string); ok {
					groups = append(groups, skillGroup(cat, toItems(e["items"])))
				} else if name, ok := e["name"].(string); ok {
					flat = append(flat, strings.TrimSpace(name))
				}
			}
		}
		if len(flat) > 0 {
			groups = append([]any{skillGroup(DefaultSkillCategory, flat)}, groups...)
		}
		return groups
	case map[string]any:
		if groups, ok := val["groups"]; ok {
			return normalizeSkills(groups)
		}
		cats := make([]string, 0, len(val))
		for k := range val {
			cats = append(cats, k)
		}
		sort.Strings(cats)
		groups := make([]any, 0, len(cats))
		for _, c := range cats {
			groups = append(groups, skillGroup(c, toItems(val[c])))
		}
		return groups
	default:
		return nil
	}
}

func skillGroup(category string, items []any) map[string]any {
	if items == nil {
		items = []any{}
	}
	return map[string]any{"category": category, "items": items}
}

func toItems(v any) []any {
	switch val := v.(type) {
	case string:
		return splitList(val)
	case []string:
		out := make([]any, 0, len(val))
		for _, s := range val {
			out = append(out, s)
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, e := range val {
			if m, ok := e.(map[string]any); ok {
				if name, ok := m["name"].(string); ok {
					out = append(out, name)
					continue
				}
			}
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return []any{}
	}
}

func splitList(s string) []any {
	var out []any
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeItems(v any) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		if _, ok := val["items"]; ok {
			data := CloneData(val)
			data["items"] = normalizeItemList(val["items"])
			return data
		}
		return map[string]any{"items": normalizeItemList([]any{val})}
	case []any, []map[string]any:
		return map[string]any{"items": normalizeItemList(val)}
	default:
		return nil
	}
}

func normalizeItemList(v any) []any {
	var entries []any
	switch val := v.(type) {
	case []any:
		entries = val
	case []map[string]any:
		for _, m := range val {
			entries = append(entries, m)
		}
	default:
		return []any{}
	}

	out := make([]any, 0, len(entries))
	for _, e := range entries {
		switch item := e.(type) {
		case map[string]any:
			out = append(out, normalizeItem(item))
		case string:
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, map[string]any{"name": s})
			}
		}
	}
	return out
}

func normalizeItem(m map[string]any) map[string]any {
	item := CloneData(m)
	for _, key := range bulletKeys {
		raw, ok := item[key]
		if !ok {
			continue
		}
		delete(item, key)
		if bullets := toBullets(raw); len(bullets) > 0 {
			item["bullets"] = bullets
		}
		break
	}
	return item
}

// toBullets splits a text block into bullet lines, stripping list markers.
func toBullets(v any) []any {
	var lines []string
	switch val := v.(type) {
	case string:
		lines = strings.Split(val, "\n")
	case []string:
		lines = val
	case []any:
		for _, e := range val {
			lines = append(lines, fmt.Sprint(e))
		}
	}
	out := make([]any, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-•*"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func normalizeCustom(v any) any {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		return CloneValue(val)
	}
}
