package templates

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// style holds the per-template differences shared by all renderers.
type style struct {
	// upper renders section headings in upper case.
	upper bool

	// rule draws a horizontal rule under each heading.
	rule bool

	// sep joins inline parts such as contact details.
	sep string
}

func (s style) heading(section domain.Section) []domain.Block {
	title := text(section.Data, "heading")
	if title == "" && section.Type == domain.SectionCustom {
		title = text(section.Data, "title")
	}
	if title == "" && !section.Type.IsKnown() {
		title = section.Type.String()
	}
	if title == "" {
		title = section.Type.Title()
	}
	if s.upper {
		title = strings.ToUpper(title)
	}
	blocks := []domain.Block{{Kind: domain.BlockHeading, Text: title, Accent: true}}
	if s.rule {
		blocks = append(blocks, domain.Block{Kind: domain.BlockRule})
	}
	return blocks
}

func bullets(blocks []domain.Block, item map[string]any) []domain.Block {
	for _, b := range strs(item["bullets"]) {
		blocks = append(blocks, domain.Block{Kind: domain.BlockBullet, Text: b})
	}
	return blocks
}

type headerRenderer struct{ style }

func (r *headerRenderer) Name() string { return "header" }

func (r *headerRenderer) Render(section domain.Section, toggles domain.Toggles) []domain.Block {
	d := section.Data
	var blocks []domain.Block
	if name := text(d, "name"); name != "" {
		blocks = append(blocks, domain.Block{Kind: domain.BlockTitle, Text: name, Accent: true})
	}
	if title := text(d, "title"); title != "" {
		blocks = append(blocks, domain.Block{Kind: domain.BlockMeta, Text: title})
	}
	contact := join(r.sep, text(d, "email"), text(d, "phone"), text(d, "location"))
	if toggles.Enabled(domain.ToggleShowLinks) {
		contact = join(r.sep, contact, text(d, "website"), strings.Join(strs(d["links"]), r.sep))
	}
	if contact != "" {
		blocks = append(blocks, domain.Block{Kind: domain.BlockText, Text: contact})
	}
	if r.rule && len(blocks) > 0 {
		blocks = append(blocks, domain.Block{Kind: domain.BlockRule})
	}
	return blocks
}

type summaryRenderer struct{ style }

func (r *summaryRenderer) Name() string { return "summary" }

func (r *summaryRenderer) Render(section domain.Section, _ domain.Toggles) []domain.Block {
	body := text(section.Data, "text", "content")
	if body == "" {
		return nil
	}
	blocks := r.heading(section)
	for _, para := range strings.Split(body, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			blocks = append(blocks, domain.Block{Kind: domain.BlockText, Text: para})
		}
	}
	return blocks
}

type experienceRenderer struct{ style }

func (r *experienceRenderer) Name() string { return "experience" }

func (r *experienceRenderer) Render(section domain.Section, toggles domain.Toggles) []domain.Block {
	items := entries(section.Data)
	if len(items) == 0 {
		return nil
	}
	blocks := r.heading(section)
	for _, item := range items {
		b := domain.Block{Kind: domain.BlockTitle, Text: text(item, "role", "position", "title", "name")}
		if toggles.Enabled(domain.ToggleShowDates) {
			b.Right = dateRange(item)
		}
		blocks = append(blocks, b)

		meta := text(item, "company", "employer", "organization")
		if toggles.Enabled(domain.ToggleShowLocation) {
			meta = join(r.sep, meta, text(item, "location"))
		}
		if meta != "" {
			blocks = append(blocks, domain.Block{Kind: domain.BlockMeta, Text: meta})
		}
		if toggles.Enabled(domain.ToggleShowBullets) {
			blocks = bullets(blocks, item)
		}
	}
	return blocks
}

type educationRenderer struct{ style }

func (r *educationRenderer) Name() string { return "education" }

func (r *educationRenderer) Render(section domain.Section, toggles domain.Toggles) []domain.Block {
	items := entries(section.Data)
	if len(items) == 0 {
		return nil
	}
	blocks := r.heading(section)
	for _, item := range items {
		b := domain.Block{Kind: domain.BlockTitle, Text: text(item, "degree", "studyType", "area", "name")}
		if toggles.Enabled(domain.ToggleShowDates) {
			b.Right = dateRange(item)
		}
		blocks = append(blocks, b)

		meta := text(item, "school", "institution", "university")
		if toggles.Enabled(domain.ToggleShowLocation) {
			meta = join(r.sep, meta, text(item, "location"))
		}
		if gpa := text(item, "gpa", "score"); gpa != "" && toggles.Enabled(domain.ToggleShowGPA) {
			meta = join(r.sep, meta, "GPA "+gpa)
		}
		if meta != "" {
			blocks = append(blocks, domain.Block{Kind: domain.BlockMeta, Text: meta})
		}
	}
	return blocks
}

type skillsRenderer struct{ style }

func (r *skillsRenderer) Name() string { return "skills" }

func (r *skillsRenderer) Render(section domain.Section, toggles domain.Toggles) []domain.Block {
	groups, _ := section.Data["groups"].([]any)
	showLevel := toggles.Enabled(domain.ToggleShowLevel)

	var lines []domain.Block
	var all []string
	for _, g := range groups {
		group, ok := g.(map[string]any)
		if !ok {
			continue
		}
		names := skillNames(group["items"], showLevel)
		if len(names) == 0 {
			continue
		}
		all = append(all, names...)
		category := text(group, "category", "name")
		lines = append(lines, domain.Block{
			Kind: domain.BlockText,
			Text: join(": ", category, strings.Join(names, ", ")),
		})
	}
	if len(all) == 0 {
		return nil
	}
	blocks := r.heading(section)
	if !toggles.Enabled(domain.ToggleGrouped) {
		return append(blocks, domain.Block{Kind: domain.BlockText, Text: strings.Join(all, ", ")})
	}
	return append(blocks, lines...)
}

func skillNames(v any, showLevel bool) []string {
	list, ok := v.([]any)
	if !ok {
		return strs(v)
	}
	var out []string
	for _, e := range list {
		switch item := e.(type) {
		case string:
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			name := text(item, "name")
			if name == "" {
				continue
			}
			if level := text(item, "level"); showLevel && level != "" {
				name = fmt.Sprintf("%s (%s)", name, level)
			}
			out = append(out, name)
		}
	}
	return out
}

type projectsRenderer struct{ style }

func (r *projectsRenderer) Name() string { return "projects" }

func (r *projectsRenderer) Render(section domain.Section, toggles domain.Toggles) []domain.Block {
	items := entries(section.Data)
	if len(items) == 0 {
		return nil
	}
	blocks := r.heading(section)
	for _, item := range items {
		b := domain.Block{Kind: domain.BlockTitle, Text: text(item, "name", "title")}
		link := ""
		if toggles.Enabled(domain.ToggleShowLinks) {
			link = text(item, "url", "link", "website")
		}
		if toggles.Enabled(domain.ToggleShowDates) {
			b.Right = dateRange(item)
		} else {
			b.Right, link = link, ""
		}
		blocks = append(blocks, b)
		if meta := join(r.sep, text(item, "role", "stack"), link); meta != "" {
			blocks = append(blocks, domain.Block{Kind: domain.BlockMeta, Text: meta})
		}
		if toggles.Enabled(domain.ToggleShowBullets) {
			blocks = bullets(blocks, item)
		}
	}
	return blocks
}

type certificationsRenderer struct{ style }

func (r *certificationsRenderer) Name() string { return "certifications" }

func (r *certificationsRenderer) Render(section domain.Section, toggles domain.Toggles) []domain.Block {
	items := entries(section.Data)
	if len(items) == 0 {
		return nil
	}
	blocks := r.heading(section)
	for _, item := range items {
		b := domain.Block{Kind: domain.BlockTitle, Text: text(item, "name", "title")}
		if toggles.Enabled(domain.ToggleShowDates) {
			b.Right = dateRange(item)
		}
		blocks = append(blocks, b)
		if issuer := text(item, "issuer", "authority"); issuer != "" && toggles.Enabled(domain.ToggleShowIssuer) {
			blocks = append(blocks, domain.Block{Kind: domain.BlockMeta, Text: issuer})
		}
	}
	return blocks
}

type languagesRenderer struct{ style }

func (r *languagesRenderer) Name() string { return "languages" }

func (r *languagesRenderer) Render(section domain.Section, toggles domain.Toggles) []domain.Block {
	var parts []string
	for _, item := range entries(section.Data) {
		name := text(item, "language", "name")
		if name == "" {
			continue
		}
		if level := text(item, "level", "fluency", "proficiency"); level != "" && toggles.Enabled(domain.ToggleShowLevel) {
			name = fmt.Sprintf("%s (%s)", name, level)
		}
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return nil
	}
	return append(r.heading(section), domain.Block{Kind: domain.BlockText, Text: strings.Join(parts, r.sep)})
}

// genericRenderer draws any section from its data shape alone. It is the
// fallback for types a template does not support and for custom sections.
type genericRenderer struct{ style }

func (r *genericRenderer) Name() string { return "generic" }

func (r *genericRenderer) Render(section domain.Section, _ domain.Toggles) []domain.Block {
	d := section.Data
	var body []domain.Block

	switch content := d["content"].(type) {
	case string:
		if s := strings.TrimSpace(content); s != "" {
			body = append(body, domain.Block{Kind: domain.BlockText, Text: s})
		}
	case []any, []string:
		for _, line := range strs(content) {
			body = append(body, domain.Block{Kind: domain.BlockBullet, Text: line})
		}
	}
	if s := text(d, "text"); s != "" {
		body = append(body, domain.Block{Kind: domain.BlockText, Text: s})
	}
	for _, item := range entries(d) {
		body = append(body, domain.Block{
			Kind:  domain.BlockTitle,
			Text:  text(item, "name", "title", "role", "degree", "language"),
			Right: dateRange(item),
		})
		body = bullets(body, item)
	}
	if groups, ok := d["groups"].([]any); ok {
		for _, g := range groups {
			if group, ok := g.(map[string]any); ok {
				body = append(body, domain.Block{
					Kind: domain.BlockText,
					Text: join(": ", text(group, "category"), strings.Join(strs(group["items"]), ", ")),
				})
			}
		}
	}
	if len(body) == 0 {
		for _, k := range scalarKeys(d) {
			v := fmt.Sprint(d[k])
			if k == "title" || k == "heading" || strings.TrimSpace(v) == "" {
				continue
			}
			body = append(body, domain.Block{Kind: domain.BlockMeta, Text: k + ": " + v})
		}
	}
	if len(body) == 0 {
		return nil
	}
	return append(r.heading(section), body...)
}
