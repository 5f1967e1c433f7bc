package mcp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

// BuildRef identifies a build.
type BuildRef struct {
	BuildID string `json:"build_id" jsonschema:"the id of the build"`
}

// ListBuildsInput is the input schema for the list_builds tool.
type ListBuildsInput struct{}

// BuildsOutput is the output schema for the list_builds tool.
type BuildsOutput struct {
	Builds []BuildSummaryOutput `json:"builds"`
	Count  int                  `json:"count"`
}

// BuildSummaryOutput represents a single library entry.
type BuildSummaryOutput struct {
	BuildID   string `json:"build_id"`
	Title     string `json:"title"`
	Template  string `json:"template"`
	UpdatedAt string `json:"updated_at"`
}

// SectionOutput represents one section in document order.
type SectionOutput struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Locked bool           `json:"locked,omitempty"`
	Data   map[string]any `json:"data"`
}

// StyleOutput is the document style with the font size as text.
type StyleOutput struct {
	PageMargins    float64 `json:"page_margins"`
	SectionSpacing float64 `json:"section_spacing"`
	FontSize       string  `json:"font_size"`
	LineHeight     float64 `json:"line_height"`
	PrimaryColor   string  `json:"primary_color"`
	FontFamily     string  `json:"font_family"`
	Background     string  `json:"background"`
}

// BuildOutput is the output schema for get_build.
type BuildOutput struct {
	BuildID  string          `json:"build_id"`
	Title    string          `json:"title"`
	Template string          `json:"template"`
	Sections []SectionOutput `json:"sections"`
	Style    StyleOutput     `json:"style"`
}

// CreateBuildInput is the input schema for create_build.
type CreateBuildInput struct {
	Template string `json:"template,omitempty" jsonschema:"template id (default: classic)"`
	Title    string `json:"title,omitempty" jsonschema:"resume title"`
}

// CreateBuildOutput is the output schema for create_build.
type CreateBuildOutput struct {
	BuildID string `json:"build_id"`
}

// MutationOutput is returned by every editing tool.
type MutationOutput struct {
	BuildID   string `json:"build_id"`
	Changed   bool   `json:"changed"`
	SectionID string `json:"section_id,omitempty"`
	SaveState string `json:"save_state"`
	SaveError string `json:"save_error,omitempty"`
}

// AddSectionInput is the input schema for add_section.
type AddSectionInput struct {
	BuildID string `json:"build_id" jsonschema:"the id of the build"`
	Type    string `json:"type" jsonschema:"section type, e.g. experience or skills"`
}

// SectionRef identifies a section within a build.
type SectionRef struct {
	BuildID   string `json:"build_id" jsonschema:"the id of the build"`
	SectionID string `json:"section_id" jsonschema:"the id of the section"`
}

// UpdateSectionInput is the input schema for update_section.
type UpdateSectionInput struct {
	BuildID   string         `json:"build_id" jsonschema:"the id of the build"`
	SectionID string         `json:"section_id" jsonschema:"the id of the section"`
	Data      map[string]any `json:"data" jsonschema:"fields to merge into the section data"`
}

// ReorderSectionsInput is the input schema for reorder_sections.
type ReorderSectionsInput struct {
	BuildID string   `json:"build_id" jsonschema:"the id of the build"`
	Order   []string `json:"order" jsonschema:"section ids in the desired order"`
}

// MoveSectionInput is the input schema for move_section.
type MoveSectionInput struct {
	BuildID   string `json:"build_id" jsonschema:"the id of the build"`
	SectionID string `json:"section_id" jsonschema:"the id of the section"`
	Delta     int    `json:"delta" jsonschema:"positions to move; negative moves up"`
}

// UpdateSettingsInput is the input schema for update_section_settings.
type UpdateSettingsInput struct {
	BuildID string          `json:"build_id" jsonschema:"the id of the build"`
	Type    string          `json:"type" jsonschema:"section type the toggles apply to"`
	Toggles map[string]bool `json:"toggles" jsonschema:"display toggles to merge"`
}

// UpdateStyleInput is the input schema for update_style. Omitted fields are unchanged.
type UpdateStyleInput struct {
	BuildID        string   `json:"build_id" jsonschema:"the id of the build"`
	PageMargins    *float64 `json:"page_margins,omitempty" jsonschema:"page margins in millimetres (10-50)"`
	SectionSpacing *float64 `json:"section_spacing,omitempty" jsonschema:"space between sections in pixels"`
	FontSize       string   `json:"font_size,omitempty" jsonschema:"font size in points or a preset: small, medium, large"`
	LineHeight     *float64 `json:"line_height,omitempty" jsonschema:"line height multiplier"`
	PrimaryColor   string   `json:"primary_color,omitempty" jsonschema:"hex theme colour, e.g. #2563eb"`
	FontFamily     string   `json:"font_family,omitempty" jsonschema:"font family name"`
	Background     string   `json:"background,omitempty" jsonschema:"plain, subtle or band"`
}

// ChangeTemplateInput is the input schema for change_template.
type ChangeTemplateInput struct {
	BuildID  string `json:"build_id" jsonschema:"the id of the build"`
	Template string `json:"template" jsonschema:"template id"`
}

// SetTitleInput is the input schema for set_title.
type SetTitleInput struct {
	BuildID string `json:"build_id" jsonschema:"the id of the build"`
	Title   string `json:"title" jsonschema:"new resume title"`
}

// ListTemplatesInput is the input schema for list_templates.
type ListTemplatesInput struct{}

// TemplatesOutput is the output schema for list_templates.
type TemplatesOutput struct {
	Templates []TemplateOutput `json:"templates"`
}

// TemplateOutput describes one template.
type TemplateOutput struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ThemeColor string   `json:"theme_color"`
	FontFamily string   `json:"font_family"`
	Sections   []string `json:"sections"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_builds",
		Description: "List saved resume builds, most recently updated first",
	}, s.handleListBuilds)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_build",
		Description: "Get a resume build with its sections in display order",
	}, s.handleGetBuild)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_build",
		Description: "Create an empty resume build",
	}, s.handleCreateBuild)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_section",
		Description: "Append a section with template defaults",
	}, s.handleAddSection)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_section",
		Description: "Remove a section. The header cannot be removed",
	}, s.handleRemoveSection)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_section",
		Description: "Merge fields into a section's data",
	}, s.handleUpdateSection)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reorder_sections",
		Description: "Reorder sections. Unknown ids are ignored and missing ids keep their relative order at the end",
	}, s.handleReorderSections)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "move_section",
		Description: "Move a section up or down",
	}, s.handleMoveSection)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_section_settings",
		Description: "Change display toggles for a section type",
	}, s.handleUpdateSettings)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_style",
		Description: "Change document style. Values are clamped to their valid ranges",
	}, s.handleUpdateStyle)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "change_template",
		Description: "Switch the build to another template",
	}, s.handleChangeTemplate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_title",
		Description: "Rename a build",
	}, s.handleSetTitle)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "undo",
		Description: "Undo the last change made in this server session",
	}, s.handleUndo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "redo",
		Description: "Redo the last undone change",
	}, s.handleRedo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_layout",
		Description: "Resolve a build into the print layout used for export",
	}, s.handleExportLayout)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_templates",
		Description: "List available resume templates",
	}, s.handleListTemplates)
}

func (s *Server) handleListBuilds(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListBuildsInput,
) (*mcp.CallToolResult, BuildsOutput, error) {
	builds, err := s.ports.Library.List(ctx)
	if err != nil {
		return nil, BuildsOutput{}, err
	}

	output := BuildsOutput{
		Builds: make([]BuildSummaryOutput, len(builds)),
		Count:  len(builds),
	}
	for i, b := range builds {
		output.Builds[i] = BuildSummaryOutput{
			BuildID:   b.BuildID,
			Title:     b.Title,
			Template:  b.TemplateID,
			UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	return nil, output, nil
}

func (s *Server) handleGetBuild(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildRef,
) (*mcp.CallToolResult, BuildOutput, error) {
	doc, err := s.document(ctx, input.BuildID)
	if err != nil {
		return nil, BuildOutput{}, err
	}
	return nil, toBuildOutput(input.BuildID, doc), nil
}

func (s *Server) handleCreateBuild(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateBuildInput,
) (*mcp.CallToolResult, CreateBuildOutput, error) {
	doc, err := s.ports.Sessions.NewDocument(input.Template)
	if err != nil {
		return nil, CreateBuildOutput{}, err
	}
	if input.Title != "" {
		doc, _ = domain.SetTitle(doc, input.Title)
	}

	id, err := s.ports.Library.Create(ctx, doc)
	if err != nil {
		return nil, CreateBuildOutput{}, err
	}
	return nil, CreateBuildOutput{BuildID: id}, nil
}

func (s *Server) handleAddSection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddSectionInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	t := domain.SectionType(input.Type)
	if !t.IsKnown() {
		return nil, MutationOutput{}, fmt.Errorf("section type %q: %w", input.Type, domain.ErrUnsupportedType)
	}

	var sectionID string
	out, err := s.mutate(ctx, input.BuildID, func(ed driving.Editor) bool {
		var ok bool
		sectionID, ok = ed.AddSection(t)
		return ok
	})
	if err != nil {
		return nil, out, err
	}
	if !out.Changed {
		return nil, out, fmt.Errorf("template does not support %s sections: %w", t, domain.ErrUnsupportedType)
	}
	out.SectionID = sectionID
	return nil, out, nil
}

func (s *Server) handleRemoveSection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SectionRef,
) (*mcp.CallToolResult, MutationOutput, error) {
	out, err := s.mutate(ctx, input.BuildID, func(ed driving.Editor) bool {
		return ed.RemoveSection(input.SectionID)
	})
	return nil, out, err
}

func (s *Server) handleUpdateSection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateSectionInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	out, err := s.mutate(ctx, input.BuildID, func(ed driving.Editor) bool {
		return ed.UpdateSectionData(input.SectionID, input.Data)
	})
	return nil, out, err
}

func (s *Server) handleReorderSections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReorderSectionsInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	out, err := s.mutate(ctx, input.BuildID, func(ed driving.Editor) bool {
		return ed.ReorderSections(input.Order)
	})
	return nil, out, err
}

func (s *Server) handleMoveSection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MoveSectionInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	out, err := s.mutate(ctx, input.BuildID, func(ed driving.Editor) bool {
		return ed.MoveSection(input.SectionID, input.Delta)
	})
	return nil, out, err
}

func (s *Server) handleUpdateSettings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateSettingsInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	t := domain.SectionType(input.Type)
	if !t.IsKnown() {
		return nil, MutationOutput{}, fmt.Errorf("section type %q: %w", input.Type, domain.ErrUnsupportedType)
	}
	out, err := s.mutate(ctx, input.BuildID, func(ed driving.Editor) bool {
		return ed.UpdateSectionSettings(t, domain.Toggles(input.Toggles))
	})
	return nil, out, err
}

func (s *Server) handleUpdateStyle(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateStyleInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	patch, err := stylePatch(input)
	if err != nil {
		return nil, MutationOutput{}, err
	}
	out, err := s.mutate(ctx, input.BuildID, func(ed driving.Editor) bool {
		return ed.UpdateStyle(patch)
	})
	return nil, out, err
}

func (s *Server) handleChangeTemplate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChangeTemplateInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	if s.ports.Templates != nil {
		if _, ok := s.ports.Templates.Get(input.Template); !ok {
			return nil, MutationOutput{}, fmt.Errorf("template %q: %w", input.Template, domain.ErrNotFound)
		}
	}
	out, err := s.mutate(ctx, input.BuildID, func(ed driving.Editor) bool {
		return ed.ChangeTemplate(input.Template)
	})
	return nil, out, err
}

func (s *Server) handleSetTitle(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetTitleInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	out, err := s.mutate(ctx, input.BuildID, func(ed driving.Editor) bool {
		return ed.SetTitle(input.Title)
	})
	return nil, out, err
}

func (s *Server) handleUndo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildRef,
) (*mcp.CallToolResult, MutationOutput, error) {
	out, err := s.mutate(ctx, input.BuildID, func(ed driving.Editor) bool {
		return ed.Undo()
	})
	return nil, out, err
}

func (s *Server) handleRedo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildRef,
) (*mcp.CallToolResult, MutationOutput, error) {
	out, err := s.mutate(ctx, input.BuildID, func(ed driving.Editor) bool {
		return ed.Redo()
	})
	return nil, out, err
}

func (s *Server) handleExportLayout(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildRef,
) (*mcp.CallToolResult, domain.ExportLayout, error) {
	if s.ports.Export == nil {
		return nil, domain.ExportLayout{}, errNoExporter
	}
	doc, err := s.document(ctx, input.BuildID)
	if err != nil {
		return nil, domain.ExportLayout{}, err
	}
	layout, err := s.ports.Export.Layout(ctx, doc.ToPayload())
	if err != nil {
		return nil, domain.ExportLayout{}, err
	}
	return nil, layout, nil
}

func (s *Server) handleListTemplates(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListTemplatesInput,
) (*mcp.CallToolResult, TemplatesOutput, error) {
	return nil, s.templates(), nil
}

// mutate applies fn to the build's editor and saves when it changed anything.
// A failed save is reported in the output, not as a tool error: the change
// stays in the session and the next mutation retries it.
func (s *Server) mutate(ctx context.Context, buildID string, fn func(driving.Editor) bool) (MutationOutput, error) {
	sess, err := s.session(ctx, buildID)
	if err != nil {
		return MutationOutput{}, err
	}

	out := MutationOutput{BuildID: buildID}
	out.Changed = fn(sess.Editor())
	if out.Changed || sess.Status().Dirty {
		if err := sess.SaveNow(ctx); err != nil {
			out.SaveError = err.Error()
		}
	}
	out.SaveState = string(sess.Status().State)
	return out, nil
}

// document returns the live document when the build is open, else the stored one.
func (s *Server) document(ctx context.Context, buildID string) (domain.Document, error) {
	s.mu.Lock()
	sess, ok := s.sessions[buildID]
	s.mu.Unlock()
	if ok {
		return sess.Editor().Document(), nil
	}

	doc, err := s.ports.Library.Get(ctx, buildID)
	if err != nil {
		return domain.Document{}, err
	}
	return *doc, nil
}

func (s *Server) templates() TemplatesOutput {
	output := TemplatesOutput{Templates: []TemplateOutput{}}
	if s.ports.Templates == nil {
		return output
	}
	for _, info := range s.ports.Templates.List() {
		sections := make([]string, len(info.Sections))
		for i, t := range info.Sections {
			sections[i] = string(t)
		}
		output.Templates = append(output.Templates, TemplateOutput{
			ID:         info.ID,
			Name:       info.Name,
			ThemeColor: info.ThemeColor,
			FontFamily: info.FontFamily,
			Sections:   sections,
		})
	}
	return output
}

func toBuildOutput(buildID string, doc domain.Document) BuildOutput {
	ordered := doc.Ordered()
	sections := make([]SectionOutput, len(ordered))
	for i, sec := range ordered {
		sections[i] = SectionOutput{
			ID:     sec.ID,
			Type:   string(sec.Type),
			Locked: sec.Locked,
			Data:   sec.Data,
		}
	}
	return BuildOutput{
		BuildID:  buildID,
		Title:    doc.Title,
		Template: doc.Template,
		Sections: sections,
		Style: StyleOutput{
			PageMargins:    doc.Style.PageMargins,
			SectionSpacing: doc.Style.SectionSpacing,
			FontSize:       doc.Style.FontSize.String(),
			LineHeight:     doc.Style.LineHeight,
			PrimaryColor:   doc.Style.PrimaryColor,
			FontFamily:     doc.Style.FontFamily,
			Background:     string(doc.Style.Background),
		},
	}
}

func stylePatch(input UpdateStyleInput) (domain.StylePatch, error) {
	patch := domain.StylePatch{
		PageMargins:    input.PageMargins,
		SectionSpacing: input.SectionSpacing,
		LineHeight:     input.LineHeight,
	}
	if input.FontSize != "" {
		size := domain.FontPreset(input.FontSize)
		if pt, err := strconv.ParseFloat(input.FontSize, 64); err == nil {
			size = domain.FontPoints(pt)
		}
		patch.FontSize = &size
	}
	if input.PrimaryColor != "" {
		patch.PrimaryColor = &input.PrimaryColor
	}
	if input.FontFamily != "" {
		patch.FontFamily = &input.FontFamily
	}
	if input.Background != "" {
		bg := domain.Background(input.Background)
		if !bg.IsValid() {
			return domain.StylePatch{}, fmt.Errorf("background %q: %w", input.Background, domain.ErrInvalidInput)
		}
		patch.Background = &bg
	}
	if patch.IsEmpty() {
		return domain.StylePatch{}, fmt.Errorf("no style fields given: %w", domain.ErrInvalidInput)
	}
	return patch, nil
}
