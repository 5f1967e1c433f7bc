package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Manage saved builds",
	Long:  `List, show, create, duplicate, or delete saved resume builds.`,
}

var buildListCmd = &cobra.Command{
	Use:   "list",
	Short: "List builds",
	Args:  cobra.NoArgs,
	RunE:  runBuildList,
}

var buildShowCmd = &cobra.Command{
	Use:   "show [build-id]",
	Short: "Show a build outline",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuildShow,
}

var buildNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an empty build",
	Args:  cobra.NoArgs,
	RunE:  runBuildNew,
}

var buildDuplicateCmd = &cobra.Command{
	Use:   "duplicate [build-id]",
	Short: "Copy a build",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuildDuplicate,
}

var buildDeleteCmd = &cobra.Command{
	Use:   "delete [build-id]",
	Short: "Delete a build",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuildDelete,
}

var (
	buildShowJSON    bool
	buildNewTemplate string
	buildNewTitle    string
)

func init() {
	buildShowCmd.Flags().BoolVar(&buildShowJSON, "json", false, "Print the stored payload as JSON")
	buildNewCmd.Flags().StringVarP(&buildNewTemplate, "template", "t", "", "Template ID (default from settings)")
	buildNewCmd.Flags().StringVar(&buildNewTitle, "title", "", "Document title")

	buildCmd.AddCommand(buildListCmd)
	buildCmd.AddCommand(buildShowCmd)
	buildCmd.AddCommand(buildNewCmd)
	buildCmd.AddCommand(buildDuplicateCmd)
	buildCmd.AddCommand(buildDeleteCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuildList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errNoLibrary
	}

	builds, err := libraryService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list builds: %w", err)
	}

	if len(builds) == 0 {
		cmd.Println("No builds yet. Create one with: vitae build new")
		return nil
	}

	for _, b := range builds {
		cmd.Printf("  %s\n", b.BuildID)
		cmd.Printf("    Title:    %s\n", b.Title)
		cmd.Printf("    Template: %s\n", b.TemplateID)
		if !b.UpdatedAt.IsZero() {
			cmd.Printf("    Updated:  %s\n", b.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d builds\n", len(builds))
	return nil
}

func runBuildShow(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errNoLibrary
	}

	doc, err := libraryService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get build: %w", err)
	}

	if buildShowJSON {
		data, err := json.MarshalIndent(doc.ToPayload(), "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Build: %s\n\n", args[0])
	printOutline(cmd.OutOrStdout(), *doc)
	return nil
}

func runBuildNew(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNoSessions
	}
	if libraryService == nil {
		return errNoLibrary
	}

	// The session service resolves the default template and validates the ID.
	doc, err := sessionService.NewDocument(buildNewTemplate)
	if err != nil {
		return err
	}
	if buildNewTitle != "" {
		doc.Title = buildNewTitle
	}

	id, err := libraryService.Create(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("failed to create build: %w", err)
	}
	cmd.Printf("Created build %s\n", id)
	return nil
}

func runBuildDuplicate(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errNoLibrary
	}

	id, err := libraryService.Duplicate(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to duplicate build: %w", err)
	}
	cmd.Printf("Created build %s\n", id)
	return nil
}

func runBuildDelete(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errNoLibrary
	}

	if err := libraryService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete build: %w", err)
	}
	cmd.Printf("Deleted build %s\n", args[0])
	return nil
}

// printOutline writes a one-line-per-section summary of doc.
func printOutline(w io.Writer, doc domain.Document) {
	fmt.Fprintf(w, "%s\n", doc.Title)
	fmt.Fprintf(w, "  Template: %s\n", doc.Template)
	fmt.Fprintf(w, "  Style:    margins=%v spacing=%v font=%s %s line-height=%v color=%s background=%s\n",
		doc.Style.PageMargins, doc.Style.SectionSpacing, doc.Style.FontFamily, doc.Style.FontSize,
		doc.Style.LineHeight, doc.Style.PrimaryColor, doc.Style.Background)
	fmt.Fprintln(w, "  Sections:")
	for i, s := range doc.Ordered() {
		lock := ""
		if s.Locked {
			lock = " (locked)"
		}
		fmt.Fprintf(w, "    %d. %s [%s]%s %s\n", i+1, s.ID, s.Type, lock, summarize(s.Data))
	}
}

// summarize lists the data keys with a hint of their size.
func summarize(data map[string]any) string {
	if len(data) == 0 {
		return "(empty)"
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := data[k].(type) {
		case []any:
			parts = append(parts, fmt.Sprintf("%s[%d]", k, len(v)))
		case string:
			if len(v) > 24 {
				v = v[:21] + "..."
			}
			parts = append(parts, fmt.Sprintf("%s=%q", k, v))
		default:
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, " ")
}
