package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/pdf"
)

var exportCmd = &cobra.Command{
	Use:   "export [build-id]",
	Short: "Export a build to PDF",
	Long: `Render a saved build with its template and write the result to a file.

Use --layout to print the resolved layout (print units and rendered
blocks) as JSON instead of writing a file.

Examples:
  vitae export 3f1c... -o resume.pdf
  vitae export 3f1c... --layout`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportOutput string
	exportLayout bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: <title>.pdf)")
	exportCmd.Flags().BoolVar(&exportLayout, "layout", false, "Print the layout as JSON instead of rendering")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errNoLibrary
	}
	if exportService == nil {
		return errNoExporter
	}
	ctx := cmd.Context()

	doc, err := libraryService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get build: %w", err)
	}

	if exportLayout {
		layout, err := exportService.Layout(ctx, doc.ToPayload())
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(layout, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	data, err := exportService.Export(ctx, doc.ToPayload())
	if err != nil {
		return err
	}

	path := exportOutput
	if path == "" {
		path = fileName(doc.Title) + "." + exportService.Format()
	}
	if err := pdf.WriteFile(path, data); err != nil {
		return err
	}
	cmd.Printf("Wrote %s (%d bytes)\n", path, len(data))
	return nil
}

// fileName turns a title into a safe file name.
func fileName(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			dash = false
		case r == ' ' || r == '.' || r == '-':
			if !dash {
				b.WriteRune('-')
				dash = true
			}
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "resume"
	}
	return filepath.Base(name)
}
