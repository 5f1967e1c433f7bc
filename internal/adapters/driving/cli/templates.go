package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	if templateService == nil {
		return errNoTemplates
	}

	for _, t := range templateService.List() {
		cmd.Printf("  %s\n", t.ID)
		cmd.Printf("    Name:     %s\n", t.Name)
		cmd.Printf("    Theme:    %s, %s\n", t.ThemeColor, t.FontFamily)
		sections := make([]string, 0, len(t.Sections))
		for _, s := range t.Sections {
			sections = append(sections, s.String())
		}
		cmd.Printf("    Sections: %s\n", strings.Join(sections, ", "))
		cmd.Println()
	}
	return nil
}
