// Package cli provides the cobra command tree for the vitae binary.
// Services are injected by main through SetServices before Execute runs.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vitae-cli/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vitae",
	Short: "Build and export resumes from the terminal",
	Long: `vitae is a resume editor for the terminal.

Documents are made of sections (header, experience, skills, ...) rendered
by a template. Every change is saved automatically after a short pause,
and the full edit history can be undone.

Start the interactive editor with "vitae tui", or script edits with
"vitae edit".`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services holds the driving ports used by commands.
type Services struct {
	Library   driving.LibraryService
	Sessions  driving.SessionService
	Export    driving.ExportService
	Templates driving.TemplateService
	Settings  driving.SettingsService
}

var (
	libraryService  driving.LibraryService
	sessionService  driving.SessionService
	exportService   driving.ExportService
	templateService driving.TemplateService
	settingsService driving.SettingsService
)

var (
	errNoLibrary   = errors.New("library service not configured")
	errNoSessions  = errors.New("session service not configured")
	errNoExporter  = errors.New("export service not configured")
	errNoTemplates = errors.New("template service not configured")
	errNoSettings  = errors.New("settings service not configured")
)

// SetServices injects the services used by every command.
func SetServices(s Services) {
	libraryService = s.Library
	sessionService = s.Sessions
	exportService = s.Export
	templateService = s.Templates
	settingsService = s.Settings
}

// SetVersion sets the version reported by "vitae version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")
}

// Execute runs the root command. ctx is cancelled on interrupt so open
// sessions get a chance to flush.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
