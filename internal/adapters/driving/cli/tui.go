package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/vitae-cli/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [build-id]",
	Short: "Launch the interactive editor",
	Long: `Launch the interactive terminal editor.

Pick a resume from the library, or pass a build ID to open it directly,
then rearrange, add and remove sections. Changes are saved automatically
a moment after you stop editing; the status bar shows whether everything
is saved.

Controls:
  ↑/k, ↓/j - Navigate
  K, J     - Move section up / down
  a        - Add section
  u, U     - Undo / redo
  t        - Next template
  s        - Save now
  Esc      - Back
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Library:   libraryService,
		Sessions:  sessionService,
		Templates: templateService,
		Settings:  settingsService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if len(args) == 1 {
		app.WithBuild(args[0])
	}

	// Background log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
