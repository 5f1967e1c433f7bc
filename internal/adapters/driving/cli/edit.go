package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/seed"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

var editCmd = &cobra.Command{
	Use:   "edit [build-id]",
	Short: "Edit a build with line commands",
	Long: `Open a build (or a new document when no ID is given) and apply
commands read from stdin, one per line. Changes are autosaved; the
session is flushed on exit.

Commands:
  show                         Print the document outline
  title <text>                 Rename the document
  add <type>                   Append a section (experience, skills, ...)
  remove <section-id>          Remove a section
  move <section-id> <delta>    Move a section up (-1) or down (+1)
  order <id> [<id>...]         Reorder sections
  set <section-id> k=v [...]   Merge data; values are JSON or plain text
  toggle <type> name=bool      Change a section display setting
  style k=v [...]              margins, spacing, font-size, line-height,
                               color, font, background
  template <id>                Switch template
  seed <file>                  Merge a JSON or YAML seed file
  undo | redo
  save | retry | status
  new [template]               Save and start a new document
  quit

Example:
  printf 'title Jane Doe\nadd skills\nsave\n' | vitae edit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

var editTemplate string

func init() {
	editCmd.Flags().StringVarP(&editTemplate, "template", "t", "", "Template for a new document")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errNoSessions
	}
	ctx := cmd.Context()

	var (
		sess driving.Session
		err  error
	)
	if len(args) == 1 {
		sess, err = sessionService.Open(ctx, args[0])
	} else {
		sess, err = sessionService.New(editTemplate)
	}
	if err != nil {
		return err
	}

	shell := &editShell{sess: sess, out: cmd.OutOrStdout()}
	interactive := false
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	runErr := shell.run(ctx, cmd.InOrStdin(), interactive)

	// ctx may already be cancelled by an interrupt; the final save still runs.
	closeErr := sess.Close(context.WithoutCancel(ctx))
	if id := sess.BuildID(); id != "" {
		cmd.Printf("Build: %s (%s)\n", id, sess.Status().State.Description())
	}
	return errors.Join(runErr, closeErr)
}

// editShell applies line commands to a session.
type editShell struct {
	sess driving.Session
	out  io.Writer
}

func (s *editShell) run(ctx context.Context, in io.Reader, prompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(s.out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		quit, err := s.exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command line.
func (s *editShell) exec(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)
	ed := s.sess.Editor()

	switch name {
	case "quit", "exit":
		return true, nil
	case "show":
		printOutline(s.out, ed.Document())
		return false, nil
	case "title":
		return false, s.report(ed.SetTitle(rest), "title set")
	case "add":
		if len(args) != 1 {
			return false, errors.New("usage: add <type>")
		}
		id, ok := ed.AddSection(domain.SectionType(args[0]))
		if !ok {
			return false, fmt.Errorf("template %q does not support %s sections", ed.Document().Template, args[0])
		}
		fmt.Fprintf(s.out, "added %s\n", id)
		return false, nil
	case "remove":
		if len(args) != 1 {
			return false, errors.New("usage: remove <section-id>")
		}
		return false, s.report(ed.RemoveSection(args[0]), "removed")
	case "move":
		if len(args) != 2 {
			return false, errors.New("usage: move <section-id> <delta>")
		}
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return false, fmt.Errorf("delta: %w", err)
		}
		return false, s.report(ed.MoveSection(args[0], delta), "moved")
	case "order":
		return false, s.report(ed.ReorderSections(args), "reordered")
	case "set":
		if len(args) < 2 {
			return false, errors.New("usage: set <section-id> key=value [...]")
		}
		partial, err := parseAssignments(args[1:])
		if err != nil {
			return false, err
		}
		return false, s.report(ed.UpdateSectionData(args[0], partial), "updated")
	case "toggle":
		if len(args) < 2 {
			return false, errors.New("usage: toggle <type> name=true|false [...]")
		}
		toggles, err := parseToggles(args[1:])
		if err != nil {
			return false, err
		}
		return false, s.report(ed.UpdateSectionSettings(domain.SectionType(args[0]), toggles), "settings updated")
	case "style":
		patch, err := parseStylePatch(args)
		if err != nil {
			return false, err
		}
		return false, s.report(ed.UpdateStyle(patch), "style updated")
	case "template":
		if len(args) != 1 {
			return false, errors.New("usage: template <id>")
		}
		return false, s.report(ed.ChangeTemplate(args[0]), "template changed")
	case "seed":
		if len(args) != 1 {
			return false, errors.New("usage: seed <file>")
		}
		loaded, err := seed.NewFileSource(args[0]).Load(ctx)
		if err != nil {
			return false, err
		}
		return false, s.report(ed.LoadSeed(*loaded), "seed merged")
	case "undo":
		return false, s.report(ed.Undo(), "undone")
	case "redo":
		return false, s.report(ed.Redo(), "redone")
	case "save":
		if err := s.sess.SaveNow(ctx); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "saved %s\n", s.sess.BuildID())
		return false, nil
	case "retry":
		return false, s.sess.Retry(ctx)
	case "status":
		printStatus(s.out, s.sess)
		return false, nil
	case "new":
		tmpl := ""
		if len(args) > 0 {
			tmpl = args[0]
		}
		if err := s.sess.Reset(ctx, tmpl); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "started a new document")
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q", name)
	}
}

func (s *editShell) report(changed bool, msg string) error {
	if changed {
		fmt.Fprintln(s.out, msg)
	} else {
		fmt.Fprintln(s.out, "no change")
	}
	return nil
}

func printStatus(w io.Writer, sess driving.Session) {
	st := sess.Status()
	fmt.Fprintf(w, "state:   %s\n", st.State.Description())
	if id := sess.BuildID(); id != "" {
		fmt.Fprintf(w, "build:   %s\n", id)
	}
	if !st.LastSavedAt.IsZero() {
		fmt.Fprintf(w, "saved:   %s\n", st.LastSavedAt.Format("2006-01-02 15:04:05"))
	}
	if st.LastError != "" {
		fmt.Fprintf(w, "error:   %s\n", st.LastError)
	}
	ed := sess.Editor()
	fmt.Fprintf(w, "history: %s (undo=%t redo=%t)\n", ed.HistoryPosition(), ed.CanUndo(), ed.CanRedo())
}

// parseAssignments turns key=value pairs into a data patch. Values that
// parse as JSON keep their type; anything else is a string. "null"
// removes a key.
func parseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", domain.ErrInvalidInput, pair)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		out[key] = v
	}
	return out, nil
}

func parseToggles(pairs []string) (domain.Toggles, error) {
	out := make(domain.Toggles, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: expected name=true|false, got %q", domain.ErrInvalidInput, pair)
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
		}
		out[key] = b
	}
	return out, nil
}

func parseStylePatch(pairs []string) (domain.StylePatch, error) {
	var patch domain.StylePatch
	if len(pairs) == 0 {
		return patch, errors.New("usage: style key=value [...]")
	}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return patch, fmt.Errorf("%w: expected key=value, got %q", domain.ErrInvalidInput, pair)
		}
		switch key {
		case "margins", "spacing", "line-height":
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return patch, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
			}
			switch key {
			case "margins":
				patch.PageMargins = &v
			case "spacing":
				patch.SectionSpacing = &v
			default:
				patch.LineHeight = &v
			}
		case "font-size":
			fs := domain.FontPreset(strings.ToLower(raw))
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				fs = domain.FontPoints(v)
			}
			patch.FontSize = &fs
		case "color":
			patch.PrimaryColor = &raw
		case "font":
			patch.FontFamily = &raw
		case "background":
			bg := domain.Background(raw)
			patch.Background = &bg
		default:
			return patch, fmt.Errorf("%w: unknown style key %q", domain.ErrInvalidInput, key)
		}
	}
	return patch, nil
}
