package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/seed"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Merge generated content into a build",
	Long: `Merge resume content produced elsewhere (for example by an analysis
run) into a build. Seeds are JSON or YAML files keyed by section name.`,
}

var seedLoadCmd = &cobra.Command{
	Use:   "load [build-id] [file]",
	Short: "Merge a seed file once",
	Args:  cobra.ExactArgs(2),
	RunE:  runSeedLoad,
}

var seedWatchCmd = &cobra.Command{
	Use:   "watch [build-id] [file]",
	Short: "Merge a seed file every time it changes",
	Long: `Watch a seed file and merge it into the build whenever it is written.
Changes are autosaved. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(2),
	RunE: runSeedWatch,
}

func init() {
	seedCmd.AddCommand(seedLoadCmd)
	seedCmd.AddCommand(seedWatchCmd)
	rootCmd.AddCommand(seedCmd)
}

func runSeedLoad(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errNoSessions
	}
	ctx := cmd.Context()

	loaded, err := seed.NewFileSource(args[1]).Load(ctx)
	if err != nil {
		return err
	}

	sess, err := sessionService.Open(ctx, args[0])
	if err != nil {
		return err
	}
	changed := sess.Editor().LoadSeed(*loaded)
	if err := sess.Close(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to save build: %w", err)
	}

	if !changed {
		cmd.Println("Seed contained nothing new")
		return nil
	}
	cmd.Printf("Merged %d sections into %s\n", len(domain.NormalizeSeed(*loaded)), args[0])
	return nil
}

func runSeedWatch(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errNoSessions
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, err := sessionService.Open(ctx, args[0])
	if err != nil {
		return err
	}

	source := seed.NewFileSource(args[1])
	watcher := seed.NewWatcher(source, seed.DefaultDebounce, func(s *domain.SeedResume) {
		if sess.Editor().LoadSeed(*s) {
			cmd.Printf("Merged %s\n", source.Location())
		}
	})

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", source.Location())
	runErr := watcher.Run(ctx)

	// The interrupt that stopped the watcher also cancels cmd.Context().
	closeErr := sess.Close(context.WithoutCancel(ctx))
	if runErr != nil {
		return runErr
	}
	return closeErr
}
