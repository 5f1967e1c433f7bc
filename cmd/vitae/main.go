// Command vitae is the resume editor CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/pdf"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/storage/remote"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vitae-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vitae-cli/internal/core/services"
	"github.com/custodia-labs/vitae-cli/internal/logger"
	"github.com/custodia-labs/vitae-cli/internal/templates"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	catalog := templates.DefaultRegistry()
	settingsService := services.NewSettingsService(configStore, catalog)
	settings := settingsService.Get()

	store, closer, err := openBuildStore(settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Error("closing build store: %v", err)
		}
	}()

	cli.SetServices(cli.Services{
		Library:   services.NewLibraryService(store),
		Sessions:  services.NewSessionService(store, catalog, services.SessionOptionsFrom(settings)),
		Export:    services.NewExportService(catalog, pdf.NewRenderer("vitae "+version), domain.PaperFor(settings.Paper)),
		Templates: services.NewTemplateService(catalog),
		Settings:  settingsService,
	})
	cli.SetVersion(version)

	return cli.Execute(ctx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openBuildStore selects the storage backend named in settings.
func openBuildStore(settings domain.EditorSettings) (driven.BuildStore, io.Closer, error) {
	switch settings.Storage.Backend {
	case domain.StorageMemory:
		return memory.NewBuildStore(), nopCloser{}, nil
	case domain.StorageRemote:
		store, err := remote.NewStore(remote.Config{
			BaseURL: settings.Remote.BaseURL,
			Token:   settings.Remote.Token,
			Rate:    settings.Remote.Rate,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("configuring remote storage: %w", err)
		}
		return store, nopCloser{}, nil
	default:
		store, err := sqlite.NewStore(settings.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return store.BuildStore(), store, nil
	}
}
