package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/services"
	"github.com/custodia-labs/vitae-cli/internal/templates"
)

// newTestServer wires real services over an in-memory store.
func newTestServer(t *testing.T) (*Server, *memory.BuildStore) {
	t.Helper()

	store := memory.NewBuildStore()
	catalog := templates.DefaultRegistry()
	sessions := services.NewSessionService(store, catalog, services.SessionOptions{
		HistoryLimit:    50,
		DefaultTemplate: "classic",
		Autosave:        services.AutosaveConfig{Delay: time.Hour, Timeout: time.Second},
	})

	server, err := NewServer(&Ports{
		Library:   services.NewLibraryService(store),
		Sessions:  sessions,
		Export:    services.NewExportService(catalog, nil, domain.PaperA4),
		Templates: services.NewTemplateService(catalog),
	})
	require.NoError(t, err)
	t.Cleanup(func() { server.Close(context.Background()) }) //nolint:errcheck
	return server, store
}

func TestNewServer(t *testing.T) {
	t.Run("missing library returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingLibraryService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, _ := newTestServer(t)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	store := memory.NewBuildStore()
	library := services.NewLibraryService(store)

	t.Run("missing library", func(t *testing.T) {
		ports := &Ports{}
		assert.ErrorIs(t, ports.Validate(), ErrMissingLibraryService)
	})

	t.Run("missing sessions", func(t *testing.T) {
		ports := &Ports{Library: library}
		assert.ErrorIs(t, ports.Validate(), ErrMissingSessionService)
	})

	t.Run("library and sessions is valid", func(t *testing.T) {
		ports := &Ports{
			Library:  library,
			Sessions: services.NewSessionService(store, templates.DefaultRegistry(), services.SessionOptions{}),
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_CloseFlushesSessions(t *testing.T) {
	ctx := context.Background()
	server, store := newTestServer(t)

	_, created, err := server.handleCreateBuild(ctx, nil, CreateBuildInput{})
	require.NoError(t, err)

	_, _, err = server.handleSetTitle(ctx, nil, SetTitleInput{BuildID: created.BuildID, Title: "Closing"})
	require.NoError(t, err)
	require.NoError(t, server.Close(ctx))

	server.mu.Lock()
	assert.Empty(t, server.sessions)
	server.mu.Unlock()

	payload, err := store.Get(ctx, created.BuildID)
	require.NoError(t, err)
	assert.Equal(t, "Closing", payload.Title)
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(40000, 40100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 40000)
	assert.LessOrEqual(t, port, 40100)

	_, err = FindAvailablePort(10, 5)
	assert.Error(t, err)
}
