package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// BuildStore persists resume builds.
// Implementations return *domain.PersistenceError (or wrap domain.ErrNotFound)
// so callers can tell recoverable failures apart.
type BuildStore interface {
	// Create stores a new build and returns its ID.
	Create(ctx context.Context, payload domain.Payload) (string, error)

	// Update replaces the payload of an existing build.
	// Returns the server-side update time.
	Update(ctx context.Context, buildID string, payload domain.Payload) (time.Time, error)

	// Get retrieves a build payload by ID.
	Get(ctx context.Context, buildID string) (*domain.Payload, error)

	// List returns summaries of all builds, most recently updated first.
	List(ctx context.Context) ([]domain.BuildSummary, error)

	// Delete removes a build.
	Delete(ctx context.Context, buildID string) error
}
