package driving

import (
	"context"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// LibraryService manages saved builds outside of an editing session.
type LibraryService interface {
	// List returns summaries of all builds.
	List(ctx context.Context) ([]domain.BuildSummary, error)

	// Get loads a build as a normalised document.
	Get(ctx context.Context, buildID string) (*domain.Document, error)

	// Create stores doc as a new build and returns its ID.
	Create(ctx context.Context, doc domain.Document) (string, error)

	// Delete removes a build.
	Delete(ctx context.Context, buildID string) error

	// Duplicate copies a build and returns the new build ID.
	Duplicate(ctx context.Context, buildID string) (string, error)
}
