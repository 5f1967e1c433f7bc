package driven

import (
	"context"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// SeedSource provides externally generated resume content
// (e.g. the output of a resume analysis run).
type SeedSource interface {
	// Load reads and decodes the seed payload.
	Load(ctx context.Context) (*domain.SeedResume, error)

	// Location describes where the seed comes from, for logging.
	Location() string
}
