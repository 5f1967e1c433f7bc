package driven

import (
	"context"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// ExportRenderer turns a resolved layout into a static document.
// The layout is read-only; renderers must not retain it.
type ExportRenderer interface {
	// Format returns the output format name (e.g. "pdf").
	Format() string

	// Render produces the encoded document.
	Render(ctx context.Context, layout domain.ExportLayout) ([]byte, error)
}
