package driving

import (
	"context"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// ExportService produces static output from a document snapshot.
// It never mutates editing state.
type ExportService interface {
	// Layout resolves the payload into print units and rendered blocks.
	Layout(ctx context.Context, payload domain.Payload) (domain.ExportLayout, error)

	// Export renders the payload with the configured renderer.
	Export(ctx context.Context, payload domain.Payload) ([]byte, error)

	// Format returns the renderer's output format, "" when none is set.
	Format() string
}
