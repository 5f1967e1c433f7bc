package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// copySuffix is appended to the title of duplicated builds.
const copySuffix = " (copy)"

// LibraryService manages saved builds.
type LibraryService struct {
	store driven.BuildStore
}

// NewLibraryService creates a new library service.
func NewLibraryService(store driven.BuildStore) *LibraryService {
	return &LibraryService{store: store}
}

// List returns summaries of all builds.
func (s *LibraryService) List(ctx context.Context) ([]domain.BuildSummary, error) {
	builds, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	return builds, nil
}

// Get loads a build as a normalised document.
func (s *LibraryService) Get(ctx context.Context, buildID string) (*domain.Document, error) {
	if strings.TrimSpace(buildID) == "" {
		return nil, fmt.Errorf("build id: %w", domain.ErrInvalidInput)
	}
	payload, err := s.store.Get(ctx, buildID)
	if err != nil {
		return nil, fmt.Errorf("get build %s: %w", buildID, err)
	}
	doc := domain.Normalize(payload.Document())
	return &doc, nil
}

// Create stores a normalised copy of doc as a new build.
func (s *LibraryService) Create(ctx context.Context, doc domain.Document) (string, error) {
	id, err := s.store.Create(ctx, domain.Normalize(doc).ToPayload())
	if err != nil {
		return "", fmt.Errorf("create build: %w", err)
	}
	return id, nil
}

// Delete removes a build.
func (s *LibraryService) Delete(ctx context.Context, buildID string) error {
	if strings.TrimSpace(buildID) == "" {
		return fmt.Errorf("build id: %w", domain.ErrInvalidInput)
	}
	if err := s.store.Delete(ctx, buildID); err != nil {
		return fmt.Errorf("delete build %s: %w", buildID, err)
	}
	return nil
}

// Duplicate stores a copy of a build under a new ID.
func (s *LibraryService) Duplicate(ctx context.Context, buildID string) (string, error) {
	doc, err := s.Get(ctx, buildID)
	if err != nil {
		return "", err
	}
	doc.Title += copySuffix
	id, err := s.store.Create(ctx, doc.ToPayload())
	if err != nil {
		return "", fmt.Errorf("duplicate build %s: %w", buildID, err)
	}
	return id, nil
}
