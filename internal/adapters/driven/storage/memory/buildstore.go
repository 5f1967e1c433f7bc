package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
)

// Ensure BuildStore implements the interface.
var _ driven.BuildStore = (*BuildStore)(nil)

type build struct {
	payload   domain.Payload
	updatedAt time.Time
}

// BuildStore is an in-memory implementation of driven.BuildStore.
// Payloads are copied on the way in and out.
type BuildStore struct {
	mu      sync.RWMutex
	builds  map[string]build
	creates int
	updates int
	now     func() time.Time
}

// NewBuildStore creates a new in-memory build store.
func NewBuildStore() *BuildStore {
	return &BuildStore{
		builds: make(map[string]build),
		now:    time.Now,
	}
}

// Create stores a new build.
func (s *BuildStore) Create(ctx context.Context, payload domain.Payload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &domain.PersistenceError{Op: "create", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.builds[id] = build{payload: payload.Clone(), updatedAt: s.now()}
	s.creates++
	return id, nil
}

// Update replaces the payload of an existing build.
func (s *BuildStore) Update(ctx context.Context, buildID string, payload domain.Payload) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, &domain.PersistenceError{Op: "update", BuildID: buildID, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.builds[buildID]; !ok {
		return time.Time{}, &domain.PersistenceError{Op: "update", BuildID: buildID, Err: domain.ErrNotFound}
	}
	now := s.now()
	s.builds[buildID] = build{payload: payload.Clone(), updatedAt: now}
	s.updates++
	return now, nil
}

// Get retrieves a build payload.
func (s *BuildStore) Get(_ context.Context, buildID string) (*domain.Payload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.builds[buildID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := b.payload.Clone()
	return &p, nil
}

// List returns summaries ordered by most recent update.
func (s *BuildStore) List(_ context.Context) ([]domain.BuildSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.BuildSummary, 0, len(s.builds))
	for id, b := range s.builds {
		result = append(result, domain.BuildSummary{
			BuildID:    id,
			Title:      b.payload.Title,
			UpdatedAt:  b.updatedAt,
			TemplateID: b.payload.Template,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].BuildID < result[j].BuildID
	})
	return result, nil
}

// Delete removes a build.
func (s *BuildStore) Delete(_ context.Context, buildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.builds[buildID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.builds, buildID)
	return nil
}

// Put stores a payload under a fixed ID. Useful for seeding tests.
func (s *BuildStore) Put(buildID string, payload domain.Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds[buildID] = build{payload: payload.Clone(), updatedAt: s.now()}
}

// Creates returns the number of successful Create calls.
func (s *BuildStore) Creates() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creates
}

// Updates returns the number of successful Update calls.
func (s *BuildStore) Updates() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updates
}
