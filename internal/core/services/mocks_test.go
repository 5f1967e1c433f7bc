package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
)

var errBackendDown = errors.New("backend down")

// scriptedStore is a BuildStore whose calls can fail or block on demand.
type scriptedStore struct {
	mu       sync.Mutex
	builds   map[string]domain.Payload
	creates  int
	updates  int
	failures int           // remaining calls that fail
	gate     chan struct{} // when non-nil, writes wait for it to close
	started  chan struct{} // receives one value when a write starts
	saved    []string      // titles in write order
}

var _ driven.BuildStore = (*scriptedStore)(nil)

func newScriptedStore() *scriptedStore {
	return &scriptedStore{builds: make(map[string]domain.Payload)}
}

func (s *scriptedStore) failNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = n
}

// block makes subsequent writes wait until the returned function is called.
func (s *scriptedStore) block() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gate = gate
	s.started = make(chan struct{}, 16)
	return func() {
		s.mu.Lock()
		s.gate = nil
		s.mu.Unlock()
		close(gate)
	}
}

func (s *scriptedStore) write(ctx context.Context) error {
	s.mu.Lock()
	gate, started := s.gate, s.started
	s.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return &domain.PersistenceError{Op: "write", Err: errBackendDown}
	}
	return nil
}

func (s *scriptedStore) Create(ctx context.Context, payload domain.Payload) (string, error) {
	if err := s.write(ctx); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	id := "build-" + strconv.Itoa(len(s.builds)+1)
	s.builds[id] = payload.Clone()
	s.saved = append(s.saved, payload.Title)
	return id, nil
}

func (s *scriptedStore) Update(ctx context.Context, id string, payload domain.Payload) (time.Time, error) {
	if err := s.write(ctx); err != nil {
		return time.Time{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.builds[id]; !ok {
		return time.Time{}, &domain.PersistenceError{Op: "update", BuildID: id, Err: domain.ErrNotFound}
	}
	s.updates++
	s.builds[id] = payload.Clone()
	s.saved = append(s.saved, payload.Title)
	return time.Now(), nil
}

func (s *scriptedStore) Get(_ context.Context, id string) (*domain.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.builds[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := p.Clone()
	return &c, nil
}

func (s *scriptedStore) List(_ context.Context) ([]domain.BuildSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.BuildSummary, 0, len(s.builds))
	for id, p := range s.builds {
		out = append(out, domain.BuildSummary{BuildID: id, Title: p.Title, TemplateID: p.Template})
	}
	return out, nil
}

func (s *scriptedStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.builds, id)
	return nil
}

func (s *scriptedStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates + s.updates
}

func (s *scriptedStore) createCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

func (s *scriptedStore) titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.saved...)
}

func (s *scriptedStore) payload(id string) domain.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builds[id].Clone()
}

// fakeRenderer records the layout it was given.
type fakeRenderer struct {
	layout domain.ExportLayout
	err    error
}

func (r *fakeRenderer) Format() string { return "fake" }

func (r *fakeRenderer) Render(_ context.Context, layout domain.ExportLayout) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.layout = layout
	return []byte("rendered:" + layout.Title), nil
}
