package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// fakeAPI is a minimal in-memory builds API.
type fakeAPI struct {
	mu       sync.Mutex
	builds   map[string]domain.Payload
	nextID   int
	auth     []string
	failWith int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{builds: make(map[string]domain.Payload)}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, srv
}

func (a *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.auth = append(a.auth, r.Header.Get("Authorization"))

	if a.failWith != 0 {
		if a.failWith == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", "1")
		}
		http.Error(w, "nope", a.failWith)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/builds":
		var p domain.Payload
		_ = json.NewDecoder(r.Body).Decode(&p)
		a.nextID++
		newID := fmt.Sprintf("b-%d", a.nextID)
		a.builds[newID] = p
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": newID})
	case r.Method == http.MethodGet && r.URL.Path == "/builds":
		var out []summary
		for bid, p := range a.builds {
			out = append(out, summary{ID: bid, Title: p.Title, TemplateID: p.Template})
		}
		_ = json.NewEncoder(w).Encode(out)
	default:
		a.serveBuild(w, r)
	}
}

func (a *fakeAPI) serveBuild(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/builds/")
	p, ok := a.builds[id]
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(p)
	case http.MethodPut:
		_ = json.NewDecoder(r.Body).Decode(&p)
		a.builds[id] = p
		_ = json.NewEncoder(w).Encode(map[string]string{"updatedAt": "2026-05-01T10:00:00Z"})
	case http.MethodDelete:
		delete(a.builds, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func newTestStore(t *testing.T, url string) *Store {
	t.Helper()
	store, err := NewStore(Config{BaseURL: url + "/", Token: "secret", Rate: 100})
	require.NoError(t, err)
	return store
}

func testPayload(title string) domain.Payload {
	doc := domain.NewDocument("modern")
	doc.Title = title
	return doc.ToPayload()
}

func TestNewStore_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "not a url"} {
		_, err := NewStore(Config{BaseURL: raw})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, raw)
	}
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	api, srv := newFakeAPI(t)
	store := newTestStore(t, srv.URL)

	id, err := store.Create(ctx, testPayload("Remote"))
	require.NoError(t, err)
	assert.Equal(t, "b-1", id)

	updatedAt, err := store.Update(ctx, id, testPayload("Remote v2"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), updatedAt)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Remote v2", got.Title)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "modern", list[0].TemplateID)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	api.mu.Lock()
	defer api.mu.Unlock()
	for _, h := range api.auth {
		assert.Equal(t, "Bearer secret", h)
	}
}

func TestStore_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrUnauthorized},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			api, srv := newFakeAPI(t)
			api.failWith = tt.status
			store := newTestStore(t, srv.URL)

			_, err := store.Update(context.Background(), "b-1", testPayload("x"))

			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrPersistence)
			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.Code)
		})
	}
}

func TestStore_ServerErrorIsPersistenceOnly(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.failWith = http.StatusInternalServerError
	store := newTestStore(t, srv.URL)

	_, err := store.Create(context.Background(), testPayload("x"))

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "500")
}

func TestStore_RateLimitedSetsBackoff(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.failWith = http.StatusTooManyRequests
	store := newTestStore(t, srv.URL)

	before := time.Now()
	_, err := store.List(context.Background())
	require.ErrorIs(t, err, domain.ErrRateLimited)

	assert.True(t, store.limiter.RetryAt().After(before))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = store.List(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "requests wait out the backoff")
}

func TestStore_WithoutToken(t *testing.T) {
	api, srv := newFakeAPI(t)
	store, err := NewStore(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = store.List(context.Background())
	require.NoError(t, err)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, []string{""}, api.auth)
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	h := http.Header{}
	assert.Equal(t, time.Duration(0), retryAfter(h, now))

	h.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, retryAfter(h, now))

	h.Set("Retry-After", now.Add(time.Minute).Format(http.TimeFormat))
	assert.Equal(t, time.Minute, retryAfter(h, now))
}

func TestRateLimiter_BackoffDefault(t *testing.T) {
	r := newRateLimiter(1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Backoff(0)

	assert.Equal(t, now.Add(defaultBackoff), r.RetryAt())
}
