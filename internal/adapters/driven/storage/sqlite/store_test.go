package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

// fixedClock makes updated_at deterministic.
func fixedClock(store *Store, start time.Time) func(time.Duration) {
	now := start
	store.now = func() time.Time { return now }
	return func(d time.Duration) { now = now.Add(d) }
}

func testPayload(title string) domain.Payload {
	doc := domain.NewDocument("classic")
	doc.Title = title
	doc, _ = domain.UpdateSectionData(doc, domain.HeaderSectionID, map[string]any{"name": "Ada"})
	doc, _ = domain.AddSection(doc, domain.SectionSkills, "skills", map[string]any{
		"groups": []any{map[string]any{"category": "Core", "items": []any{"Go"}}},
	})
	return doc.ToPayload()
}

// ==================== Store Creation and Migration Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "builds.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(home, ".vitae", "data", "builds.db"), store.Path())
}

func TestMigrate_RecordsVersionOnce(t *testing.T) {
	dir := t.TempDir()

	store1, err := NewStore(dir)
	require.NoError(t, err)
	var version1 int
	require.NoError(t, store1.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version1))
	require.NoError(t, store1.Close())

	store2, err := NewStore(dir)
	require.NoError(t, err)
	defer store2.Close()

	var count int
	require.NoError(t, store2.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, version1)
	assert.Equal(t, 1, count, "reopening must not re-run migrations")
}

// ==================== Build Store Tests ====================

func TestBuildStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	builds := setupTestStore(t).BuildStore()

	id, err := builds.Create(ctx, testPayload("Backend"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := builds.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Backend", got.Title)
	assert.Equal(t, "classic", got.Template)
	assert.Equal(t, []string{domain.HeaderSectionID, "skills"}, got.SectionOrder)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "Ada", got.Sections[0].Data["name"])
	assert.Equal(t, domain.DefaultStyle(), got.Style)
}

func TestBuildStore_Update(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	advance := fixedClock(store, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	builds := store.BuildStore()

	id, err := builds.Create(ctx, testPayload("Draft"))
	require.NoError(t, err)

	advance(time.Minute)
	updatedAt, err := builds.Update(ctx, id, testPayload("Final"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 1, 0, 0, time.UTC), updatedAt)

	got, err := builds.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)

	list, err := builds.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, updatedAt, list[0].UpdatedAt)
}

func TestBuildStore_UpdateMissing(t *testing.T) {
	builds := setupTestStore(t).BuildStore()

	_, err := builds.Update(context.Background(), "missing", testPayload("x"))

	var persistErr *domain.PersistenceError
	require.True(t, errors.As(err, &persistErr))
	assert.Equal(t, "update", persistErr.Op)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuildStore_CreateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	builds := setupTestStore(t).BuildStore()

	_, err := builds.Create(ctx, testPayload("x"))

	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestBuildStore_ListOrdering(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	advance := fixedClock(store, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	builds := store.BuildStore()

	first, err := builds.Create(ctx, testPayload("First"))
	require.NoError(t, err)
	advance(time.Second)
	second, err := builds.Create(ctx, testPayload("Second"))
	require.NoError(t, err)
	advance(time.Second)
	_, err = builds.Update(ctx, first, testPayload("First, edited"))
	require.NoError(t, err)

	list, err := builds.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].BuildID)
	assert.Equal(t, "First, edited", list[0].Title)
	assert.Equal(t, "classic", list[0].TemplateID)
	assert.Equal(t, second, list[1].BuildID)
}

func TestBuildStore_ListEmpty(t *testing.T) {
	list, err := setupTestStore(t).BuildStore().List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestBuildStore_Delete(t *testing.T) {
	ctx := context.Background()
	builds := setupTestStore(t).BuildStore()
	id, err := builds.Create(ctx, testPayload("Doomed"))
	require.NoError(t, err)

	require.NoError(t, builds.Delete(ctx, id))

	_, err = builds.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, builds.Delete(ctx, id), domain.ErrNotFound)
}
