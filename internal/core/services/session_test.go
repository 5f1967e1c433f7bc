package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/templates"
)

func newTestSessions(store *memory.BuildStore) *SessionService {
	return NewSessionService(store, templates.DefaultRegistry(), SessionOptions{
		HistoryLimit:    20,
		DefaultTemplate: templates.Classic,
		Autosave:        AutosaveConfig{Delay: testDelay, Timeout: time.Second},
	})
}

func TestSessionService_NewUsesDefaultTemplate(t *testing.T) {
	svc := newTestSessions(memory.NewBuildStore())

	sess, err := svc.New("")
	require.NoError(t, err)
	defer sess.Close(context.Background())

	assert.Equal(t, templates.Classic, sess.Editor().Document().Template)
	assert.Empty(t, sess.BuildID())

	_, err = svc.New("brutalist")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedType))
}

func TestSessionService_NewDocument(t *testing.T) {
	store := memory.NewBuildStore()
	svc := newTestSessions(store)

	doc, err := svc.NewDocument("")
	require.NoError(t, err)
	assert.Equal(t, templates.Classic, doc.Template)
	assert.Equal(t, []string{domain.HeaderSectionID}, doc.SectionOrder)

	doc, err = svc.NewDocument("modern")
	require.NoError(t, err)
	assert.Equal(t, "modern", doc.Template)

	_, err = svc.NewDocument("brutalist")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Zero(t, store.Creates())
	assert.Zero(t, store.Updates())
}

func TestSessionService_OpenDoesNotDirty(t *testing.T) {
	store := memory.NewBuildStore()
	doc := domain.NewDocument(templates.Modern)
	doc.Title = "Stored"
	store.Put("b-1", doc.ToPayload())
	svc := newTestSessions(store)

	sess, err := svc.Open(context.Background(), "b-1")
	require.NoError(t, err)

	assert.Equal(t, "Stored", sess.Editor().Document().Title)
	assert.False(t, sess.Editor().CanUndo())
	assert.False(t, sess.Status().Dirty)
	assert.Equal(t, "b-1", sess.BuildID())

	require.NoError(t, sess.Close(context.Background()))
	assert.Equal(t, 0, store.Updates())

	_, err = svc.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSession_AutosavesEdits(t *testing.T) {
	store := memory.NewBuildStore()
	sess, err := newTestSessions(store).New(templates.Modern)
	require.NoError(t, err)
	defer sess.Close(context.Background())

	sess.Editor().SetTitle("Autosaved")

	assert.Eventually(t, func() bool { return sess.BuildID() != "" }, time.Second, 5*time.Millisecond)
	payload, err := store.Get(context.Background(), sess.BuildID())
	require.NoError(t, err)
	assert.Equal(t, "Autosaved", payload.Title)
}

func TestSession_CloseForcesFinalSave(t *testing.T) {
	store := memory.NewBuildStore()
	store.Put("b-1", domain.NewDocument(templates.Classic).ToPayload())
	sess, err := newTestSessions(store).Open(context.Background(), "b-1")
	require.NoError(t, err)

	sess.Editor().SetTitle("Before navigation")
	require.NoError(t, sess.Close(context.Background()))

	payload, err := store.Get(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, "Before navigation", payload.Title)
	assert.ErrorIs(t, sess.SaveNow(context.Background()), domain.ErrSessionClosed)
	assert.ErrorIs(t, sess.Reset(context.Background(), ""), domain.ErrSessionClosed)
}

func TestSession_ResetFlushesPrevious(t *testing.T) {
	store := memory.NewBuildStore()
	store.Put("b-1", domain.NewDocument(templates.Classic).ToPayload())
	sess, err := newTestSessions(store).Open(context.Background(), "b-1")
	require.NoError(t, err)
	defer sess.Close(context.Background())

	sess.Editor().SetTitle("Old document")
	require.NoError(t, sess.Reset(context.Background(), templates.Minimal))

	old, err := store.Get(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, "Old document", old.Title)

	doc := sess.Editor().Document()
	assert.Equal(t, templates.Minimal, doc.Template)
	assert.Equal(t, "Untitled Resume", doc.Title)
	assert.Empty(t, sess.BuildID())
	assert.False(t, sess.Editor().CanUndo())

	sess.Editor().SetTitle("New document")
	require.NoError(t, sess.SaveNow(context.Background()))
	assert.NotEqual(t, "b-1", sess.BuildID())

	old, _ = store.Get(context.Background(), "b-1")
	assert.Equal(t, "Old document", old.Title, "new edits never reach the old build")
}

func TestSessionOptionsFrom(t *testing.T) {
	opts := SessionOptionsFrom(domain.DefaultEditorSettings())

	assert.Equal(t, 50, opts.HistoryLimit)
	assert.Equal(t, "classic", opts.DefaultTemplate)
	assert.Equal(t, 1500*time.Millisecond, opts.Autosave.Delay)
}
