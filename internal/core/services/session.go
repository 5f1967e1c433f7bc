package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vitae-cli/internal/logger"
)

// Ensure session types implement the interfaces.
var (
	_ driving.Session        = (*Session)(nil)
	_ driving.SessionService = (*SessionService)(nil)
)

// SessionOptions configures new sessions.
type SessionOptions struct {
	HistoryLimit    int
	DefaultTemplate string
	Autosave        AutosaveConfig
}

// SessionOptionsFrom maps editor settings onto session options.
func SessionOptionsFrom(s domain.EditorSettings) SessionOptions {
	return SessionOptions{
		HistoryLimit:    s.HistoryLimit,
		DefaultTemplate: s.DefaultTemplate,
		Autosave: AutosaveConfig{
			Delay:   s.Autosave.Delay,
			Timeout: s.Autosave.Timeout,
		},
	}
}

// SessionService opens editing sessions against a build store.
type SessionService struct {
	store   driven.BuildStore
	catalog driven.TemplateCatalog
	opts    SessionOptions
}

// NewSessionService creates a new session service.
func NewSessionService(store driven.BuildStore, catalog driven.TemplateCatalog, opts SessionOptions) *SessionService {
	return &SessionService{store: store, catalog: catalog, opts: opts}
}

// New starts a session on a fresh, unsaved document.
func (s *SessionService) New(templateID string) (driving.Session, error) {
	doc, err := s.fresh(templateID)
	if err != nil {
		return nil, err
	}
	return s.start(doc, ""), nil
}

// Open loads a persisted build. Loading records no history and does not
// mark the document dirty.
func (s *SessionService) Open(ctx context.Context, buildID string) (driving.Session, error) {
	payload, err := s.store.Get(ctx, buildID)
	if err != nil {
		return nil, fmt.Errorf("open build %s: %w", buildID, err)
	}
	return s.start(payload.Document(), buildID), nil
}

// NewDocument returns a fresh document for templateID without starting an
// editor or autosave controller.
func (s *SessionService) NewDocument(templateID string) (domain.Document, error) {
	return s.fresh(templateID)
}

func (s *SessionService) fresh(templateID string) (domain.Document, error) {
	if templateID == "" {
		templateID = s.opts.DefaultTemplate
	}
	if !s.catalog.Has(templateID) {
		return domain.Document{}, fmt.Errorf("template %q: %w", templateID, domain.ErrUnsupportedType)
	}
	return domain.NewDocument(templateID), nil
}

func (s *SessionService) start(doc domain.Document, buildID string) *Session {
	sess := &Session{
		service: s,
		editor:  NewEditor(s.catalog, s.opts.HistoryLimit),
	}
	sess.editor.Load(doc)
	sess.autosave = s.newAutosave(sess.editor, buildID)
	sess.unsubscribe = sess.editor.Subscribe(func(domain.Document) {
		sess.current().Notify()
	})
	logger.Debug("session: started on build %q", buildID)
	return sess
}

func (s *SessionService) newAutosave(editor *Editor, buildID string) *Autosave {
	cfg := s.opts.Autosave
	cfg.BuildID = buildID
	return NewAutosave(s.store, editor.Document, cfg)
}

// Session is one open document: an editor wired to an autosave controller.
type Session struct {
	service     *SessionService
	editor      *Editor
	unsubscribe func()

	mu       sync.Mutex
	autosave *Autosave
	closed   bool
}

// Editor returns the session's editor.
func (s *Session) Editor() driving.Editor {
	return s.editor
}

// BuildID returns the persisted build ID.
func (s *Session) BuildID() string {
	return s.current().BuildID()
}

// Status returns the autosave state.
func (s *Session) Status() domain.SaveStatus {
	return s.current().Status()
}

// SaveNow saves synchronously if the document is dirty.
func (s *Session) SaveNow(ctx context.Context) error {
	return s.current().SaveImmediately(ctx)
}

// Retry re-attempts a failed save.
func (s *Session) Retry(ctx context.Context) error {
	return s.current().Retry(ctx)
}

// Reset flushes the current document and starts a fresh one. If the
// flush fails the current document is kept.
func (s *Session) Reset(ctx context.Context, templateID string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	s.mu.Unlock()

	doc, err := s.service.fresh(templateID)
	if err != nil {
		return err
	}
	if err := s.current().SaveImmediately(ctx); err != nil {
		return fmt.Errorf("flush before reset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Closing before Load keeps late edits on the old build.
	if err := s.autosave.Close(ctx); err != nil {
		logger.Warn("session: late edits before reset not saved: %v", err)
	}
	s.editor.Load(doc)
	s.autosave = s.service.newAutosave(s.editor, "")
	return nil
}

// Close performs a final save if dirty and detaches the autosave
// controller. Closing twice is a no-op.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	as := s.autosave
	s.mu.Unlock()

	s.unsubscribe()
	if err := as.Close(ctx); err != nil {
		return fmt.Errorf("final save: %w", err)
	}
	return nil
}

func (s *Session) current() *Autosave {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autosave
}
