package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vitae-cli/internal/logger"
)

// Ensure Editor implements the interface.
var _ driving.Editor = (*Editor)(nil)

// Editor owns one live document, its history, and its subscribers.
//
// Mutations are synchronous: they compute the next document, record the
// previous one in history and swap it in under a single lock. Subscribers
// run after the lock is released, in mutation order.
type Editor struct {
	mu      sync.Mutex
	doc     domain.Document
	history *History
	catalog driven.TemplateCatalog
	newID   func() string

	// notifyMu is taken before mu is released so notifications keep
	// mutation order without holding the document lock.
	notifyMu sync.Mutex
	subsMu   sync.Mutex
	subs     map[int]func(domain.Document)
	nextSub  int
}

// NewEditor creates an editor holding a fresh document on the catalog's
// first template. Call Load to edit an existing document.
func NewEditor(catalog driven.TemplateCatalog, historyLimit int) *Editor {
	templateID := ""
	if list := catalog.List(); len(list) > 0 {
		templateID = list[0].ID
	}
	return &Editor{
		doc:     domain.NewDocument(templateID),
		history: NewHistory(historyLimit),
		catalog: catalog,
		newID:   uuid.NewString,
		subs:    make(map[int]func(domain.Document)),
	}
}

// Load replaces the document and clears history. It does not notify
// subscribers: loading is not an edit.
func (e *Editor) Load(doc domain.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc = domain.Normalize(doc)
	e.history.Reset()
	logger.Debug("editor: loaded %q (%d sections, template %s)", e.doc.Title, len(e.doc.Sections), e.doc.Template)
}

// Document returns a deep copy of the live document.
func (e *Editor) Document() domain.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// AddSection appends a section of type t if the active template supports it.
func (e *Editor) AddSection(t domain.SectionType) (string, bool) {
	if t == domain.SectionHeader {
		return "", false
	}
	var id string
	ok := e.apply(func(doc domain.Document) (domain.Document, bool) {
		if !e.catalog.Supports(doc.Template, t) {
			return doc, false
		}
		id = e.newID()
		return domain.AddSection(doc, t, id, e.catalog.Defaults(doc.Template, t))
	})
	if !ok {
		return "", false
	}
	return id, true
}

// RemoveSection deletes an unlocked section.
func (e *Editor) RemoveSection(id string) bool {
	return e.apply(func(doc domain.Document) (domain.Document, bool) {
		return domain.RemoveSection(doc, id)
	})
}

// ReorderSections applies a new section order.
func (e *Editor) ReorderSections(order []string) bool {
	return e.apply(func(doc domain.Document) (domain.Document, bool) {
		return domain.ReorderSections(doc, order)
	})
}

// MoveSection shifts a section by delta positions.
func (e *Editor) MoveSection(id string, delta int) bool {
	return e.apply(func(doc domain.Document) (domain.Document, bool) {
		return domain.MoveSection(doc, id, delta)
	})
}

// UpdateSectionData shallow-merges partial into a section's data.
func (e *Editor) UpdateSectionData(id string, partial map[string]any) bool {
	return e.apply(func(doc domain.Document) (domain.Document, bool) {
		return domain.UpdateSectionData(doc, id, partial)
	})
}

// UpdateSectionSettings merges display toggles for a section type.
func (e *Editor) UpdateSectionSettings(t domain.SectionType, toggles domain.Toggles) bool {
	return e.apply(func(doc domain.Document) (domain.Document, bool) {
		return domain.UpdateSectionSettings(doc, t, toggles)
	})
}

// UpdateStyle clamps and merges a style patch.
func (e *Editor) UpdateStyle(patch domain.StylePatch) bool {
	return e.apply(func(doc domain.Document) (domain.Document, bool) {
		return domain.UpdateStyle(doc, patch)
	})
}

// ChangeTemplate switches to a registered template.
func (e *Editor) ChangeTemplate(templateID string) bool {
	if !e.catalog.Has(templateID) {
		return false
	}
	return e.apply(func(doc domain.Document) (domain.Document, bool) {
		return domain.ChangeTemplate(doc, templateID)
	})
}

// SetTitle renames the document.
func (e *Editor) SetTitle(title string) bool {
	return e.apply(func(doc domain.Document) (domain.Document, bool) {
		return domain.SetTitle(doc, title)
	})
}

// LoadSeed merges external content into the document as one undoable step.
func (e *Editor) LoadSeed(seed domain.SeedResume) bool {
	return e.apply(func(doc domain.Document) (domain.Document, bool) {
		return domain.ApplySeed(doc, seed, e.newID)
	})
}

// Undo restores the previous snapshot.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	prev, ok := e.history.Undo(e.doc)
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.doc = prev
	e.publish(prev.Clone())
	return true
}

// Redo re-applies the next snapshot.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	next, ok := e.history.Redo()
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.doc = next
	e.publish(next.Clone())
	return true
}

// CanUndo returns true if Undo would change the document.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if Redo would change the document.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// HistoryPosition reports where the undo cursor sits.
func (e *Editor) HistoryPosition() domain.HistoryPosition {
	return e.history.Position()
}

// HistoryLen returns the number of stored snapshots.
func (e *Editor) HistoryLen() int {
	return e.history.Len()
}

// Subscribe registers fn for change notifications.
func (e *Editor) Subscribe(fn func(domain.Document)) func() {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.subsMu.Lock()
		defer e.subsMu.Unlock()
		delete(e.subs, id)
	}
}

// apply runs a pure mutation and, if it changed the document, records
// the previous state and notifies subscribers.
func (e *Editor) apply(mutate func(domain.Document) (domain.Document, bool)) bool {
	e.mu.Lock()
	next, changed := mutate(e.doc)
	if !changed {
		e.mu.Unlock()
		return false
	}
	e.history.Record(e.doc)
	e.doc = next
	e.publish(next.Clone())
	return true
}

// publish releases mu and delivers snapshot to subscribers.
// The caller holds mu.
func (e *Editor) publish(snapshot domain.Document) {
	e.notifyMu.Lock()
	e.mu.Unlock()
	defer e.notifyMu.Unlock()

	e.subsMu.Lock()
	subs := make([]func(domain.Document), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.subsMu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
