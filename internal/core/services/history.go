package services

import (
	"sync"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 50

// History is a bounded stack of document snapshots with a cursor.
//
// entries[:cursor] are states that can be undone to. When the cursor sits
// below the top, entries[cursor] is the state currently shown and
// entries[cursor+1:] can be redone. Snapshots are deep copies on the way
// in and on the way out, so they never alias the live document.
type History struct {
	mu      sync.Mutex
	entries []domain.Document
	cursor  int
	limit   int
}

// NewHistory creates a history allowing at most limit consecutive undos.
// A non-positive limit uses DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Record pushes the state that existed before a mutation. Any redo branch
// is discarded.
func (h *History) Record(pre domain.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = h.entries[:h.cursor]
	h.push(pre, h.limit)
	h.cursor = len(h.entries)
}

// Undo returns the previous snapshot. live is the current document; when
// undoing from the top it is kept so Redo can return to it.
func (h *History) Undo(live domain.Document) (domain.Document, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor == 0 {
		return domain.Document{}, false
	}
	if h.cursor == len(h.entries) {
		// The tip is one slot above the limit, so this never evicts.
		h.push(live, h.limit+1)
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

// Redo returns the next snapshot after an undo.
func (h *History) Redo() (domain.Document, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor >= len(h.entries)-1 {
		return domain.Document{}, false
	}
	h.cursor++
	return h.entries[h.cursor].Clone(), true
}

// CanUndo returns true if Undo would succeed.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

// CanRedo returns true if Redo would succeed.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.entries)-1
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Limit returns the maximum undo depth.
func (h *History) Limit() int {
	return h.limit
}

// Position reports where the cursor sits.
func (h *History) Position() domain.HistoryPosition {
	h.mu.Lock()
	defer h.mu.Unlock()

	canUndo := h.cursor > 0
	canRedo := h.cursor < len(h.entries)-1
	switch {
	case len(h.entries) == 0:
		return domain.HistoryEmpty
	case canUndo && canRedo:
		return domain.HistoryMidStack
	case canRedo:
		return domain.HistoryAtBottom
	default:
		return domain.HistoryAtTop
	}
}

// Reset drops every snapshot.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	h.cursor = 0
}

// push appends a copy, evicting the oldest entry beyond capacity.
// The caller holds the lock.
func (h *History) push(doc domain.Document, capacity int) {
	h.entries = append(h.entries, doc.Clone())
	if len(h.entries) > capacity {
		h.entries[0] = domain.Document{}
		h.entries = h.entries[1:]
		if h.cursor > 0 {
			h.cursor--
		}
	}
}
