package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

func titled(title string) domain.Document {
	doc := domain.NewDocument("classic")
	doc.Title = title
	return doc
}

func TestHistory_UndoRedo(t *testing.T) {
	h := NewHistory(10)
	h.Record(titled("v1"))
	h.Record(titled("v2"))

	prev, ok := h.Undo(titled("v3"))
	require.True(t, ok)
	assert.Equal(t, "v2", prev.Title)

	prev, ok = h.Undo(prev)
	require.True(t, ok)
	assert.Equal(t, "v1", prev.Title)

	_, ok = h.Undo(prev)
	assert.False(t, ok, "undo past the bottom is a no-op")

	next, ok := h.Redo()
	require.True(t, ok)
	assert.Equal(t, "v2", next.Title)

	next, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "v3", next.Title)

	_, ok = h.Redo()
	assert.False(t, ok, "redo past the top is a no-op")
}

func TestHistory_RecordDiscardsRedoBranch(t *testing.T) {
	h := NewHistory(10)
	h.Record(titled("v1"))
	_, _ = h.Undo(titled("v2"))
	require.True(t, h.CanRedo())

	h.Record(titled("v1"))

	assert.False(t, h.CanRedo())
	assert.Equal(t, 1, h.Len())
}

func TestHistory_EvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		h.Record(titled(title))
	}
	require.Equal(t, 3, h.Len())

	live := titled("f")
	var seen []string
	for {
		prev, ok := h.Undo(live)
		if !ok {
			break
		}
		seen = append(seen, prev.Title)
		live = prev
	}
	assert.Equal(t, []string{"e", "d", "c"}, seen)
}

func TestHistory_LimitOneStillUndoes(t *testing.T) {
	h := NewHistory(1)
	h.Record(titled("a"))
	h.Record(titled("b"))

	prev, ok := h.Undo(titled("c"))
	require.True(t, ok)
	assert.Equal(t, "b", prev.Title)

	next, ok := h.Redo()
	require.True(t, ok)
	assert.Equal(t, "c", next.Title)
}

func TestHistory_SnapshotsAreDetached(t *testing.T) {
	h := NewHistory(5)
	doc := titled("v1")
	doc.Sections[0].Data["name"] = "Ada"
	h.Record(doc)

	doc.Sections[0].Data["name"] = "Mutated"
	prev, ok := h.Undo(doc)
	require.True(t, ok)
	assert.Equal(t, "Ada", prev.Sections[0].Data["name"])

	prev.Sections[0].Data["name"] = "Mutated again"
	next, _ := h.Redo()
	prev2, _ := h.Undo(next)
	assert.Equal(t, "Ada", prev2.Sections[0].Data["name"])
}

func TestHistory_Position(t *testing.T) {
	h := NewHistory(5)
	assert.Equal(t, domain.HistoryEmpty, h.Position())

	h.Record(titled("a"))
	h.Record(titled("b"))
	assert.Equal(t, domain.HistoryAtTop, h.Position())

	live, _ := h.Undo(titled("c"))
	assert.Equal(t, domain.HistoryMidStack, h.Position())

	_, _ = h.Undo(live)
	assert.Equal(t, domain.HistoryAtBottom, h.Position())

	h.Reset()
	assert.Equal(t, domain.HistoryEmpty, h.Position())
	assert.False(t, h.CanUndo())
}

func TestHistory_UndoNThenRedoNRestoresState(t *testing.T) {
	h := NewHistory(50)
	docs := []domain.Document{titled("a")}
	for i := 0; i < 6; i++ {
		next := docs[len(docs)-1].Clone()
		next, _ = domain.AddSection(next, domain.SectionSummary, string(rune('p'+i)), map[string]any{"text": i})
		h.Record(docs[len(docs)-1])
		docs = append(docs, next)
	}
	live := docs[len(docs)-1]

	for n := 1; n <= 6; n++ {
		cur := live
		for i := 0; i < n; i++ {
			prev, ok := h.Undo(cur)
			require.True(t, ok)
			cur = prev
		}
		for i := 0; i < n; i++ {
			next, ok := h.Redo()
			require.True(t, ok)
			cur = next
		}
		if diff := cmp.Diff(live, cur); diff != "" {
			t.Fatalf("undo %d / redo %d mismatch (-want +got):\n%s", n, n, diff)
		}
	}
}

func TestNewHistory_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultHistoryLimit, NewHistory(0).Limit())
}
