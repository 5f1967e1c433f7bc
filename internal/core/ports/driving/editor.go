package driving

import "github.com/custodia-labs/vitae-cli/internal/core/domain"

// Editor owns one live document and its undo history.
//
// Every mutating method returns false when the call left the document
// unchanged (unknown ids, unregistered types, identical values). Such
// calls record no history entry and notify no subscribers.
type Editor interface {
	// Load replaces the document without recording history. The history
	// is cleared so undo cannot cross documents.
	Load(doc domain.Document)

	// Document returns a deep copy of the live document.
	Document() domain.Document

	// AddSection appends a section of the given type with the template's
	// default data. Returns the new section ID.
	AddSection(t domain.SectionType) (string, bool)

	// RemoveSection deletes an unlocked section.
	RemoveSection(id string) bool

	// ReorderSections applies a new order. Unknown ids are ignored and
	// omitted ids keep their relative order at the end.
	ReorderSections(order []string) bool

	// MoveSection shifts a section by delta positions in the order.
	MoveSection(id string, delta int) bool

	// UpdateSectionData shallow-merges partial into the section data.
	// A nil value removes the key.
	UpdateSectionData(id string, partial map[string]any) bool

	// UpdateSectionSettings merges display toggles for a section type.
	UpdateSectionSettings(t domain.SectionType, toggles domain.Toggles) bool

	// UpdateStyle clamps and merges a style patch.
	UpdateStyle(patch domain.StylePatch) bool

	// ChangeTemplate switches the active template. Section data is untouched.
	ChangeTemplate(templateID string) bool

	// SetTitle renames the document.
	SetTitle(title string) bool

	// LoadSeed merges externally generated content into the document.
	LoadSeed(seed domain.SeedResume) bool

	// Undo restores the previous snapshot.
	Undo() bool

	// Redo re-applies the next snapshot.
	Redo() bool

	CanUndo() bool
	CanRedo() bool

	// HistoryPosition reports where the undo cursor sits.
	HistoryPosition() domain.HistoryPosition

	// Subscribe registers fn to be called after every change with a copy
	// of the new document. The returned function removes the subscription.
	Subscribe(fn func(domain.Document)) func()
}
