package domain

// HistoryPosition describes where the history cursor sits.
type HistoryPosition string

// History cursor positions.
const (
	// HistoryEmpty means nothing has been recorded.
	HistoryEmpty HistoryPosition = "empty"

	// HistoryAtBottom means there is nothing left to undo.
	HistoryAtBottom HistoryPosition = "bottom"

	// HistoryMidStack means both undo and redo are possible.
	HistoryMidStack HistoryPosition = "middle"

	// HistoryAtTop means there is nothing left to redo.
	HistoryAtTop HistoryPosition = "top"
)
