// internal/event/event.go
package event

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Editing lifecycle
	TypeStateCommitted // a committed action produced a new present state
	TypeHistoryMoved   // undo or redo shifted the present
	TypeMoveApplied    // a token span was moved or a move was reverted

	// Output lifecycle
	TypeExportWritten // an M2 report was produced
	TypeSavePerformed // a save payload was handed to the saver

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// StateCommittedData describes a committed transition.
type StateCommittedData struct {
	Action string // human-readable action name, for logs and autosave
}

// HistoryMovedData reports which direction the history shifted.
type HistoryMovedData struct {
	Redo bool
}

// ExportWrittenData carries the destination of a written report.
type ExportWrittenData struct {
	Path      string
	Clipboard bool
}

// SavePerformedData reports the outcome of a save.
type SavePerformedData struct {
	Annotations int
	Err         error
}
