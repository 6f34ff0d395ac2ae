package documents

import "github.com/pluqqy/tabpad/pkg/models"

// EventKind identifies the mutation that produced a ChangeEvent
type EventKind int

const (
	EventCreated EventKind = iota
	EventOpened
	EventClosed
	EventActivated
	EventRenamed
	EventDuplicated
	EventContentUpdated
	EventLanguageChanged
	EventReplaced
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventOpened:
		return "opened"
	case EventClosed:
		return "closed"
	case EventActivated:
		return "activated"
	case EventRenamed:
		return "renamed"
	case EventDuplicated:
		return "duplicated"
	case EventContentUpdated:
		return "content-updated"
	case EventLanguageChanged:
		return "language-changed"
	case EventReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// ChangeEvent is delivered to subscribers after every applied mutation
type ChangeEvent struct {
	Kind EventKind
	// DocumentID is the document the mutation targeted. For EventDuplicated
	// it is the new copy.
	DocumentID string
	// ActiveID is the active document after the mutation, or empty
	ActiveID string
	// ActiveChanged reports whether the mutation moved the active selection
	ActiveChanged bool
	// Active is a copy of the active document after the mutation, or nil
	Active *models.Document
}

// RefreshEditor reports whether the editor widget should reload the active
// document's content and language.
func (e ChangeEvent) RefreshEditor() bool {
	return e.ActiveChanged || (e.ActiveID != "" && e.DocumentID == e.ActiveID)
}

// Listener receives change events. It runs after the manager's lock is
// released, so it may call back into the manager.
type Listener func(ChangeEvent)
