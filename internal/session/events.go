package session

// EventKind identifies a structural change to session state.
type EventKind int

const (
	// EventSlotOpened fires when a slot is appended to a pane.
	EventSlotOpened EventKind = iota
	// EventSlotClosed fires when a slot is removed and its buffer released.
	EventSlotClosed
	// EventSlotMoved fires when a slot changes position, possibly across panes.
	EventSlotMoved
	// EventSlotRenamed fires when a slot's backing path changes (rename,
	// move, or save-as adoption).
	EventSlotRenamed
	// EventSlotOrphaned fires when a modified slot loses its backing file.
	EventSlotOrphaned
	// EventPaneOpened fires when a pane is created.
	EventPaneOpened
	// EventPaneClosed fires when a pane is destroyed.
	EventPaneClosed
	// EventActivePane fires when the active pane changes.
	EventActivePane
)

func (k EventKind) String() string {
	switch k {
	case EventSlotOpened:
		return "slot_opened"
	case EventSlotClosed:
		return "slot_closed"
	case EventSlotMoved:
		return "slot_moved"
	case EventSlotRenamed:
		return "slot_renamed"
	case EventSlotOrphaned:
		return "slot_orphaned"
	case EventPaneOpened:
		return "pane_opened"
	case EventPaneClosed:
		return "pane_closed"
	case EventActivePane:
		return "active_pane"
	default:
		return "unknown"
	}
}

// Event describes one structural change. The presentation layer subscribes
// to events instead of being wired into the mutations themselves, so the
// state machine stays independent of any UI toolkit.
type Event struct {
	Kind EventKind
	Pane PaneID
	Slot int      // slot index after the change; -1 where not applicable
	Path string   // backing path after the change; "" for untitled/orphaned
	From Location // previous location, set for EventSlotMoved
}

// OnEvent registers a callback for structural changes. Callbacks run
// synchronously, in registration order, on the mutating call.
func (r *Registry) OnEvent(fn func(Event)) {
	r.handlers = append(r.handlers, fn)
}

func (r *Registry) emit(e Event) {
	for _, fn := range r.handlers {
		fn(e)
	}
}
