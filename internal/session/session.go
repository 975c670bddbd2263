// Package session manages editor session state: which documents are open,
// which pane and tab slot each one occupies, and how that placement changes
// under splits, closes, drags and external filesystem mutations.
package session

// PaneID identifies a pane for the lifetime of the process. IDs are never
// reused, so a stale ID from a closed pane can only miss, not alias.
type PaneID int

// Orientation describes how a split pane is placed relative to the pane it
// was split from. The registry records it as a layout hint; the presentation
// layer decides what it means on screen.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Buffer is the externally owned editor widget held by a slot. The slot is
// the exclusive owner of its buffer; when the slot closes the buffer goes
// with it.
type Buffer interface {
	Text() string
	SetText(string)
	Modified() bool
	MarkSaved()
}

// BufferFactory creates the editor widget for a newly opened slot, seeded
// with the given text.
type BufferFactory func(text string) Buffer

// Location identifies where a document is currently open. It is only valid
// while the referenced pane and slot exist; it is held transiently in the
// file-location index and never persisted.
type Location struct {
	Pane PaneID
	Slot int
}

// Slot is one open document (tab) within a pane.
type Slot struct {
	path     string // absolute path; empty for untitled and orphaned slots
	title    string
	buffer   Buffer
	orphaned bool
}

// Path returns the absolute file path backing the slot, or "" for untitled
// and orphaned slots.
func (s *Slot) Path() string { return s.path }

// Title returns the display label for the slot's tab.
func (s *Slot) Title() string { return s.title }

// Buffer returns the editor widget owned by this slot.
func (s *Slot) Buffer() Buffer { return s.buffer }

// Modified reports whether the slot holds unsaved changes.
func (s *Slot) Modified() bool { return s.buffer.Modified() }

// Orphaned reports whether the slot's backing file was deleted externally
// while the slot held unsaved changes. Orphaned slots keep their content but
// have no path; saving one degrades to save-as.
func (s *Slot) Orphaned() bool { return s.orphaned }

// Pane is an independent split region hosting an ordered set of slots.
// Exactly one pane is primary: it survives losing its last slot (showing a
// placeholder) and can never be closed.
type Pane struct {
	id      PaneID
	slots   []*Slot
	current int // index of the shown slot, -1 when empty
	primary bool
	orient  Orientation
}

func (p *Pane) ID() PaneID { return p.id }

func (p *Pane) Primary() bool { return p.primary }

func (p *Pane) Orientation() Orientation { return p.orient }

func (p *Pane) SlotCount() int { return len(p.slots) }

// Slot returns the slot at index i, or nil if out of bounds.
func (p *Pane) Slot(i int) *Slot {
	if i < 0 || i >= len(p.slots) {
		return nil
	}
	return p.slots[i]
}

// Slots returns a copy of the pane's ordered slot list.
func (p *Pane) Slots() []*Slot {
	out := make([]*Slot, len(p.slots))
	copy(out, p.slots)
	return out
}

// Current returns the index of the currently shown slot, or -1 when the
// pane is empty.
func (p *Pane) Current() int { return p.current }

// CurrentSlot returns the currently shown slot, or nil when the pane is
// empty.
func (p *Pane) CurrentSlot() *Slot { return p.Slot(p.current) }
