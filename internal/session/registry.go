package session

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Registry owns the ordered set of panes, each pane's ordered slot list, the
// active-pane reference and the file-location index. All methods must run on
// the UI event loop: the registry is single-threaded and cooperative, and
// every mutation keeps the index read-after-write consistent before it
// returns.
type Registry struct {
	panes     []*Pane // creation order
	nextPane  PaneID
	active    PaneID
	index     map[string][]Location
	saveCtx   []Location // redirect stack for the save target
	handlers  []func(Event)
	newBuffer BufferFactory
	untitled  int // sequence for untitled titles
}

// New creates a registry seeded with the primary pane holding one untitled
// slot, matching what an empty editor window shows.
func New(factory BufferFactory) *Registry {
	r := &Registry{
		index:     make(map[string][]Location),
		newBuffer: factory,
		nextPane:  1,
	}
	p := r.addPane(true, Horizontal)
	r.active = p.id
	r.appendUntitled(p)
	return r
}

// Pane returns the pane with the given ID, or nil.
func (r *Registry) Pane(id PaneID) *Pane {
	for _, p := range r.panes {
		if p.id == id {
			return p
		}
	}
	return nil
}

// Panes returns the panes in creation order. The slice is a copy.
func (r *Registry) Panes() []*Pane {
	out := make([]*Pane, len(r.panes))
	copy(out, r.panes)
	return out
}

// PaneCount returns the number of open panes.
func (r *Registry) PaneCount() int { return len(r.panes) }

// ActivePane returns the ID of the pane currently treated as the user's
// focus.
func (r *Registry) ActivePane() PaneID { return r.active }

// SetActivePane reassigns focus. Pure reassignment: no side effects on
// content.
func (r *Registry) SetActivePane(id PaneID) error {
	if r.Pane(id) == nil {
		return paneNotFound(id)
	}
	if r.active == id {
		return nil
	}
	r.active = id
	r.emit(Event{Kind: EventActivePane, Pane: id, Slot: -1})
	return nil
}

// FocusSlot makes index the current slot of the pane.
func (r *Registry) FocusSlot(pane PaneID, index int) error {
	p := r.Pane(pane)
	if p == nil {
		return paneNotFound(pane)
	}
	if index < 0 || index >= len(p.slots) {
		return slotNotFound(pane, index)
	}
	p.current = index
	return nil
}

// SlotAt resolves a location to its slot.
func (r *Registry) SlotAt(loc Location) (*Slot, error) {
	p := r.Pane(loc.Pane)
	if p == nil {
		return nil, paneNotFound(loc.Pane)
	}
	s := p.Slot(loc.Slot)
	if s == nil {
		return nil, slotNotFound(loc.Pane, loc.Slot)
	}
	return s, nil
}

// Locations returns every location where path is currently open. The slice
// is a copy.
func (r *Registry) Locations(path string) []Location {
	locs := r.index[path]
	out := make([]Location, len(locs))
	copy(out, locs)
	return out
}

// Paths returns every indexed path, sorted.
func (r *Registry) Paths() []string {
	out := make([]string, 0, len(r.index))
	for p := range r.index {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// SlotTotal returns the total slot count across all panes.
func (r *Registry) SlotTotal() int {
	n := 0
	for _, p := range r.panes {
		n += len(p.slots)
	}
	return n
}

// SplitActivePane creates a new pane adjacent to the active one, seeded with
// one untitled slot, and makes it active.
func (r *Registry) SplitActivePane(o Orientation) PaneID {
	p := r.addPane(false, o)
	r.appendUntitled(p)
	r.active = p.id
	r.emit(Event{Kind: EventActivePane, Pane: p.id, Slot: -1})
	return p.id
}

// NewUntitled appends a fresh untitled slot to the target pane and focuses
// it.
func (r *Registry) NewUntitled(target PaneID) (Location, error) {
	p := r.Pane(target)
	if p == nil {
		return Location{}, paneNotFound(target)
	}
	loc := r.appendUntitled(p)
	return loc, nil
}

// OpenFile opens path in the target pane. If the pane already shows the
// path, the existing slot is focused and no duplicate is created. A path
// open in *other* panes still gets a fresh, independent slot here: edits are
// not synchronized between duplicates.
func (r *Registry) OpenFile(path string, target PaneID, text string) (Location, error) {
	p := r.Pane(target)
	if p == nil {
		return Location{}, paneNotFound(target)
	}
	for i, s := range p.slots {
		if s.path != "" && s.path == path {
			p.current = i
			return Location{Pane: target, Slot: i}, nil
		}
	}
	slot := &Slot{
		path:   path,
		title:  filepath.Base(path),
		buffer: r.newBuffer(text),
	}
	p.slots = append(p.slots, slot)
	p.current = len(p.slots) - 1
	loc := Location{Pane: target, Slot: p.current}
	r.index[path] = append(r.index[path], loc)
	r.emit(Event{Kind: EventSlotOpened, Pane: target, Slot: loc.Slot, Path: path})
	return loc, nil
}

// RemoveSlot removes the slot and releases its buffer. Every location in the
// pane past the removed index shifts down by one, in the same operation. If
// the pane empties and is not primary, the pane itself closes and focus
// moves to the next pane in creation order, wrapping.
//
// This is the structural half of closing a tab; save gating lives in Closer.
func (r *Registry) RemoveSlot(pane PaneID, index int) error {
	p := r.Pane(pane)
	if p == nil {
		return paneNotFound(pane)
	}
	if index < 0 || index >= len(p.slots) {
		return slotNotFound(pane, index)
	}
	slot := p.slots[index]
	p.slots = append(p.slots[:index], p.slots[index+1:]...)
	r.repairCurrentAfterRemove(p, index)
	r.dropLocation(slot.path, Location{Pane: pane, Slot: index})
	r.shiftAfterRemove(pane, index)
	r.emit(Event{Kind: EventSlotClosed, Pane: pane, Slot: index, Path: slot.path})
	if len(p.slots) == 0 && !p.primary {
		r.removePane(p)
	}
	return nil
}

// RemovePane removes every slot in the pane in display order, which closes
// the pane itself for non-primary panes and leaves the primary pane empty
// with its placeholder. The caller is responsible for having resolved
// unsaved changes first.
func (r *Registry) RemovePane(id PaneID) error {
	p := r.Pane(id)
	if p == nil {
		return paneNotFound(id)
	}
	for len(p.slots) > 0 {
		if err := r.RemoveSlot(id, 0); err != nil {
			return err
		}
	}
	return nil
}

// MoveSlot moves the slot at src to targetIndex in the target pane without
// releasing its buffer. Same-pane moves are a single reorder: at no point is
// the index observable with a gap or duplicate. The moved slot becomes the
// target pane's shown slot. Dropping a slot onto its current position is a
// no-op.
func (r *Registry) MoveSlot(src Location, target PaneID, targetIndex int) error {
	sp := r.Pane(src.Pane)
	if sp == nil {
		return paneNotFound(src.Pane)
	}
	if src.Slot < 0 || src.Slot >= len(sp.slots) {
		return slotNotFound(src.Pane, src.Slot)
	}
	tp := r.Pane(target)
	if tp == nil {
		return paneNotFound(target)
	}
	slot := sp.slots[src.Slot]

	if sp == tp {
		insertAt := clamp(targetIndex, 0, len(tp.slots))
		if insertAt > src.Slot {
			insertAt--
		}
		if insertAt == src.Slot {
			return nil
		}
		sp.slots = append(sp.slots[:src.Slot], sp.slots[src.Slot+1:]...)
		sp.slots = append(sp.slots[:insertAt], append([]*Slot{slot}, sp.slots[insertAt:]...)...)
		sp.current = insertAt
		r.reindexPane(sp)
		r.emit(Event{
			Kind: EventSlotMoved,
			Pane: target, Slot: insertAt,
			Path: slot.path,
			From: src,
		})
		return nil
	}

	insertAt := clamp(targetIndex, 0, len(tp.slots))

	// Detach from the source pane: same index-shift repair as RemoveSlot,
	// but the buffer stays alive.
	sp.slots = append(sp.slots[:src.Slot], sp.slots[src.Slot+1:]...)
	r.repairCurrentAfterRemove(sp, src.Slot)
	r.dropLocation(slot.path, src)
	r.shiftAfterRemove(src.Pane, src.Slot)

	// Insert into the target pane.
	r.shiftBeforeInsert(target, insertAt)
	tp.slots = append(tp.slots[:insertAt], append([]*Slot{slot}, tp.slots[insertAt:]...)...)
	tp.current = insertAt
	if slot.path != "" {
		r.index[slot.path] = append(r.index[slot.path], Location{Pane: target, Slot: insertAt})
	}
	r.emit(Event{
		Kind: EventSlotMoved,
		Pane: target, Slot: insertAt,
		Path: slot.path,
		From: src,
	})

	if len(sp.slots) == 0 && !sp.primary {
		r.removePane(sp)
	}
	return nil
}

// Rekey re-points every open slot at oldPath to newPath, updating slot paths,
// titles and index entries. Content is untouched. Returns the number of
// slots updated.
func (r *Registry) Rekey(oldPath, newPath string) int {
	locs := r.index[oldPath]
	if len(locs) == 0 {
		return 0
	}
	delete(r.index, oldPath)
	for _, loc := range locs {
		s, err := r.SlotAt(loc)
		if err != nil {
			continue
		}
		s.path = newPath
		s.title = filepath.Base(newPath)
		r.index[newPath] = append(r.index[newPath], loc)
		r.emit(Event{Kind: EventSlotRenamed, Pane: loc.Pane, Slot: loc.Slot, Path: newPath})
	}
	return len(locs)
}

// Orphan clears the slot's path while keeping its content, removing it from
// the index. Done when a modified slot's backing file disappears; the next
// save degrades to save-as.
func (r *Registry) Orphan(loc Location) error {
	s, err := r.SlotAt(loc)
	if err != nil {
		return err
	}
	r.dropLocation(s.path, loc)
	s.path = ""
	s.orphaned = true
	r.emit(Event{Kind: EventSlotOrphaned, Pane: loc.Pane, Slot: loc.Slot})
	return nil
}

// AdoptPath binds a slot to a (new) backing path after a successful save-as,
// re-keying the index accordingly.
func (r *Registry) AdoptPath(loc Location, path string) error {
	s, err := r.SlotAt(loc)
	if err != nil {
		return err
	}
	if s.path == path {
		return nil
	}
	r.dropLocation(s.path, loc)
	s.path = path
	s.title = filepath.Base(path)
	s.orphaned = false
	r.index[path] = append(r.index[path], loc)
	r.emit(Event{Kind: EventSlotRenamed, Pane: loc.Pane, Slot: loc.Slot, Path: path})
	return nil
}

// PushSaveContext redirects the save target to loc. The returned restore
// function pops exactly this frame and must run on every exit path of the
// enclosing operation, including early aborts. Redirects nest as a stack.
func (r *Registry) PushSaveContext(loc Location) (restore func()) {
	r.saveCtx = append(r.saveCtx, loc)
	depth := len(r.saveCtx)
	return func() {
		if len(r.saveCtx) >= depth {
			r.saveCtx = r.saveCtx[:depth-1]
		}
	}
}

// SaveContext returns the current save target: the innermost redirect if one
// is active, otherwise the active pane's shown slot. ok is false when the
// active pane is empty.
func (r *Registry) SaveContext() (Location, bool) {
	if n := len(r.saveCtx); n > 0 {
		return r.saveCtx[n-1], true
	}
	p := r.Pane(r.active)
	if p == nil || p.current < 0 {
		return Location{}, false
	}
	return Location{Pane: r.active, Slot: p.current}, true
}

// SaveContextDepth reports how many redirects are active. Zero outside any
// close flow.
func (r *Registry) SaveContextDepth() int { return len(r.saveCtx) }

func (r *Registry) addPane(primary bool, o Orientation) *Pane {
	p := &Pane{
		id:      r.nextPane,
		current: -1,
		primary: primary,
		orient:  o,
	}
	r.nextPane++
	r.panes = append(r.panes, p)
	r.emit(Event{Kind: EventPaneOpened, Pane: p.id, Slot: -1})
	return p
}

// removePane drops an empty, non-primary pane and transfers focus to the
// next pane in creation order, wrapping.
func (r *Registry) removePane(p *Pane) {
	pos := -1
	for i, q := range r.panes {
		if q == p {
			pos = i
			break
		}
	}
	if pos < 0 {
		return
	}
	r.panes = append(r.panes[:pos], r.panes[pos+1:]...)
	r.emit(Event{Kind: EventPaneClosed, Pane: p.id, Slot: -1})
	if r.active == p.id && len(r.panes) > 0 {
		next := r.panes[pos%len(r.panes)]
		r.active = next.id
		r.emit(Event{Kind: EventActivePane, Pane: next.id, Slot: -1})
	}
}

func (r *Registry) appendUntitled(p *Pane) Location {
	r.untitled++
	slot := &Slot{
		title:  untitledTitle(r.untitled),
		buffer: r.newBuffer(""),
	}
	p.slots = append(p.slots, slot)
	p.current = len(p.slots) - 1
	loc := Location{Pane: p.id, Slot: p.current}
	r.emit(Event{Kind: EventSlotOpened, Pane: p.id, Slot: loc.Slot})
	return loc
}

// repairCurrentAfterRemove keeps the pane's shown-slot index valid after a
// removal at index.
func (r *Registry) repairCurrentAfterRemove(p *Pane, index int) {
	switch {
	case len(p.slots) == 0:
		p.current = -1
	case p.current > index:
		p.current--
	case p.current == index && p.current >= len(p.slots):
		p.current = len(p.slots) - 1
	}
}

// dropLocation removes one location entry for path. No-op for untitled
// slots.
func (r *Registry) dropLocation(path string, loc Location) {
	if path == "" {
		return
	}
	locs := r.index[path]
	for i, l := range locs {
		if l == loc {
			r.index[path] = append(locs[:i], locs[i+1:]...)
			break
		}
	}
	if len(r.index[path]) == 0 {
		delete(r.index, path)
	}
}

// shiftAfterRemove decrements every indexed location in the pane past the
// removed slot.
func (r *Registry) shiftAfterRemove(pane PaneID, removed int) {
	for path, locs := range r.index {
		for i := range locs {
			if locs[i].Pane == pane && locs[i].Slot > removed {
				locs[i].Slot--
			}
		}
		r.index[path] = locs
	}
}

// shiftBeforeInsert increments every indexed location in the pane at or past
// the insertion point.
func (r *Registry) shiftBeforeInsert(pane PaneID, at int) {
	for path, locs := range r.index {
		for i := range locs {
			if locs[i].Pane == pane && locs[i].Slot >= at {
				locs[i].Slot++
			}
		}
		r.index[path] = locs
	}
}

// reindexPane rebuilds the index entries for one pane from its slot
// sequence. Used after a same-pane reorder, where per-entry shifting would
// transiently show gaps.
func (r *Registry) reindexPane(p *Pane) {
	for path, locs := range r.index {
		kept := locs[:0]
		for _, l := range locs {
			if l.Pane != p.id {
				kept = append(kept, l)
			}
		}
		if len(kept) == 0 {
			delete(r.index, path)
		} else {
			r.index[path] = kept
		}
	}
	for i, s := range p.slots {
		if s.path != "" {
			r.index[s.path] = append(r.index[s.path], Location{Pane: p.id, Slot: i})
		}
	}
}

func untitledTitle(n int) string {
	if n == 1 {
		return "Untitled"
	}
	return fmt.Sprintf("Untitled-%d", n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
