package session

import (
	"errors"

	"github.com/abdullathedruid/emux/internal/prompt"
)

// SaveFileFunc writes a document to disk. Implemented by the fileio
// collaborator; failures abort only the enclosing save, never in-memory
// state.
type SaveFileFunc func(path, text string) error

// PickPathFunc asks the user for a save-as destination. ok is false when
// the user backed out, which cancels the enclosing close.
type PickPathFunc func(suggested string) (path string, ok bool)

// Closer orchestrates prompting and saving when tabs, panes or the whole
// window close. Each request walks Idle -> Prompting -> {Saving -> Idle |
// cancelled | discarded}; a Cancel anywhere leaves the registry and index
// exactly as they were before the request began.
type Closer struct {
	reg       *Registry
	prompts   prompt.Prompter
	saveFile  SaveFileFunc
	pickPath  PickPathFunc
	summarize func(*Slot) string
}

// NewCloser wires the confirmation flow to its collaborators.
func NewCloser(reg *Registry, prompts prompt.Prompter, saveFile SaveFileFunc, pickPath PickPathFunc) *Closer {
	return &Closer{reg: reg, prompts: prompts, saveFile: saveFile, pickPath: pickPath}
}

// SetSummary installs an optional detail builder for unsaved-changes
// prompts, e.g. a diff-stat of the slot's buffer.
func (c *Closer) SetSummary(fn func(*Slot) string) {
	c.summarize = fn
}

// CloseSlot closes one tab, prompting first if it holds unsaved changes.
// Returns false with a nil error when the user cancelled; a save failure
// aborts the close and the slot stays open and modified.
func (c *Closer) CloseSlot(pane PaneID, index int) (bool, error) {
	p := c.reg.Pane(pane)
	if p == nil {
		return false, paneNotFound(pane)
	}
	slot := p.Slot(index)
	if slot == nil {
		return false, slotNotFound(pane, index)
	}
	if slot.Modified() {
		switch c.prompts.Prompt(prompt.UnsavedChanges, c.detail(slot)) {
		case prompt.DecisionSave:
			if err := c.saveSlot(Location{Pane: pane, Slot: index}); err != nil {
				if errors.Is(err, ErrCancelled) {
					return false, nil
				}
				return false, err
			}
		case prompt.DecisionDiscard:
			// close without writing
		default:
			return false, nil
		}
	}
	return true, c.reg.RemoveSlot(pane, index)
}

// ClosePane resolves the pane's modified slots in display order, then closes
// the pane. A Cancel on any slot aborts the whole pane close: slots saved
// earlier in the same attempt stay saved, but nothing closes. Partial
// close is not a valid end state.
func (c *Closer) ClosePane(id PaneID) (bool, error) {
	p := c.reg.Pane(id)
	if p == nil {
		return false, paneNotFound(id)
	}
	ok, err := c.resolvePane(p)
	if !ok || err != nil {
		return false, err
	}
	return true, c.reg.RemovePane(id)
}

// CloseWindow resolves every modified slot in every pane, in pane creation
// order then slot order. Returns true only when the window may actually
// terminate; the same cancel-aborts-everything semantics apply across the
// whole window.
func (c *Closer) CloseWindow() (bool, error) {
	for _, p := range c.reg.Panes() {
		ok, err := c.resolvePane(p)
		if !ok || err != nil {
			return false, err
		}
	}
	return true, nil
}

// SaveActive saves the document identified by the current save context: the
// innermost redirect when a close flow is running, otherwise the active
// pane's shown slot. Untitled and orphaned slots degrade to save-as.
func (c *Closer) SaveActive() error {
	loc, ok := c.reg.SaveContext()
	if !ok {
		return errors.New("session: nothing to save")
	}
	slot, err := c.reg.SlotAt(loc)
	if err != nil {
		return err
	}
	path := slot.Path()
	if path == "" {
		picked, ok := c.pickPath(slot.Title())
		if !ok {
			return ErrCancelled
		}
		path = picked
	}
	if err := c.saveFile(path, slot.Buffer().Text()); err != nil {
		return err
	}
	if path != slot.Path() {
		if err := c.reg.AdoptPath(loc, path); err != nil {
			return err
		}
	}
	slot.Buffer().MarkSaved()
	return nil
}

// resolvePane walks modified slots in slot order, prompting for each. False
// means the user cancelled the enclosing close.
func (c *Closer) resolvePane(p *Pane) (bool, error) {
	for i := 0; i < p.SlotCount(); i++ {
		slot := p.Slot(i)
		if !slot.Modified() {
			continue
		}
		switch c.prompts.Prompt(prompt.UnsavedChanges, c.detail(slot)) {
		case prompt.DecisionSave:
			if err := c.saveSlot(Location{Pane: p.ID(), Slot: i}); err != nil {
				if errors.Is(err, ErrCancelled) {
					return false, nil
				}
				return false, err
			}
		case prompt.DecisionDiscard:
			// resolved; content goes when the pane is removed
		default:
			return false, nil
		}
	}
	return true, nil
}

// saveSlot saves one slot under a scoped save-target redirect. The save
// operation itself is written against "the current context", so closing a
// non-active pane temporarily makes it the save target; the restore runs on
// every exit path so a failed save can never leak a stale context into a
// later, unrelated save.
func (c *Closer) saveSlot(loc Location) error {
	restore := c.reg.PushSaveContext(loc)
	defer restore()
	return c.SaveActive()
}

func (c *Closer) detail(s *Slot) string {
	if c.summarize != nil {
		return c.summarize(s)
	}
	return s.Title()
}
