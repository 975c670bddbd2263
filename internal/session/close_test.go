package session

import (
	"errors"
	"reflect"
	"testing"

	"github.com/abdullathedruid/emux/internal/prompt"
)

// scriptedPrompter replays a fixed sequence of decisions and records what it
// was asked.
type scriptedPrompter struct {
	decisions []prompt.Decision
	asked     []prompt.Kind
	details   []string
}

func (p *scriptedPrompter) Prompt(kind prompt.Kind, detail string) prompt.Decision {
	p.asked = append(p.asked, kind)
	p.details = append(p.details, detail)
	if len(p.decisions) == 0 {
		return prompt.DecisionCancel
	}
	d := p.decisions[0]
	p.decisions = p.decisions[1:]
	return d
}

// diskStub records writes and can be told to fail.
type diskStub struct {
	writes  map[string]string
	failAll bool
}

func newDiskStub() *diskStub {
	return &diskStub{writes: make(map[string]string)}
}

func (d *diskStub) save(path, text string) error {
	if d.failAll {
		return errors.New("disk full")
	}
	d.writes[path] = text
	return nil
}

func newTestCloser(r *Registry, p *scriptedPrompter, d *diskStub) *Closer {
	return NewCloser(r, p, d.save, func(suggested string) (string, bool) {
		return "/picked/" + suggested, true
	})
}

func modify(t *testing.T, r *Registry, loc Location, text string) {
	t.Helper()
	s, err := r.SlotAt(loc)
	if err != nil {
		t.Fatal(err)
	}
	s.Buffer().SetText(text)
	if !s.Modified() {
		t.Fatal("slot should be modified after edit")
	}
}

func TestCloseSlotUnmodifiedNeedsNoPrompt(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	r.OpenFile("/a", p1, "x")
	pr := &scriptedPrompter{}
	c := newTestCloser(r, pr, newDiskStub())

	closed, err := c.CloseSlot(p1, 1)
	if err != nil || !closed {
		t.Fatalf("CloseSlot = (%v, %v), want (true, nil)", closed, err)
	}
	if len(pr.asked) != 0 {
		t.Error("unmodified slot must close without prompting")
	}
}

func TestCloseSlotCancelKeepsEverything(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	loc, _ := r.OpenFile("/a", p1, "x")
	modify(t, r, loc, "x edited")
	before := snapshot(r)

	pr := &scriptedPrompter{decisions: []prompt.Decision{prompt.DecisionCancel}}
	c := newTestCloser(r, pr, newDiskStub())

	closed, err := c.CloseSlot(p1, loc.Slot)
	if err != nil {
		t.Fatalf("CloseSlot: %v", err)
	}
	if closed {
		t.Error("Cancel must abort the close")
	}
	if !reflect.DeepEqual(before, snapshot(r)) {
		t.Error("Cancel must leave state untouched")
	}
}

func TestCloseSlotDiscardClosesWithoutWriting(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	loc, _ := r.OpenFile("/a", p1, "x")
	modify(t, r, loc, "x edited")

	disk := newDiskStub()
	pr := &scriptedPrompter{decisions: []prompt.Decision{prompt.DecisionDiscard}}
	c := newTestCloser(r, pr, disk)

	closed, err := c.CloseSlot(p1, loc.Slot)
	if err != nil || !closed {
		t.Fatalf("CloseSlot = (%v, %v), want (true, nil)", closed, err)
	}
	if len(disk.writes) != 0 {
		t.Error("Discard must not write to disk")
	}
	if len(r.Locations("/a")) != 0 {
		t.Error("discarded slot should be gone from the index")
	}
}

func TestCloseSlotSaveWritesThenCloses(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	loc, _ := r.OpenFile("/a", p1, "x")
	modify(t, r, loc, "x edited")

	disk := newDiskStub()
	pr := &scriptedPrompter{decisions: []prompt.Decision{prompt.DecisionSave}}
	c := newTestCloser(r, pr, disk)

	closed, err := c.CloseSlot(p1, loc.Slot)
	if err != nil || !closed {
		t.Fatalf("CloseSlot = (%v, %v), want (true, nil)", closed, err)
	}
	if disk.writes["/a"] != "x edited" {
		t.Errorf("saved content = %q, want the edited text", disk.writes["/a"])
	}
	if r.SaveContextDepth() != 0 {
		t.Error("save context must be restored after the flow")
	}
}

func TestCloseSlotSaveFailureAbortsClose(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	loc, _ := r.OpenFile("/a", p1, "x")
	modify(t, r, loc, "x edited")

	disk := newDiskStub()
	disk.failAll = true
	pr := &scriptedPrompter{decisions: []prompt.Decision{prompt.DecisionSave}}
	c := newTestCloser(r, pr, disk)

	closed, err := c.CloseSlot(p1, loc.Slot)
	if err == nil {
		t.Fatal("expected the disk error to surface")
	}
	if closed {
		t.Error("failed save must abort the close")
	}
	s, serr := r.SlotAt(loc)
	if serr != nil {
		t.Fatal("slot must remain open after a failed save")
	}
	if !s.Modified() {
		t.Error("slot must remain modified after a failed save")
	}
	if r.SaveContextDepth() != 0 {
		t.Error("save context must be restored even on failure")
	}
}

// Scenario: closing a non-active pane saves with a temporary context
// redirect and restores it afterwards.
func TestClosePaneRedirectsAndRestoresContext(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	p2 := r.SplitActivePane(Horizontal)
	r.OpenFile("/D.txt", p2, "d")
	// Dropping the seeded untitled slot shifts D.txt to index 0. The pane
	// must not empty here or it would close.
	r.RemoveSlot(p2, 0)
	loc := r.Locations("/D.txt")[0]
	modify(t, r, loc, "d edited")
	r.SetActivePane(p1)

	ctxBefore, _ := r.SaveContext()

	disk := newDiskStub()
	pr := &scriptedPrompter{decisions: []prompt.Decision{prompt.DecisionSave}}
	c := newTestCloser(r, pr, disk)

	closed, err := c.ClosePane(p2)
	if err != nil || !closed {
		t.Fatalf("ClosePane = (%v, %v), want (true, nil)", closed, err)
	}
	if r.Pane(p2) != nil {
		t.Error("pane should be removed after a successful close")
	}
	if r.ActivePane() != p1 {
		t.Errorf("active pane = %d, want %d", r.ActivePane(), p1)
	}
	if disk.writes["/D.txt"] != "d edited" {
		t.Error("the non-active pane's slot was not the save target")
	}
	ctxAfter, _ := r.SaveContext()
	if ctxAfter != ctxBefore {
		t.Errorf("save context after close = %v, want %v", ctxAfter, ctxBefore)
	}
	if r.SaveContextDepth() != 0 {
		t.Error("redirect stack must be empty after the flow")
	}
}

func TestClosePaneCancelMidwayKeepsPane(t *testing.T) {
	r := newTestRegistry()
	p2 := r.SplitActivePane(Horizontal)
	r.OpenFile("/a", p2, "a")
	r.OpenFile("/b", p2, "b")
	r.RemoveSlot(p2, 0) // drop the untitled seed; a and b shift down
	locA := r.Locations("/a")[0]
	locB := r.Locations("/b")[0]
	modify(t, r, locA, "a2")
	modify(t, r, locB, "b2")

	disk := newDiskStub()
	pr := &scriptedPrompter{decisions: []prompt.Decision{prompt.DecisionSave, prompt.DecisionCancel}}
	c := newTestCloser(r, pr, disk)
	before := snapshot(r)

	closed, err := c.ClosePane(p2)
	if err != nil {
		t.Fatalf("ClosePane: %v", err)
	}
	if closed {
		t.Error("Cancel on any slot must abort the whole pane close")
	}
	if r.Pane(p2) == nil {
		t.Error("pane must survive a cancelled close")
	}
	// The first slot's save stays on disk, but structure is untouched.
	if disk.writes["/a"] != "a2" {
		t.Error("saves performed before the Cancel should stick")
	}
	after := snapshot(r)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("structure changed across a cancelled close:\n before %+v\n after  %+v", before, after)
	}
	checkIndex(t, r)
}

func TestCloseWindowResolvesAllPanesInOrder(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	locA, _ := r.OpenFile("/a", p1, "a")
	p2 := r.SplitActivePane(Horizontal)
	r.OpenFile("/b", p2, "b")
	r.RemoveSlot(p2, 0) // drop the untitled seed; b shifts to index 0
	locB := r.Locations("/b")[0]
	modify(t, r, locA, "a2")
	modify(t, r, locB, "b2")

	disk := newDiskStub()
	pr := &scriptedPrompter{decisions: []prompt.Decision{prompt.DecisionSave, prompt.DecisionSave}}
	c := newTestCloser(r, pr, disk)

	done, err := c.CloseWindow()
	if err != nil || !done {
		t.Fatalf("CloseWindow = (%v, %v), want (true, nil)", done, err)
	}
	if disk.writes["/a"] != "a2" || disk.writes["/b"] != "b2" {
		t.Errorf("both slots should be saved, got %v", disk.writes)
	}
	if len(pr.asked) != 2 {
		t.Errorf("expected 2 prompts, got %d", len(pr.asked))
	}
}

func TestCloseWindowCancelAbortsTermination(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	loc, _ := r.OpenFile("/a", p1, "a")
	modify(t, r, loc, "a2")

	pr := &scriptedPrompter{decisions: []prompt.Decision{prompt.DecisionCancel}}
	c := newTestCloser(r, pr, newDiskStub())
	before := snapshot(r)

	done, err := c.CloseWindow()
	if err != nil {
		t.Fatalf("CloseWindow: %v", err)
	}
	if done {
		t.Error("Cancel must keep the window open")
	}
	if !reflect.DeepEqual(before, snapshot(r)) {
		t.Error("cancelled window close mutated state")
	}
}

func TestSaveActiveUntitledDegradesToSaveAs(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	s := r.Pane(p1).Slot(0) // seeded untitled slot
	s.Buffer().SetText("fresh text")

	disk := newDiskStub()
	pr := &scriptedPrompter{}
	c := newTestCloser(r, pr, disk)

	if err := c.SaveActive(); err != nil {
		t.Fatalf("SaveActive: %v", err)
	}
	if disk.writes["/picked/Untitled"] != "fresh text" {
		t.Errorf("save-as should write to the picked path, got %v", disk.writes)
	}
	if s.Path() != "/picked/Untitled" {
		t.Errorf("slot should adopt the picked path, got %q", s.Path())
	}
	if s.Modified() {
		t.Error("slot should be clean after save")
	}
	checkIndex(t, r)
}

func TestSaveAsBackedOutCancelsClose(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	s := r.Pane(p1).Slot(0)
	s.Buffer().SetText("unsaved")

	pr := &scriptedPrompter{decisions: []prompt.Decision{prompt.DecisionSave}}
	c := NewCloser(r, pr, newDiskStub().save, func(string) (string, bool) {
		return "", false // user backs out of the picker
	})

	closed, err := c.CloseSlot(p1, 0)
	if err != nil {
		t.Fatalf("CloseSlot: %v", err)
	}
	if closed {
		t.Error("backing out of save-as must cancel the close")
	}
	if r.Pane(p1).Slot(0) == nil {
		t.Error("slot must remain open")
	}
}

func TestNestedRedirectsRestoreInOrder(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	locA, _ := r.OpenFile("/a", p1, "a")
	locB, _ := r.OpenFile("/b", p1, "b")

	restoreA := r.PushSaveContext(locA)
	restoreB := r.PushSaveContext(locB)

	if got, _ := r.SaveContext(); got != locB {
		t.Errorf("innermost redirect should win, got %v", got)
	}
	restoreB()
	if got, _ := r.SaveContext(); got != locA {
		t.Errorf("popping should restore the immediately prior value, got %v", got)
	}
	restoreA()
	if r.SaveContextDepth() != 0 {
		t.Error("stack should be empty")
	}
}

func TestCloserUsesSummaryDetail(t *testing.T) {
	r := newTestRegistry()
	p1 := r.ActivePane()
	loc, _ := r.OpenFile("/a", p1, "x")
	modify(t, r, loc, "y")

	pr := &scriptedPrompter{decisions: []prompt.Decision{prompt.DecisionDiscard}}
	c := newTestCloser(r, pr, newDiskStub())
	c.SetSummary(func(s *Slot) string { return s.Title() + " has changes" })

	c.CloseSlot(p1, loc.Slot)
	if len(pr.details) != 1 || pr.details[0] != "a has changes" {
		t.Errorf("prompt detail = %v, want the summary text", pr.details)
	}
}
