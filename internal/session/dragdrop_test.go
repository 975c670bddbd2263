package session

import (
	"reflect"
	"testing"
)

// dragSetup builds P1=[A,B] and P2=[C] with P1 active.
func dragSetup(t *testing.T) (*Registry, *Coordinator, PaneID, PaneID) {
	t.Helper()
	r := newTestRegistry()
	p1 := r.ActivePane()
	r.RemoveSlot(p1, 0)
	r.OpenFile("/A", p1, "")
	r.OpenFile("/B", p1, "")
	p2 := r.SplitActivePane(Horizontal)
	r.OpenFile("/C", p2, "")
	r.RemoveSlot(p2, 0) // drop the untitled seed; C shifts to index 0
	r.SetActivePane(p1)
	return r, NewCoordinator(r), p1, p2
}

// Scenario: drag P1 slot 0 ("A") to P2 index 1.
func TestDragAcrossPanes(t *testing.T) {
	r, c, p1, p2 := dragSetup(t)

	payload, err := c.BeginDrag(p1, 0)
	if err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	if !c.IsTabPayload(payload) {
		t.Fatal("BeginDrag should produce a tab payload")
	}
	if err := c.HandleDrop(payload, p2, 1); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}

	if got := r.Pane(p1).Slot(0).Title(); got != "B" {
		t.Errorf("P1 slot 0 = %q, want B", got)
	}
	if got := r.Pane(p2).Slot(1).Title(); got != "A" {
		t.Errorf("P2 slot 1 = %q, want A", got)
	}
	if want := []Location{{Pane: p2, Slot: 1}}; !reflect.DeepEqual(r.Locations("/A"), want) {
		t.Errorf("Locations(/A) = %v, want %v", r.Locations("/A"), want)
	}
	if want := []Location{{Pane: p1, Slot: 0}}; !reflect.DeepEqual(r.Locations("/B"), want) {
		t.Errorf("Locations(/B) = %v, want %v", r.Locations("/B"), want)
	}
	if got := r.Pane(p2).Current(); got != 1 {
		t.Errorf("moved slot should be shown in the target pane, current = %d", got)
	}
	checkIndex(t, r)
}

func TestDragConservesSlotCount(t *testing.T) {
	r, c, p1, p2 := dragSetup(t)
	total := r.SlotTotal()

	moves := []struct {
		srcPane PaneID
		srcSlot int
		dst     PaneID
		dstIdx  int
	}{
		{p1, 1, p2, 0},
		{p2, 0, p2, 2},
		{p2, 1, p1, 0},
	}
	for _, m := range moves {
		payload, err := c.BeginDrag(m.srcPane, m.srcSlot)
		if err != nil {
			t.Fatalf("BeginDrag(%d,%d): %v", m.srcPane, m.srcSlot, err)
		}
		if err := c.HandleDrop(payload, m.dst, m.dstIdx); err != nil {
			t.Fatalf("HandleDrop: %v", err)
		}
		if r.SlotTotal() != total {
			t.Fatalf("slot count changed: %d -> %d", total, r.SlotTotal())
		}
		checkIndex(t, r)
	}
}

func TestSamePaneReorder(t *testing.T) {
	r, c, p1, _ := dragSetup(t)

	payload, _ := c.BeginDrag(p1, 0)
	if err := c.HandleDrop(payload, p1, 2); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}

	p := r.Pane(p1)
	if p.Slot(0).Title() != "B" || p.Slot(1).Title() != "A" {
		t.Errorf("expected [B A], got [%s %s]", p.Slot(0).Title(), p.Slot(1).Title())
	}
	checkIndex(t, r)
}

func TestDropOnSamePositionIsNoOp(t *testing.T) {
	r, c, p1, _ := dragSetup(t)
	before := snapshot(r)

	var events int
	r.OnEvent(func(Event) { events++ })

	payload, _ := c.BeginDrag(p1, 0)
	if err := c.HandleDrop(payload, p1, 0); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}
	if events != 0 {
		t.Errorf("no-op drop emitted %d events", events)
	}
	if !reflect.DeepEqual(before, snapshot(r)) {
		t.Error("no-op drop mutated state")
	}
}

func TestForeignPayloadsAreIgnored(t *testing.T) {
	r, c, _, p2 := dragSetup(t)
	before := snapshot(r)

	payloads := [][]byte{
		nil,
		[]byte("not json"),
		[]byte(`"/some/file/path.txt"`),
		[]byte(`{"kind":"file-path","path":"/x"}`),
		[]byte(`{"paneId":1,"slotIndex":0}`),
	}
	for _, data := range payloads {
		if err := c.HandleDrop(data, p2, 0); err != nil {
			t.Errorf("HandleDrop(%q) = %v, want silent ignore", data, err)
		}
	}
	if !reflect.DeepEqual(before, snapshot(r)) {
		t.Error("foreign payloads must never change state")
	}
	if c.IsTabPayload([]byte(`{"kind":"file-path"}`)) {
		t.Error("foreign kind misidentified as tab payload")
	}
}

func TestDropWithVanishedSourceIsIgnored(t *testing.T) {
	r, c, p1, p2 := dragSetup(t)

	payload, _ := c.BeginDrag(p1, 1)
	r.RemoveSlot(p1, 1) // source closes mid-drag
	before := snapshot(r)

	if err := c.HandleDrop(payload, p2, 0); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}
	if !reflect.DeepEqual(before, snapshot(r)) {
		t.Error("a drop whose source vanished must be ignored")
	}
}

func TestDropIndexIsClamped(t *testing.T) {
	r, c, p1, p2 := dragSetup(t)

	payload, _ := c.BeginDrag(p1, 0)
	if err := c.HandleDrop(payload, p2, 99); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}
	p := r.Pane(p2)
	if got := p.Slot(p.SlotCount() - 1).Title(); got != "A" {
		t.Errorf("out-of-range index should clamp to the end, last slot = %q", got)
	}
	checkIndex(t, r)
}

func TestBeginDragOutOfBounds(t *testing.T) {
	_, c, p1, _ := dragSetup(t)

	if _, err := c.BeginDrag(p1, 7); err == nil {
		t.Error("BeginDrag past the end should fail")
	}
	if _, err := c.BeginDrag(PaneID(99), 0); err == nil {
		t.Error("BeginDrag on a stale pane should fail")
	}
}

func TestDraggingLastSlotClosesSourcePane(t *testing.T) {
	r, c, p1, p2 := dragSetup(t)

	// Empty P2 into P1 one tab at a time.
	payload, _ := c.BeginDrag(p2, 0)
	if err := c.HandleDrop(payload, p1, 0); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}
	if r.Pane(p2) != nil {
		t.Error("non-primary pane emptied by a drag should close")
	}
	if got := r.Pane(p1).SlotCount(); got != 3 {
		t.Errorf("P1 should hold all 3 slots, got %d", got)
	}
	checkIndex(t, r)
}
