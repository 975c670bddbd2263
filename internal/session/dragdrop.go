package session

import (
	"encoding/json"
)

// payloadKind discriminates tab-handle drags from unrelated drag sources.
// Anything else (plain file paths from a file browser, foreign formats) must
// never corrupt state.
const payloadKind = "tab-move"

type dragPayload struct {
	Kind      string `json:"kind"`
	PaneID    int    `json:"paneId"`
	SlotIndex int    `json:"slotIndex"`
}

// Coordinator serializes, validates and applies tab-transfer requests. It is
// a specialized structural operation on the registry: the move itself is
// atomic and index-consistent.
type Coordinator struct {
	reg *Registry
}

// NewCoordinator creates a coordinator over the registry.
func NewCoordinator(reg *Registry) *Coordinator {
	return &Coordinator{reg: reg}
}

// BeginDrag produces the wire payload for dragging the slot at the given
// location. Fails with NotFound if the location is stale: pane state may
// have changed between the drag gesture starting and this call.
func (c *Coordinator) BeginDrag(pane PaneID, index int) ([]byte, error) {
	p := c.reg.Pane(pane)
	if p == nil {
		return nil, paneNotFound(pane)
	}
	if index < 0 || index >= p.SlotCount() {
		return nil, slotNotFound(pane, index)
	}
	return json.Marshal(dragPayload{Kind: payloadKind, PaneID: int(pane), SlotIndex: index})
}

// IsTabPayload reports whether data is a tab-move payload. Drops that are
// not tab payloads belong to other routes (a file path dropped from the
// tree goes to OpenFile instead).
func (c *Coordinator) IsTabPayload(data []byte) bool {
	var pl dragPayload
	return json.Unmarshal(data, &pl) == nil && pl.Kind == payloadKind
}

// HandleDrop validates the payload and applies the move. Malformed or
// foreign payloads are ignored with no state change and no surfaced error;
// so is a payload whose source slot vanished mid-drag. The target index is
// clamped to [0, slot count]; dropping a tab onto its current position is a
// no-op.
func (c *Coordinator) HandleDrop(data []byte, target PaneID, targetIndex int) error {
	var pl dragPayload
	if err := json.Unmarshal(data, &pl); err != nil || pl.Kind != payloadKind {
		debugLog.Printf("dragdrop: ignoring foreign payload (%d bytes)", len(data))
		return nil
	}
	src := Location{Pane: PaneID(pl.PaneID), Slot: pl.SlotIndex}
	sp := c.reg.Pane(src.Pane)
	if sp == nil || src.Slot < 0 || src.Slot >= sp.SlotCount() {
		debugLog.Printf("dragdrop: source %v vanished mid-drag", src)
		return nil
	}
	return c.reg.MoveSlot(src, target, targetIndex)
}
