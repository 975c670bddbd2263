// Package editor provides the text buffer backing each open tab.
package editor

import (
	"fmt"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Buffer holds the working text of one tab along with the last-saved
// snapshot and undo history. It is not safe for concurrent use; all access
// happens on the UI loop.
type Buffer struct {
	text  string
	saved string
	undo  []string
	redo  []string
}

// New creates a buffer whose text and saved snapshot are both set to text,
// so a freshly opened file starts unmodified.
func New(text string) *Buffer {
	return &Buffer{text: text, saved: text}
}

// Text returns the current working text.
func (b *Buffer) Text() string {
	return b.text
}

// SetText replaces the working text, pushing the previous text onto the
// undo stack and clearing the redo stack.
func (b *Buffer) SetText(text string) {
	if text == b.text {
		return
	}
	b.undo = append(b.undo, b.text)
	b.redo = nil
	b.text = text
}

// Modified reports whether the working text differs from the saved snapshot.
func (b *Buffer) Modified() bool {
	return b.text != b.saved
}

// MarkSaved records the current text as the saved snapshot.
func (b *Buffer) MarkSaved() {
	b.saved = b.text
}

// Undo reverts the most recent SetText. It reports whether anything changed.
func (b *Buffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}
	prev := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.redo = append(b.redo, b.text)
	b.text = prev
	return true
}

// Redo reapplies the most recently undone edit.
func (b *Buffer) Redo() bool {
	if len(b.redo) == 0 {
		return false
	}
	next := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.undo = append(b.undo, b.text)
	b.text = next
	return true
}

// DiffStat returns the number of lines added and removed relative to the
// saved snapshot.
func (b *Buffer) DiffStat() (added, removed int) {
	if b.text == b.saved {
		return 0, 0
	}
	edits := myers.ComputeEdits(span.URIFromPath("buffer"), b.saved, b.text)
	unified := gotextdiff.ToUnified("saved", "current", b.saved, edits)
	for _, h := range unified.Hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case gotextdiff.Insert:
				added++
			case gotextdiff.Delete:
				removed++
			}
		}
	}
	return added, removed
}

// Summary describes the unsaved changes, e.g. "+3/-1 lines". It returns
// "no changes" for an unmodified buffer.
func (b *Buffer) Summary() string {
	added, removed := b.DiffStat()
	if added == 0 && removed == 0 {
		return "no changes"
	}
	return fmt.Sprintf("+%d/-%d lines", added, removed)
}

// Find returns the byte offset of the first occurrence of needle at or
// after start, or -1 if there is none.
func (b *Buffer) Find(needle string, start int) int {
	if needle == "" || start < 0 || start > len(b.text) {
		return -1
	}
	i := strings.Index(b.text[start:], needle)
	if i < 0 {
		return -1
	}
	return start + i
}

// Replace substitutes the first occurrence of old at or after start with
// new. It reports whether a replacement happened.
func (b *Buffer) Replace(old, new string, start int) bool {
	i := b.Find(old, start)
	if i < 0 {
		return false
	}
	b.SetText(b.text[:i] + new + b.text[i+len(old):])
	return true
}

// ReplaceAll substitutes every occurrence of old with new as a single
// undoable edit, returning the number of replacements.
func (b *Buffer) ReplaceAll(old, new string) int {
	if old == "" {
		return 0
	}
	n := strings.Count(b.text, old)
	if n == 0 {
		return 0
	}
	b.SetText(strings.ReplaceAll(b.text, old, new))
	return n
}

// LineCol converts a byte offset into 1-based line and column numbers.
func LineCol(text string, offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	line = 1
	col = 1
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
