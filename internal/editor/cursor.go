package editor

import (
	"strings"
	"unicode/utf8"
)

// Clamp bounds offset to a valid position within text.
func Clamp(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(text) {
		return len(text)
	}
	return offset
}

// PrevOffset returns the offset one rune to the left.
func PrevOffset(text string, offset int) int {
	offset = Clamp(text, offset)
	if offset == 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(text[:offset])
	return offset - size
}

// NextOffset returns the offset one rune to the right.
func NextOffset(text string, offset int) int {
	offset = Clamp(text, offset)
	if offset == len(text) {
		return offset
	}
	_, size := utf8.DecodeRuneInString(text[offset:])
	return offset + size
}

// lineStart returns the offset of the first byte of the line containing
// offset.
func lineStart(text string, offset int) int {
	return strings.LastIndexByte(text[:offset], '\n') + 1
}

// lineEnd returns the offset just past the last byte of the line
// containing offset (before its newline, if any).
func lineEnd(text string, offset int) int {
	i := strings.IndexByte(text[offset:], '\n')
	if i < 0 {
		return len(text)
	}
	return offset + i
}

// UpOffset moves the offset one line up, keeping the column where the
// shorter line allows.
func UpOffset(text string, offset int) int {
	offset = Clamp(text, offset)
	start := lineStart(text, offset)
	if start == 0 {
		return offset
	}
	col := offset - start
	prevStart := lineStart(text, start-1)
	prevEnd := start - 1
	if prevStart+col > prevEnd {
		return prevEnd
	}
	return prevStart + col
}

// DownOffset moves the offset one line down, keeping the column where the
// shorter line allows.
func DownOffset(text string, offset int) int {
	offset = Clamp(text, offset)
	end := lineEnd(text, offset)
	if end == len(text) {
		return offset
	}
	col := offset - lineStart(text, offset)
	nextStart := end + 1
	nextEnd := lineEnd(text, nextStart)
	if nextStart+col > nextEnd {
		return nextEnd
	}
	return nextStart + col
}

// HomeOffset moves the offset to the start of its line.
func HomeOffset(text string, offset int) int {
	return lineStart(text, Clamp(text, offset))
}

// EndOffset moves the offset to the end of its line.
func EndOffset(text string, offset int) int {
	return lineEnd(text, Clamp(text, offset))
}

// InsertAt inserts s at offset and returns the new text and the offset
// just past the insertion.
func InsertAt(text string, offset int, s string) (string, int) {
	offset = Clamp(text, offset)
	return text[:offset] + s + text[offset:], offset + len(s)
}

// DeleteBefore removes the rune before offset and returns the new text and
// offset. At the start of the text it is a no-op.
func DeleteBefore(text string, offset int) (string, int) {
	offset = Clamp(text, offset)
	prev := PrevOffset(text, offset)
	if prev == offset {
		return text, offset
	}
	return text[:prev] + text[offset:], prev
}

// DeleteAt removes the rune at offset. At the end of the text it is a
// no-op.
func DeleteAt(text string, offset int) string {
	offset = Clamp(text, offset)
	next := NextOffset(text, offset)
	if next == offset {
		return text
	}
	return text[:offset] + text[next:]
}
