// Package ui provides shared rendering utilities for emux.
package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Colors and styles for the TUI
const (
	ColorReset   = "\033[0m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"
	ColorReverse = "\033[7m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorCyan    = "\033[36m"
	ColorWhite   = "\033[37m"
)

// MaxTabWidth caps how much of the tab bar one tab may take.
const MaxTabWidth = 20

// Tab describes one entry in a pane's tab bar.
type Tab struct {
	Title    string
	Modified bool
	Orphaned bool
}

// Label returns the tab's display text. Modified tabs carry a leading
// asterisk; orphaned tabs are marked so the missing backing file is
// visible at a glance.
func (t Tab) Label() string {
	label := t.Title
	if t.Orphaned {
		label += " (deleted)"
	}
	if t.Modified {
		label = "*" + label
	}
	return Truncate(label, MaxTabWidth)
}

// RenderTabBar renders one pane's tabs on a single line, highlighting the
// current tab. The result fits within width.
func RenderTabBar(tabs []Tab, current, width int) string {
	var sb strings.Builder
	used := 0
	for i, tab := range tabs {
		cell := " " + tab.Label() + " "
		w := runewidth.StringWidth(cell)
		if used+w > width {
			break
		}
		if i == current {
			sb.WriteString(ColorReverse + cell + ColorReset)
		} else {
			sb.WriteString(cell)
		}
		used += w
	}
	return sb.String()
}

// RenderStatusBar creates the bottom status bar content: cursor position
// and file info on the left, version on the right.
func RenderStatusBar(line, col int, fileType, encoding, version string, width int) string {
	left := fmt.Sprintf("Ln %d, Col %d │ %s │ %s", line, col, encoding, fileType)
	lw := runewidth.StringWidth(left)
	if width-lw <= runewidth.StringWidth(version) {
		return Truncate(left, width)
	}
	return left + PadLeft(version, width-lw)
}

// Truncate shortens a string to fit in the given width.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// PadRight pads a string to the right.
func PadRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-sw)
}

// PadLeft pads a string to the left.
func PadLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "")
	}
	return strings.Repeat(" ", width-sw) + s
}

// ModalDimensions calculates centered modal dimensions.
func ModalDimensions(maxX, maxY, width, height int) (x0, y0, x1, y1 int) {
	x0 = (maxX - width) / 2
	y0 = (maxY - height) / 2
	x1 = x0 + width
	y1 = y0 + height
	return
}
