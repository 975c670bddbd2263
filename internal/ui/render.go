// Package ui provides gocui view management and rendering utilities.
package ui

import (
	"fmt"

	"github.com/jesseduffield/gocui"
)

// ConfigurePaneView sets up a gocui view for an editor pane. activeFrame
// colors the border of the focused pane.
func ConfigurePaneView(v *gocui.View, title string, isActive bool, activeFrame gocui.Attribute) {
	v.Title = " " + title + " "
	if isActive {
		v.FrameRunes = []rune{'━', '┃', '┏', '┓', '┗', '┛'}
		v.FrameColor = activeFrame
	} else {
		v.FrameRunes = []rune{'─', '│', '┌', '┐', '└', '┘'}
		v.FrameColor = gocui.ColorDefault
	}
	v.Frame = true
	v.Wrap = false
	v.Editable = isActive
}

// ConfigurePromptView sets up a confirmation modal view.
func ConfigurePromptView(v *gocui.View, title, message, choices string, frame gocui.Attribute) {
	v.Title = " " + title + " "
	v.Frame = true
	v.FrameRunes = []rune{'━', '┃', '┏', '┓', '┗', '┛'}
	v.FrameColor = frame
	v.Wrap = true
	v.Clear()
	fmt.Fprintf(v, " %s\n\n %s", message, choices)
}

// ConfigureInputView sets up a single-line text input modal.
func ConfigureInputView(v *gocui.View, title, buffer string, frame gocui.Attribute) {
	v.Title = " " + title + " "
	v.Frame = true
	v.FrameRunes = []rune{'━', '┃', '┏', '┓', '┗', '┛'}
	v.FrameColor = frame
	v.Editable = true
	v.Clear()
	fmt.Fprintf(v, " %s", buffer)
}
