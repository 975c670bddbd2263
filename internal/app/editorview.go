package app

import (
	"fmt"
	"strings"

	"github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/emux/internal/editor"
	"github.com/abdullathedruid/emux/internal/session"
	"github.com/abdullathedruid/emux/internal/ui"
)

// paneViewName names the gocui view for one editor pane.
func paneViewName(id session.PaneID) string {
	return fmt.Sprintf("pane-%d", id)
}

// cursorFor returns the remembered cursor offset for a buffer, clamped to
// its current text.
func (a *App) cursorFor(buf session.Buffer) int {
	return editor.Clamp(buf.Text(), a.cursors[buf])
}

// setCursor remembers the cursor offset for a buffer.
func (a *App) setCursor(buf session.Buffer, offset int) {
	a.cursors[buf] = offset
}

// layoutPanes positions one view per pane and renders each pane's tab bar
// and current buffer.
func (a *App) layoutPanes(g *gocui.Gui, layouts []ui.Layout) error {
	panes := a.reg.Panes()
	seen := make(map[string]bool, len(panes))

	for i, p := range panes {
		if i >= len(layouts) {
			break
		}
		name := paneViewName(p.ID())
		seen[name] = true
		l := layouts[i]

		v, err := g.SetView(name, l.X0, l.Y0, l.X1, l.Y1, 0)
		if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}

		active := p.ID() == a.reg.ActivePane()
		ui.ConfigurePaneView(v, a.paneTitle(p), active, a.activeFrame)
		v.Editor = gocui.EditorFunc(a.editBuffer)
		a.renderPane(v, p, l)
	}

	// Views for closed panes linger in gocui until deleted.
	for _, name := range a.paneViews {
		if !seen[name] {
			g.DeleteView(name)
		}
	}
	a.paneViews = a.paneViews[:0]
	for name := range seen {
		a.paneViews = append(a.paneViews, name)
	}

	if !a.modalVisible() {
		if _, err := g.SetCurrentView(paneViewName(a.reg.ActivePane())); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) paneTitle(p *session.Pane) string {
	if s := p.CurrentSlot(); s != nil {
		return s.Title()
	}
	return "empty"
}

// renderPane draws the tab bar on the first line and the current buffer
// below it.
func (a *App) renderPane(v *gocui.View, p *session.Pane, l ui.Layout) {
	v.Clear()

	tabs := make([]ui.Tab, 0, p.SlotCount())
	for _, s := range p.Slots() {
		tabs = append(tabs, ui.Tab{Title: s.Title(), Modified: s.Modified(), Orphaned: s.Orphaned()})
	}
	fmt.Fprintln(v, ui.RenderTabBar(tabs, p.Current(), l.Width()))

	s := p.CurrentSlot()
	if s == nil {
		fmt.Fprintln(v, ui.ColorDim+"no open files"+ui.ColorReset)
		return
	}
	fmt.Fprint(v, a.renderBuffer(s.Buffer(), p.ID() == a.reg.ActivePane()))
}

// renderBuffer expands tabs and marks the cursor on the active pane.
func (a *App) renderBuffer(buf session.Buffer, active bool) string {
	text := buf.Text()
	if !active {
		return expandTabs(text, a.config.TabWidth)
	}

	off := a.cursorFor(buf)
	marked := text[:off] + ui.ColorReverse + cursorCell(text, off) + ui.ColorReset + afterCursor(text, off)
	return expandTabs(marked, a.config.TabWidth)
}

// cursorCell is the character shown under the cursor.
func cursorCell(text string, off int) string {
	if off >= len(text) || text[off] == '\n' {
		return " "
	}
	next := editor.NextOffset(text, off)
	return text[off:next]
}

func afterCursor(text string, off int) string {
	if off >= len(text) {
		return ""
	}
	if text[off] == '\n' {
		return text[off:]
	}
	return text[editor.NextOffset(text, off):]
}

func expandTabs(text string, width int) string {
	if width <= 0 {
		width = 4
	}
	return strings.ReplaceAll(text, "\t", strings.Repeat(" ", width))
}

// editBuffer routes keystrokes on a pane view into the current buffer.
func (a *App) editBuffer(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	if a.flowBusy {
		return false
	}
	p := a.reg.Pane(a.reg.ActivePane())
	if p == nil {
		return false
	}
	s := p.CurrentSlot()
	if s == nil {
		return false
	}
	buf := s.Buffer()
	text := buf.Text()
	off := a.cursorFor(buf)

	switch {
	case key == gocui.KeyArrowLeft:
		a.setCursor(buf, editor.PrevOffset(text, off))
	case key == gocui.KeyArrowRight:
		a.setCursor(buf, editor.NextOffset(text, off))
	case key == gocui.KeyArrowUp:
		a.setCursor(buf, editor.UpOffset(text, off))
	case key == gocui.KeyArrowDown:
		a.setCursor(buf, editor.DownOffset(text, off))
	case key == gocui.KeyHome:
		a.setCursor(buf, editor.HomeOffset(text, off))
	case key == gocui.KeyEnd:
		a.setCursor(buf, editor.EndOffset(text, off))
	case key == gocui.KeyBackspace || key == gocui.KeyBackspace2:
		next, cur := editor.DeleteBefore(text, off)
		buf.SetText(next)
		a.setCursor(buf, cur)
	case key == gocui.KeyDelete:
		buf.SetText(editor.DeleteAt(text, off))
	case key == gocui.KeyEnter:
		next, cur := editor.InsertAt(text, off, "\n")
		buf.SetText(next)
		a.setCursor(buf, cur)
	case key == gocui.KeyTab:
		next, cur := editor.InsertAt(text, off, "\t")
		buf.SetText(next)
		a.setCursor(buf, cur)
	case key == gocui.KeySpace:
		next, cur := editor.InsertAt(text, off, " ")
		buf.SetText(next)
		a.setCursor(buf, cur)
	case ch != 0 && mod == gocui.ModNone:
		next, cur := editor.InsertAt(text, off, string(ch))
		buf.SetText(next)
		a.setCursor(buf, cur)
	default:
		return false
	}

	a.render(a.gui)
	return true
}
