package app

import (
	"errors"
	"fmt"

	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/emux/internal/config"
	"github.com/abdullathedruid/emux/internal/editor"
	"github.com/abdullathedruid/emux/internal/fileio"
	"github.com/abdullathedruid/emux/internal/session"
)

// setupKeybindings installs the configured global bindings plus the
// modal and sidebar handlers.
func (a *App) setupKeybindings() error {
	g := a.gui

	bind := func(spec string, handler func(*gocui.Gui, *gocui.View) error) error {
		key, err := config.ParseKey(spec)
		if err != nil {
			return fmt.Errorf("keybinding %q: %w", spec, err)
		}
		return g.SetKeybinding("", key.Value, key.Mod, handler)
	}

	keys := a.config.Keys
	bindings := []struct {
		spec    string
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{keys.Quit, func(g *gocui.Gui, v *gocui.View) error { return a.quit() }},
		{keys.NewFile, a.newFileHandler},
		{keys.Save, a.saveHandler},
		{keys.SaveAs, a.saveAsHandler},
		{keys.CloseTab, a.closeTabHandler},
		{keys.NextTab, a.cycleTabHandler(1)},
		{keys.PrevTab, a.cycleTabHandler(-1)},
		{keys.SplitHorizontal, a.splitHandler(session.Horizontal)},
		{keys.SplitVertical, a.splitHandler(session.Vertical)},
		{keys.NextPane, a.nextPaneHandler},
		{keys.MoveTab, a.moveTabHandler},
		{keys.ToggleSidebar, a.toggleSidebarHandler},
		{keys.Find, a.findHandler},
		{keys.Undo, a.undoHandler},
		{keys.Redo, a.redoHandler},
	}
	for _, b := range bindings {
		if err := bind(b.spec, b.handler); err != nil {
			return err
		}
	}

	if err := a.prompts.Keybindings(g); err != nil {
		return err
	}
	return a.sidebarKeybindings(g)
}

// busy reports whether session state is off limits to UI handlers.
func (a *App) busy() bool {
	return a.flowBusy || a.modalVisible()
}

func (a *App) newFileHandler(g *gocui.Gui, v *gocui.View) error {
	if a.busy() {
		return nil
	}
	_, err := a.reg.NewUntitled(a.reg.ActivePane())
	return err
}

func (a *App) saveHandler(g *gocui.Gui, v *gocui.View) error {
	return a.runFlow(func() {
		if err := a.closer.SaveActive(); err != nil && !errors.Is(err, session.ErrCancelled) {
			a.setStatusError(err)
		}
	})
}

// saveAsHandler always asks for a destination, even when the buffer
// already has a path.
func (a *App) saveAsHandler(g *gocui.Gui, v *gocui.View) error {
	return a.runFlow(func() {
		loc, ok := a.reg.SaveContext()
		if !ok {
			return
		}
		slot, err := a.reg.SlotAt(loc)
		if err != nil {
			return
		}
		path, ok := a.pickSavePath(slot.Title())
		if !ok {
			return
		}
		if err := fileio.WriteFile(path, slot.Buffer().Text()); err != nil {
			a.setStatusError(err)
			return
		}
		if err := a.reg.AdoptPath(loc, path); err != nil {
			a.setStatusError(err)
			return
		}
		slot.Buffer().MarkSaved()
		a.onLoop(a.sidebar.refresh)
	})
}

func (a *App) closeTabHandler(g *gocui.Gui, v *gocui.View) error {
	p := a.reg.Pane(a.reg.ActivePane())
	if p == nil || p.CurrentSlot() == nil {
		return nil
	}
	pane, index := p.ID(), p.Current()
	return a.runFlow(func() {
		if _, err := a.closer.CloseSlot(pane, index); err != nil {
			a.setStatusError(err)
		}
	})
}

// cycleTabHandler moves the active pane's shown tab by delta, wrapping.
func (a *App) cycleTabHandler(delta int) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		if a.busy() {
			return nil
		}
		p := a.reg.Pane(a.reg.ActivePane())
		if p == nil || p.SlotCount() == 0 {
			return nil
		}
		n := p.SlotCount()
		next := ((p.Current()+delta)%n + n) % n
		return a.reg.FocusSlot(p.ID(), next)
	}
}

func (a *App) splitHandler(o session.Orientation) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		if a.busy() {
			return nil
		}
		a.reg.SplitActivePane(o)
		return nil
	}
}

// nextPaneHandler moves focus to the next pane in creation order.
func (a *App) nextPaneHandler(g *gocui.Gui, v *gocui.View) error {
	if a.busy() {
		return nil
	}
	panes := a.reg.Panes()
	for i, p := range panes {
		if p.ID() == a.reg.ActivePane() {
			return a.reg.SetActivePane(panes[(i+1)%len(panes)].ID())
		}
	}
	return nil
}

// moveTabHandler sends the shown tab to the next pane, appending it after
// that pane's tabs. Focus follows the tab.
func (a *App) moveTabHandler(g *gocui.Gui, v *gocui.View) error {
	if a.busy() {
		return nil
	}
	panes := a.reg.Panes()
	if len(panes) < 2 {
		return nil
	}
	src := a.reg.Pane(a.reg.ActivePane())
	if src == nil || src.CurrentSlot() == nil {
		return nil
	}
	var target *session.Pane
	for i, p := range panes {
		if p.ID() == src.ID() {
			target = panes[(i+1)%len(panes)]
			break
		}
	}
	if target == nil {
		return nil
	}
	payload, err := a.coordinator.BeginDrag(src.ID(), src.Current())
	if err != nil {
		return err
	}
	if err := a.coordinator.HandleDrop(payload, target.ID(), target.SlotCount()); err != nil {
		return err
	}
	return a.reg.SetActivePane(target.ID())
}

func (a *App) toggleSidebarHandler(g *gocui.Gui, v *gocui.View) error {
	if a.modalVisible() {
		return nil
	}
	if a.showSidebar && !a.focusSidebar {
		// Visible but unfocused: move focus instead of hiding.
		a.focusSidebar = true
		return nil
	}
	a.showSidebar = !a.showSidebar
	a.focusSidebar = false
	return nil
}

// findHandler asks for a needle and moves the cursor to the next match
// after it, wrapping to the top of the buffer.
func (a *App) findHandler(g *gocui.Gui, v *gocui.View) error {
	p := a.reg.Pane(a.reg.ActivePane())
	if p == nil || p.CurrentSlot() == nil {
		return nil
	}
	return a.runFlow(func() {
		needle, ok := a.input.Ask("Find", "")
		if !ok {
			return
		}
		s := p.CurrentSlot()
		if s == nil {
			return
		}
		buf := s.Buffer()
		b, ok := buf.(*editor.Buffer)
		if !ok {
			return
		}
		at := b.Find(needle, a.cursorFor(buf)+1)
		if at < 0 {
			at = b.Find(needle, 0)
		}
		if at < 0 {
			a.setStatusError(fmt.Errorf("no match for %q", needle))
			return
		}
		a.setCursor(buf, at)
	})
}

func (a *App) undoHandler(g *gocui.Gui, v *gocui.View) error {
	return a.applyHistory((*editor.Buffer).Undo)
}

func (a *App) redoHandler(g *gocui.Gui, v *gocui.View) error {
	return a.applyHistory((*editor.Buffer).Redo)
}

func (a *App) applyHistory(step func(*editor.Buffer) bool) error {
	if a.busy() {
		return nil
	}
	p := a.reg.Pane(a.reg.ActivePane())
	if p == nil || p.CurrentSlot() == nil {
		return nil
	}
	buf := p.CurrentSlot().Buffer()
	b, ok := buf.(*editor.Buffer)
	if !ok {
		return nil
	}
	if step(b) {
		a.setCursor(buf, a.cursorFor(buf))
	}
	return nil
}
