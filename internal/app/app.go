// Package app provides the main application orchestration for emux.
package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/emux/internal/config"
	"github.com/abdullathedruid/emux/internal/editor"
	"github.com/abdullathedruid/emux/internal/fileio"
	"github.com/abdullathedruid/emux/internal/session"
	"github.com/abdullathedruid/emux/internal/ui"
	"github.com/abdullathedruid/emux/internal/watch"
)

// App is the main application.
type App struct {
	gui     *gocui.Gui
	config  *config.Config
	workdir string

	reg         *session.Registry
	closer      *session.Closer
	reconciler  *session.Reconciler
	coordinator *session.Coordinator
	watcher     *watch.Watcher

	prompts *modalPrompter
	input   *inputModal
	sidebar *sidebar

	activeFrame gocui.Attribute

	// cursors remembers the edit position per open buffer.
	cursors map[session.Buffer]int

	// paneViews tracks view names from the previous layout pass so views
	// for closed panes get deleted.
	paneViews []string

	showSidebar  bool
	focusSidebar bool
	statusErr    error

	// post schedules fn on the UI loop. Everything that touches session
	// state or the fields above runs through it.
	post func(fn func())

	// flowBusy serializes confirmation flows: while a flow goroutine owns
	// the session state, every other entry point backs off, including the
	// layout pass. Set and cleared on the UI loop; the loop's queue orders
	// the flow's mutations before any later read.
	flowBusy bool

	quitting atomic.Bool
}

// New creates a new App rooted at workdir.
func New(cfg *config.Config, workdir string) (*App, error) {
	abs, err := filepath.Abs(workdir)
	if err != nil {
		return nil, err
	}

	modalFrame := config.ColorAttribute(cfg.Theme.Colors.ModalFrame)
	a := &App{
		config:      cfg,
		workdir:     abs,
		cursors:     make(map[session.Buffer]int),
		sidebar:     newSidebar(abs),
		prompts:     newModalPrompter(modalFrame),
		input:       newInputModal(modalFrame),
		activeFrame: config.ColorAttribute(cfg.Theme.Colors.ActiveFrame),
	}
	if cfg.ShowSidebar != nil {
		a.showSidebar = *cfg.ShowSidebar
	}

	if f, err := os.OpenFile(cfg.LogFile(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
		session.SetDebugLog(log.New(f, "", log.LstdFlags))
	}

	a.reg = session.New(func(text string) session.Buffer {
		return editor.New(text)
	})
	a.closer = session.NewCloser(a.reg, a.prompts, fileio.WriteFile, a.pickSavePath)
	a.closer.SetSummary(func(s *session.Slot) string {
		if b, ok := s.Buffer().(*editor.Buffer); ok {
			return fmt.Sprintf("%s (%s)", s.Title(), b.Summary())
		}
		return s.Title()
	})
	a.reconciler = session.NewReconciler(a.reg, a.prompts, fileio.Stat)
	a.coordinator = session.NewCoordinator(a.reg)

	// Drop cursor state for buffers that leave the registry.
	a.reg.OnEvent(func(ev session.Event) {
		if ev.Kind == session.EventSlotClosed {
			a.pruneCursors()
		}
	})

	a.sidebar.refresh()
	return a, nil
}

// pruneCursors drops cursor entries for buffers no longer in any pane.
func (a *App) pruneCursors() {
	live := make(map[session.Buffer]bool)
	for _, p := range a.reg.Panes() {
		for _, s := range p.Slots() {
			live[s.Buffer()] = true
		}
	}
	for buf := range a.cursors {
		if !live[buf] {
			delete(a.cursors, buf)
		}
	}
}

// pickSavePath asks for a destination when saving an untitled buffer.
func (a *App) pickSavePath(suggested string) (string, bool) {
	name, ok := a.input.Ask("Save As", suggested)
	if !ok {
		return "", false
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(a.workdir, name)
	}
	return name, true
}

// initGui initializes the gocui GUI.
func (a *App) initGui() error {
	g, err := gocui.NewGui(gocui.NewGuiOpts{})
	if err != nil {
		return fmt.Errorf("initializing gui: %w", err)
	}

	a.gui = g
	a.prompts.gui = g
	a.input.gui = g
	a.post = func(fn func()) {
		g.Update(func(*gocui.Gui) error {
			fn()
			return nil
		})
	}
	a.gui.SetManagerFunc(a.layout)
	a.gui.Mouse = false
	a.gui.Cursor = false

	if err := a.setupKeybindings(); err != nil {
		a.gui.Close()
		return err
	}
	return nil
}

// Run runs the application until quit.
func (a *App) Run() error {
	if err := a.initGui(); err != nil {
		return err
	}
	defer a.gui.Close()

	w, err := watch.New(a.workdir, a.handleWatchBatch, func(err error) {
		session.DebugLogf("watch: %v", err)
	})
	if err != nil {
		return err
	}
	if a.config.DebounceMS > 0 {
		w.SetDebounce(time.Duration(a.config.DebounceMS) * time.Millisecond)
	}
	a.watcher = w
	defer a.watcher.Close()

	if err := a.gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// handleWatchBatch marshals watcher notifications onto the UI loop and
// replays them through the reconciler. Skipped while a flow owns the
// session state; the sidebar refresh still reflects the disk change.
func (a *App) handleWatchBatch(batch []watch.Notification) {
	if a.quitting.Load() {
		return
	}
	a.post(func() {
		if !a.flowBusy {
			for _, n := range batch {
				switch n.Op {
				case watch.Removed:
					a.reconcileRemoved(n.Path)
				case watch.RemovedDir:
					a.reconciler.OnDirectoryDeleted(n.Path)
				}
			}
		}
		a.sidebar.refresh()
	})
}

// reconcileRemoved applies delete semantics unless the file is actually
// still there (editors and build tools often replace files by rename).
func (a *App) reconcileRemoved(path string) {
	if exists, _ := fileio.Stat(path); exists {
		return
	}
	a.reconciler.OnDeleted(path)
}

// layout is the gocui manager function.
func (a *App) layout(g *gocui.Gui) error {
	// While a flow goroutine owns the session state, nothing here may read
	// it. The pane and status views keep their previous content until the
	// flow hands the state back; modals still lay out on top.
	if !a.flowBusy {
		maxX, maxY := g.Size()
		screen := ui.CalculateScreen(a.reg.PaneCount(), maxX, maxY, a.showSidebar)

		if err := a.layoutSidebar(g, screen.Sidebar); err != nil {
			return err
		}
		if err := a.layoutPanes(g, screen.Panes); err != nil {
			return err
		}
		if err := a.layoutStatusBar(g, screen.Status); err != nil {
			return err
		}
	}

	// Modals stack above everything else.
	if err := a.input.Layout(g); err != nil {
		return err
	}
	if err := a.prompts.Layout(g); err != nil {
		return err
	}

	if a.focusSidebar && !a.modalVisible() && a.showSidebar {
		if _, err := g.SetCurrentView(sidebarViewName); err != nil {
			return err
		}
	}
	return nil
}

// render forces a redraw outside of layout-triggering events.
func (a *App) render(g *gocui.Gui) {
	g.Update(func(g *gocui.Gui) error { return nil })
}

func (a *App) modalVisible() bool {
	return a.prompts.visible() || a.input.visible()
}

// runFlow starts a confirmation flow on its own goroutine. Flows block on
// modal decisions, so they cannot run on the UI loop; the busy flag keeps
// every reader and handler on the loop away from the session state until
// the flow posts it back. Must be called on the UI loop.
func (a *App) runFlow(fn func()) error {
	if a.flowBusy || a.modalVisible() {
		return nil
	}
	a.flowBusy = true
	a.statusErr = nil
	go func() {
		fn()
		a.post(func() {
			a.flowBusy = false
		})
	}()
	return nil
}

// onLoop runs fn on the UI loop and waits for it.
func (a *App) onLoop(fn func()) {
	done := make(chan struct{})
	a.post(func() {
		fn()
		close(done)
	})
	<-done
}

// quit closes every pane, prompting per modified tab. Cancel keeps the
// application running.
func (a *App) quit() error {
	return a.runFlow(func() {
		proceed, err := a.closer.CloseWindow()
		if err != nil {
			a.setStatusError(err)
			return
		}
		if !proceed {
			return
		}
		a.quitting.Store(true)
		a.gui.Update(func(g *gocui.Gui) error {
			return gocui.ErrQuit
		})
	})
}
