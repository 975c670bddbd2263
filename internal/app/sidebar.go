package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/emux/internal/ui"
)

const sidebarViewName = "sidebar"

// treeEntry is one visible row of the file tree.
type treeEntry struct {
	path  string
	name  string
	isDir bool
	depth int
}

// sidebar shows the workspace file tree. Directories toggle open on enter;
// files open in the active pane.
type sidebar struct {
	root     string
	expanded map[string]bool
	cursor   int
	entries  []treeEntry
}

func newSidebar(root string) *sidebar {
	return &sidebar{
		root:     root,
		expanded: map[string]bool{root: true},
	}
}

// refresh rebuilds the visible entry list from disk.
func (s *sidebar) refresh() {
	s.entries = s.entries[:0]
	s.walk(s.root, 0)
	if s.cursor >= len(s.entries) {
		s.cursor = len(s.entries) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *sidebar) walk(dir string, depth int) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].IsDir() != children[j].IsDir() {
			return children[i].IsDir()
		}
		return children[i].Name() < children[j].Name()
	})
	for _, c := range children {
		if strings.HasPrefix(c.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, c.Name())
		s.entries = append(s.entries, treeEntry{path: path, name: c.Name(), isDir: c.IsDir(), depth: depth})
		if c.IsDir() && s.expanded[path] {
			s.walk(path, depth+1)
		}
	}
}

// selected returns the entry under the cursor, or nil.
func (s *sidebar) selected() *treeEntry {
	if s.cursor < 0 || s.cursor >= len(s.entries) {
		return nil
	}
	return &s.entries[s.cursor]
}

func (s *sidebar) moveCursor(delta int) {
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= len(s.entries) {
		s.cursor = len(s.entries) - 1
	}
}

func (s *sidebar) toggle(path string) {
	s.expanded[path] = !s.expanded[path]
	s.refresh()
}

// render draws the tree into the sidebar view.
func (s *sidebar) render(v *gocui.View, width int) {
	v.Clear()
	for i, e := range s.entries {
		marker := "  "
		if e.isDir {
			if s.expanded[e.path] {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}
		line := strings.Repeat("  ", e.depth) + marker + e.name
		line = ui.Truncate(line, width)
		if i == s.cursor {
			line = ui.ColorReverse + ui.PadRight(line, width) + ui.ColorReset
		}
		fmt.Fprintln(v, line)
	}
}

// layoutSidebar positions and fills the sidebar view.
func (a *App) layoutSidebar(g *gocui.Gui, l *ui.Layout) error {
	if l == nil {
		g.DeleteView(sidebarViewName)
		return nil
	}
	v, err := g.SetView(sidebarViewName, l.X0, l.Y0, l.X1, l.Y1, 0)
	if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	v.Title = " files "
	v.Frame = true
	a.sidebar.render(v, l.Width())
	return nil
}

// sidebarKeybindings installs the tree's navigation and file operations.
func (a *App) sidebarKeybindings(g *gocui.Gui) error {
	nav := func(delta int) func(*gocui.Gui, *gocui.View) error {
		return func(g *gocui.Gui, v *gocui.View) error {
			a.sidebar.moveCursor(delta)
			return nil
		}
	}
	if err := g.SetKeybinding(sidebarViewName, gocui.KeyArrowDown, gocui.ModNone, nav(1)); err != nil {
		return err
	}
	if err := g.SetKeybinding(sidebarViewName, gocui.KeyArrowUp, gocui.ModNone, nav(-1)); err != nil {
		return err
	}
	if err := g.SetKeybinding(sidebarViewName, 'j', gocui.ModNone, nav(1)); err != nil {
		return err
	}
	if err := g.SetKeybinding(sidebarViewName, 'k', gocui.ModNone, nav(-1)); err != nil {
		return err
	}
	if err := g.SetKeybinding(sidebarViewName, gocui.KeyEnter, gocui.ModNone, a.sidebarOpenHandler); err != nil {
		return err
	}
	if err := g.SetKeybinding(sidebarViewName, 'n', gocui.ModNone, a.sidebarNewFileHandler); err != nil {
		return err
	}
	if err := g.SetKeybinding(sidebarViewName, 'N', gocui.ModNone, a.sidebarNewFolderHandler); err != nil {
		return err
	}
	if err := g.SetKeybinding(sidebarViewName, 'd', gocui.ModNone, a.sidebarDeleteHandler); err != nil {
		return err
	}
	if err := g.SetKeybinding(sidebarViewName, 'r', gocui.ModNone, a.sidebarRenameHandler); err != nil {
		return err
	}
	if err := g.SetKeybinding(sidebarViewName, 'm', gocui.ModNone, a.sidebarMoveHandler); err != nil {
		return err
	}
	return g.SetKeybinding(sidebarViewName, gocui.KeyEsc, gocui.ModNone, func(g *gocui.Gui, v *gocui.View) error {
		a.focusSidebar = false
		return nil
	})
}
