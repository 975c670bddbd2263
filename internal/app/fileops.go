package app

import (
	"path/filepath"

	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/emux/internal/fileio"
)

// sidebarOpenHandler toggles directories and opens files in the active
// pane.
func (a *App) sidebarOpenHandler(g *gocui.Gui, v *gocui.View) error {
	e := a.sidebar.selected()
	if e == nil {
		return nil
	}
	if e.isDir {
		a.sidebar.toggle(e.path)
		return nil
	}
	return a.openFile(e.path)
}

// openFile loads path into the active pane, focusing an existing tab when
// the pane already shows it.
func (a *App) openFile(path string) error {
	text, err := fileio.ReadFile(path)
	if err != nil {
		a.setStatusError(err)
		return nil
	}
	if _, err := a.reg.OpenFile(path, a.reg.ActivePane(), text); err != nil {
		return err
	}
	a.focusSidebar = false
	return nil
}

// entryDir returns the directory new entries are created in: the selected
// directory itself, or the parent of a selected file.
func (a *App) entryDir() string {
	e := a.sidebar.selected()
	if e == nil {
		return a.workdir
	}
	if e.isDir {
		return e.path
	}
	return filepath.Dir(e.path)
}

func (a *App) sidebarNewFileHandler(g *gocui.Gui, v *gocui.View) error {
	dir := a.entryDir()
	return a.runFlow(func() {
		name, ok := a.input.Ask("New File", "")
		if !ok {
			return
		}
		path := filepath.Join(dir, name)
		if err := fileio.WriteFile(path, ""); err != nil {
			a.setStatusError(err)
			return
		}
		a.onLoop(func() {
			a.sidebar.refresh()
			a.openFile(path)
		})
	})
}

func (a *App) sidebarNewFolderHandler(g *gocui.Gui, v *gocui.View) error {
	dir := a.entryDir()
	return a.runFlow(func() {
		name, ok := a.input.Ask("New Folder", "")
		if !ok {
			return
		}
		if err := fileio.MakeDir(filepath.Join(dir, name)); err != nil {
			a.setStatusError(err)
			return
		}
		a.onLoop(a.sidebar.refresh)
	})
}

// sidebarDeleteHandler deletes the selected entry, then lets the
// reconciler resolve any tabs that were open on it.
func (a *App) sidebarDeleteHandler(g *gocui.Gui, v *gocui.View) error {
	e := a.sidebar.selected()
	if e == nil {
		return nil
	}
	path, isDir := e.path, e.isDir
	return a.runFlow(func() {
		if isDir {
			if err := fileio.DeleteTree(path); err != nil {
				a.setStatusError(err)
				return
			}
			a.reconciler.OnDirectoryDeleted(path)
		} else {
			if err := fileio.Delete(path); err != nil {
				a.setStatusError(err)
				return
			}
			a.reconciler.OnDeleted(path)
		}
		a.onLoop(a.sidebar.refresh)
	})
}

// sidebarRenameHandler renames the selected entry in place.
func (a *App) sidebarRenameHandler(g *gocui.Gui, v *gocui.View) error {
	e := a.sidebar.selected()
	if e == nil {
		return nil
	}
	path, isDir := e.path, e.isDir
	return a.runFlow(func() {
		name, ok := a.input.Ask("Rename", filepath.Base(path))
		if !ok || name == filepath.Base(path) {
			return
		}
		newPath := filepath.Join(filepath.Dir(path), name)
		if exists, _ := fileio.Stat(newPath); !exists && !isDir {
			// Plain rename: no conflict to arbitrate, just re-key open tabs.
			if err := fileio.Move(path, newPath); err != nil {
				a.setStatusError(err)
				return
			}
			a.reconciler.OnRenamed(path, newPath)
		} else {
			if !a.reconciler.OnMoved(path, newPath) {
				return
			}
			if err := fileio.Move(path, newPath); err != nil {
				a.setStatusError(err)
				return
			}
		}
		a.onLoop(a.sidebar.refresh)
	})
}

// sidebarMoveHandler moves the selected entry to another directory,
// consulting the reconciler about overwrites and merges first.
func (a *App) sidebarMoveHandler(g *gocui.Gui, v *gocui.View) error {
	e := a.sidebar.selected()
	if e == nil {
		return nil
	}
	path := e.path
	return a.runFlow(func() {
		dest, ok := a.input.Ask("Move To", filepath.Dir(path))
		if !ok {
			return
		}
		newPath := filepath.Join(dest, filepath.Base(path))
		if newPath == path {
			return
		}
		if !a.reconciler.OnMoved(path, newPath) {
			return
		}
		if err := fileio.Move(path, newPath); err != nil {
			a.setStatusError(err)
			return
		}
		a.onLoop(a.sidebar.refresh)
	})
}
