package session

import (
	"path/filepath"
	"strings"

	"github.com/abdullathedruid/emux/internal/prompt"
)

// StatFunc reports whether a path exists on disk and whether it is a
// directory. Implemented by the fileio collaborator.
type StatFunc func(path string) (exists, isDir bool)

// Reconciler applies external filesystem notifications (from the file tree
// or the watcher) to the registry and index. It owns no knowledge of how
// the notifications were produced.
type Reconciler struct {
	reg     *Registry
	prompts prompt.Prompter
	stat    StatFunc
}

// NewReconciler wires the reconciler to its collaborators.
func NewReconciler(reg *Registry, prompts prompt.Prompter, stat StatFunc) *Reconciler {
	return &Reconciler{reg: reg, prompts: prompts, stat: stat}
}

// OnRenamed re-keys every open slot at oldPath to newPath and updates tab
// labels. Renaming does not touch content, so no prompt is shown regardless
// of modified state.
func (r *Reconciler) OnRenamed(oldPath, newPath string) {
	r.reg.Rekey(oldPath, newPath)
}

// OnDeleted resolves every slot open at path: unmodified slots close with
// no prompt; modified slots are orphaned (path cleared, content retained)
// so no data is silently lost.
func (r *Reconciler) OnDeleted(path string) {
	for {
		locs := r.reg.Locations(path)
		if len(locs) == 0 {
			return
		}
		loc := locs[0]
		slot, err := r.reg.SlotAt(loc)
		if err != nil {
			debugLog.Printf("reconcile: stale location %v for %s", loc, path)
			return
		}
		if slot.Modified() {
			if err := r.reg.Orphan(loc); err != nil {
				return
			}
		} else {
			if err := r.reg.RemoveSlot(loc.Pane, loc.Slot); err != nil {
				return
			}
		}
	}
}

// OnDirectoryDeleted applies delete semantics to every indexed path under
// dirPath. Unrelated paths are untouched; no matching slot is left pointing
// at a deleted path.
func (r *Reconciler) OnDirectoryDeleted(dirPath string) {
	prefix := withSeparator(dirPath)
	for _, p := range r.reg.Paths() {
		if strings.HasPrefix(p, prefix) {
			r.OnDeleted(p)
		}
	}
}

// OnMoved handles a tree drag-drop of oldPath to newPath, called before the
// filesystem move is performed. It reports whether the caller should
// proceed: when the destination already exists as a file the user must
// confirm the overwrite, and when both sides are directories the user must
// confirm a merge. On acceptance every descendant's locations are re-keyed
// rather than treated as delete+create, preserving open-slot continuity.
func (r *Reconciler) OnMoved(oldPath, newPath string) bool {
	_, oldIsDir := r.stat(oldPath)
	newExists, newIsDir := r.stat(newPath)

	switch {
	case newExists && oldIsDir && newIsDir:
		if r.prompts.Prompt(prompt.MergeDirectories, newPath) != prompt.DecisionMerge {
			return false
		}
		r.rekeyTree(oldPath, newPath)
	case newExists && !newIsDir:
		if r.prompts.Prompt(prompt.Overwrite, newPath) != prompt.DecisionOverwrite {
			return false
		}
		// The destination's backing content is being replaced: resolve any
		// slots open at newPath before the source takes over its key.
		r.OnDeleted(newPath)
		r.reg.Rekey(oldPath, newPath)
	case oldIsDir:
		r.rekeyTree(oldPath, newPath)
	default:
		r.reg.Rekey(oldPath, newPath)
	}
	return true
}

// rekeyTree re-keys oldDir itself plus every indexed descendant.
func (r *Reconciler) rekeyTree(oldDir, newDir string) {
	prefix := withSeparator(oldDir)
	for _, p := range r.reg.Paths() {
		if strings.HasPrefix(p, prefix) {
			r.reg.Rekey(p, filepath.Join(newDir, p[len(prefix):]))
		}
	}
}

func withSeparator(dir string) string {
	sep := string(filepath.Separator)
	if strings.HasSuffix(dir, sep) {
		return dir
	}
	return dir + sep
}
