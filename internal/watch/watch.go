// Package watch observes the workspace tree with fsnotify and reports
// changes the editor needs to reconcile against its open tabs.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operations are called on a closed Watcher.
var ErrClosed = errors.New("watch: watcher is closed")

// Op is the kind of change observed on a path.
type Op int

const (
	// Created means a file or directory appeared.
	Created Op = iota
	// Written means a file's content changed.
	Written
	// Removed means a file disappeared.
	Removed
	// RemovedDir means a directory disappeared.
	RemovedDir
)

// String returns a short name for the op.
func (o Op) String() string {
	switch o {
	case Created:
		return "created"
	case Written:
		return "written"
	case Removed:
		return "removed"
	case RemovedDir:
		return "removed-dir"
	default:
		return "unknown"
	}
}

// Notification is one observed change.
type Notification struct {
	Path string
	Op   Op
}

// Handler receives a coalesced batch of notifications. It is called on the
// watcher goroutine; implementations marshal onto their own loop.
type Handler func(batch []Notification)

// Watcher observes a directory tree recursively. fsnotify does not watch
// recursively on its own, so each directory is added individually and new
// directories are picked up as they are created.
type Watcher struct {
	fs       *fsnotify.Watcher
	handler  Handler
	onError  func(error)
	debounce *debouncer

	mu      sync.Mutex
	dirs    map[string]bool
	pending []Notification
	closed  bool
}

// New creates a Watcher rooted at dir and starts delivering batches to
// handler. onError may be nil.
func New(dir string, handler Handler, onError func(error)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:       fs,
		handler:  handler,
		onError:  onError,
		debounce: newDebouncer(DefaultDebounce),
		dirs:     make(map[string]bool),
	}
	if err := w.addTree(dir); err != nil {
		fs.Close()
		return nil, err
	}
	go w.run()
	return w, nil
}

// SetDebounce changes the coalescing window.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce.cancel()
	w.debounce = newDebouncer(d)
}

// Close stops the watcher. Pending notifications are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.debounce.cancel()
	return w.fs.Close()
}

// addTree watches dir and every directory under it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if w.onError != nil {
				w.onError(err)
			}
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			if w.onError != nil {
				w.onError(err)
			}
			return nil
		}
		w.mu.Lock()
		w.dirs[path] = true
		w.mu.Unlock()
		return nil
	})
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	var n Notification
	n.Path = ev.Name

	switch {
	case ev.Op.Has(fsnotify.Create):
		n.Op = Created
		// A new directory has to be watched before anything inside it
		// changes, and everything already inside a moved-in tree has to
		// be picked up too.
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil && w.onError != nil {
				w.onError(err)
			}
		}
	case ev.Op.Has(fsnotify.Write):
		n.Op = Written
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		// The path is gone by the time we see this, so a stat cannot
		// tell file from directory. The dir set we maintain can.
		w.mu.Lock()
		if w.dirs[ev.Name] {
			n.Op = RemovedDir
			for d := range w.dirs {
				if d == ev.Name || isUnder(d, ev.Name) {
					delete(w.dirs, d)
				}
			}
		} else {
			n.Op = Removed
		}
		w.mu.Unlock()
	default:
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = append(w.pending, n)
	deb := w.debounce
	w.mu.Unlock()

	deb.trigger(w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	batch := w.pending
	w.pending = nil
	w.mu.Unlock()

	if len(batch) > 0 && w.handler != nil {
		w.handler(batch)
	}
}

func isUnder(path, dir string) bool {
	return len(path) > len(dir) &&
		path[:len(dir)] == dir &&
		path[len(dir)] == filepath.Separator
}
