package session

import (
	"errors"
	"fmt"
	"io"
	"log"
)

// ErrNotFound is returned when an operation references a pane or slot that
// does not exist. Failed operations are strict no-ops: no partial mutation.
var ErrNotFound = errors.New("session: not found")

// ErrCancelled is returned when the user backs out of a save-as picker.
// Callers treat it exactly like a Cancel prompt decision.
var ErrCancelled = errors.New("session: cancelled")

// debugLog receives diagnostics for defensive conditions (stale IDs, foreign
// drag payloads). Discarded by default; a TUI cannot log to stdout.
var debugLog = log.New(io.Discard, "", log.LstdFlags)

// SetDebugLog redirects session diagnostics, typically to a file under the
// config data directory.
func SetDebugLog(l *log.Logger) {
	debugLog = l
}

// DebugLogf writes to the session diagnostics log. Other packages in the
// program share it so all diagnostics land in one file.
func DebugLogf(format string, args ...any) {
	debugLog.Printf(format, args...)
}

func paneNotFound(id PaneID) error {
	debugLog.Printf("session: pane %d not found", id)
	return fmt.Errorf("%w: pane %d", ErrNotFound, id)
}

func slotNotFound(id PaneID, index int) error {
	debugLog.Printf("session: slot %d in pane %d not found", index, id)
	return fmt.Errorf("%w: pane %d slot %d", ErrNotFound, id, index)
}
