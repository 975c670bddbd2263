// Package fileio wraps disk access for the editor, classifying failures
// into stable kinds the UI can present without parsing error strings.
package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// Kind classifies a filesystem failure.
type Kind int

const (
	// Other covers failures with no more specific classification.
	Other Kind = iota
	// NotFound means the path does not exist.
	NotFound
	// PermissionDenied means the operation was refused by the OS.
	PermissionDenied
	// InvalidEncoding means the file content is not valid UTF-8.
	InvalidEncoding
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case PermissionDenied:
		return "permission denied"
	case InvalidEncoding:
		return "invalid encoding"
	default:
		return "error"
	}
}

// Error describes a failed filesystem operation.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	kind := Other
	switch {
	case os.IsNotExist(err):
		kind = NotFound
	case os.IsPermission(err):
		kind = PermissionDenied
	}
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

// ReadFile reads path as UTF-8 text. Non-UTF-8 content yields an
// InvalidEncoding error rather than mojibake in the editor.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", classify("read", path, err)
	}
	if !utf8.Valid(data) {
		return "", &Error{Op: "read", Path: path, Kind: InvalidEncoding}
	}
	return string(data), nil
}

// WriteFile writes text to path, creating parent directories as needed.
func WriteFile(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return classify("write", path, err)
		}
	}
	return classify("write", path, os.WriteFile(path, []byte(text), 0644))
}

// Move renames oldPath to newPath.
func Move(oldPath, newPath string) error {
	return classify("move", oldPath, os.Rename(oldPath, newPath))
}

// Delete removes a single file.
func Delete(path string) error {
	return classify("delete", path, os.Remove(path))
}

// DeleteTree removes path and everything under it.
func DeleteTree(path string) error {
	return classify("delete", path, os.RemoveAll(path))
}

// MakeDir creates a directory, including missing parents.
func MakeDir(path string) error {
	return classify("mkdir", path, os.MkdirAll(path, 0755))
}

// Stat reports whether path exists and whether it is a directory. Errors
// other than non-existence are treated as non-existence; callers use this
// for reconciliation decisions, not for access control.
func Stat(path string) (exists, isDir bool) {
	info, err := os.Stat(path)
	if err != nil {
		return false, false
	}
	return true, info.IsDir()
}
