package fileio

import (
	"github.com/alecthomas/chroma/v2/lexers"
)

// PlainText is the type shown for files no lexer recognizes.
const PlainText = "Plain Text"

// DetectType returns a human-readable file type for path based on its
// name, e.g. "Python" for main.py.
func DetectType(path string) string {
	if path == "" {
		return PlainText
	}
	lexer := lexers.Match(path)
	if lexer == nil {
		return PlainText
	}
	name := lexer.Config().Name
	if name == "" || name == "plaintext" {
		return PlainText
	}
	return name
}
