package ui

import (
	"strings"
	"testing"
)

func TestTabLabel(t *testing.T) {
	tests := []struct {
		tab  Tab
		want string
	}{
		{Tab{Title: "main.py"}, "main.py"},
		{Tab{Title: "main.py", Modified: true}, "*main.py"},
		{Tab{Title: "notes.txt", Orphaned: true}, "notes.txt (deleted)"},
		{Tab{Title: "a.txt", Modified: true, Orphaned: true}, "*a.txt (deleted)"},
	}

	for _, tt := range tests {
		got := tt.tab.Label()
		if got != tt.want {
			t.Errorf("Label(%+v) = %q, want %q", tt.tab, got, tt.want)
		}
	}
}

func TestTabLabelTruncates(t *testing.T) {
	tab := Tab{Title: "a-very-long-file-name-that-never-ends.go"}
	got := tab.Label()
	if len(got) > MaxTabWidth {
		t.Errorf("Label() = %q, longer than %d", got, MaxTabWidth)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated label %q should end in ellipsis", got)
	}
}

func TestRenderTabBarHighlightsCurrent(t *testing.T) {
	tabs := []Tab{{Title: "a.txt"}, {Title: "b.txt"}, {Title: "c.txt"}}
	bar := RenderTabBar(tabs, 1, 80)

	if !strings.Contains(bar, ColorReverse+" b.txt "+ColorReset) {
		t.Errorf("current tab not highlighted: %q", bar)
	}
	for _, title := range []string{"a.txt", "b.txt", "c.txt"} {
		if !strings.Contains(bar, title) {
			t.Errorf("tab bar missing %q", title)
		}
	}
}

func TestRenderTabBarRespectsWidth(t *testing.T) {
	tabs := []Tab{{Title: "aaaa.txt"}, {Title: "bbbb.txt"}, {Title: "cccc.txt"}}
	bar := RenderTabBar(tabs, 0, 22)

	if strings.Contains(bar, "cccc.txt") {
		t.Errorf("tab bar overflowed its width: %q", bar)
	}
}

func TestRenderStatusBar(t *testing.T) {
	bar := RenderStatusBar(12, 4, "Python", "UTF-8", "v1.0.0", 80)

	if !strings.Contains(bar, "Ln 12, Col 4") {
		t.Errorf("status bar missing cursor position: %q", bar)
	}
	if !strings.Contains(bar, "Python") || !strings.Contains(bar, "UTF-8") {
		t.Errorf("status bar missing file info: %q", bar)
	}
	if !strings.HasSuffix(bar, "v1.0.0") {
		t.Errorf("version should be right-aligned: %q", bar)
	}
}

func TestRenderStatusBarNarrow(t *testing.T) {
	bar := RenderStatusBar(1, 1, "Plain Text", "UTF-8", "v1.0.0", 10)
	if strings.Contains(bar, "v1.0.0") {
		t.Errorf("narrow status bar should drop the version: %q", bar)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"ab", 3, "ab"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}

	for _, tt := range tests {
		got := Truncate(tt.s, tt.width)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"test", 8, "test    "},
		{"longer than width", 5, "longe"},
		{"", 3, "   "},
	}

	for _, tt := range tests {
		got := PadRight(tt.s, tt.width)
		if got != tt.want {
			t.Errorf("PadRight(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestPadLeft(t *testing.T) {
	if got := PadLeft("ab", 5); got != "   ab" {
		t.Errorf("PadLeft = %q", got)
	}
}

func TestModalDimensions(t *testing.T) {
	x0, y0, x1, y1 := ModalDimensions(100, 50, 40, 10)
	if x0 != 30 || y0 != 20 || x1 != 70 || y1 != 30 {
		t.Errorf("ModalDimensions = %d,%d,%d,%d", x0, y0, x1, y1)
	}
}
