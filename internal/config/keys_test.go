package config

import (
	"testing"

	"github.com/jesseduffield/gocui"
)

func TestParseKey_SingleChar(t *testing.T) {
	k, err := ParseKey("q")
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if k.Value != 'q' {
		t.Errorf("ParseKey(q) = %v, want rune q", k.Value)
	}
}

func TestParseKey_PreservesCase(t *testing.T) {
	k, err := ParseKey("N")
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if k.Value != 'N' {
		t.Errorf("ParseKey(N) = %v, want uppercase N", k.Value)
	}
}

func TestParseKey_Special(t *testing.T) {
	tests := []struct {
		s    string
		want gocui.Key
	}{
		{"enter", gocui.KeyEnter},
		{"esc", gocui.KeyEsc},
		{"Escape", gocui.KeyEsc},
		{"tab", gocui.KeyTab},
		{"pgdn", gocui.KeyPgdn},
		{"up", gocui.KeyArrowUp},
		{"f5", gocui.KeyF5},
	}
	for _, tt := range tests {
		k, err := ParseKey(tt.s)
		if err != nil {
			t.Errorf("ParseKey(%q) failed: %v", tt.s, err)
			continue
		}
		if k.Value != tt.want {
			t.Errorf("ParseKey(%q) = %v, want %v", tt.s, k.Value, tt.want)
		}
	}
}

func TestParseKey_Ctrl(t *testing.T) {
	k, err := ParseKey("ctrl+s")
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if k.Value != gocui.KeyCtrlS {
		t.Errorf("ParseKey(ctrl+s) = %v, want KeyCtrlS", k.Value)
	}

	if _, err := ParseKey("ctrl+enter"); err == nil {
		t.Error("ParseKey(ctrl+enter) should fail")
	}
}

func TestParseKey_Invalid(t *testing.T) {
	for _, s := range []string{"", "nonsense", "ctrl+"} {
		if _, err := ParseKey(s); err == nil {
			t.Errorf("ParseKey(%q) should fail", s)
		}
	}
}

func TestValidateKeys_Duplicates(t *testing.T) {
	keys := DefaultKeyBindings()
	keys.Find = keys.Save
	if err := ValidateKeys(&keys); err == nil {
		t.Error("duplicate bindings should fail validation")
	}
}

func TestValidateKeys_Invalid(t *testing.T) {
	keys := DefaultKeyBindings()
	keys.Quit = "not-a-key"
	if err := ValidateKeys(&keys); err == nil {
		t.Error("invalid binding should fail validation")
	}
}

func TestValidateColor(t *testing.T) {
	if !ValidateColor("blue") || !ValidateColor("Blue") {
		t.Error("blue should be valid")
	}
	if ValidateColor("chartreuse") {
		t.Error("chartreuse should be invalid")
	}
}

func TestColorAttribute(t *testing.T) {
	if got := ColorAttribute("yellow"); got != gocui.ColorYellow {
		t.Errorf("ColorAttribute(yellow) = %v", got)
	}
	// Unknown names resolve to the terminal default.
	if got := ColorAttribute("chartreuse"); got != gocui.ColorDefault {
		t.Errorf("ColorAttribute(chartreuse) = %v", got)
	}
}

func TestValidateTheme(t *testing.T) {
	theme := DefaultTheme()
	if err := ValidateTheme(&theme); err != nil {
		t.Errorf("default theme should validate: %v", err)
	}
	theme.Colors.ActiveFrame = "chartreuse"
	if err := ValidateTheme(&theme); err == nil {
		t.Error("invalid color should fail validation")
	}
}
