package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jesseduffield/gocui"
)

// ValidateKeys checks for duplicate keybindings and invalid key strings.
func ValidateKeys(keys *KeyBindings) error {
	keyMap := make(map[string][]string)

	v := reflect.ValueOf(keys).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldName := t.Field(i).Name

		if field.Kind() != reflect.String {
			continue
		}

		keyStr := field.String()
		if keyStr == "" {
			continue
		}

		if _, err := ParseKey(keyStr); err != nil {
			return fmt.Errorf("invalid key for %s: %w", fieldName, err)
		}

		keyMap[keyStr] = append(keyMap[keyStr], fieldName)
	}

	var duplicates []string
	for key, actions := range keyMap {
		if len(actions) > 1 {
			duplicates = append(duplicates, fmt.Sprintf("key %q is used by: %s", key, strings.Join(actions, ", ")))
		}
	}

	if len(duplicates) > 0 {
		return fmt.Errorf("duplicate keybindings found:\n  %s", strings.Join(duplicates, "\n  "))
	}

	return nil
}

var colorAttributes = map[string]gocui.Attribute{
	"default": gocui.ColorDefault,
	"black":   gocui.ColorBlack,
	"red":     gocui.ColorRed,
	"green":   gocui.ColorGreen,
	"yellow":  gocui.ColorYellow,
	"blue":    gocui.ColorBlue,
	"magenta": gocui.ColorMagenta,
	"cyan":    gocui.ColorCyan,
	"white":   gocui.ColorWhite,
}

// ValidateColor checks if a color string is valid for gocui.
func ValidateColor(color string) bool {
	_, ok := colorAttributes[strings.ToLower(color)]
	return ok
}

// ColorAttribute resolves a configured color name to its gocui attribute.
// Unknown names fall back to the terminal default.
func ColorAttribute(color string) gocui.Attribute {
	return colorAttributes[strings.ToLower(color)]
}

// ValidateTheme checks every configured color name.
func ValidateTheme(theme *Theme) error {
	colors := map[string]string{
		"active_frame": theme.Colors.ActiveFrame,
		"modal_frame":  theme.Colors.ModalFrame,
		"statusbar_bg": theme.Colors.StatusBarBg,
		"statusbar_fg": theme.Colors.StatusBarFg,
	}
	for name, c := range colors {
		if c != "" && !ValidateColor(c) {
			return fmt.Errorf("invalid color for %s: %q", name, c)
		}
	}
	return nil
}
