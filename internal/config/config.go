// Package config handles application configuration.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	// DataDir is the directory for persistent data (config, logs)
	DataDir string `yaml:"-"`

	// TabWidth is the number of spaces a tab stop occupies in the editor
	TabWidth int `yaml:"tab_width"`

	// DebounceMS is the filesystem watcher coalescing window in milliseconds
	DebounceMS int `yaml:"debounce_ms"`

	// ShowSidebar controls whether the file tree starts visible
	ShowSidebar *bool `yaml:"show_sidebar"`

	// Keys contains keybinding configuration
	Keys KeyBindings `yaml:"keys"`

	// Theme contains theme/appearance configuration
	Theme Theme `yaml:"theme"`
}

// KeyBindings holds all configurable keybindings.
type KeyBindings struct {
	Quit            string `yaml:"quit"`
	NewFile         string `yaml:"new_file"`
	Save            string `yaml:"save"`
	SaveAs          string `yaml:"save_as"`
	CloseTab        string `yaml:"close_tab"`
	NextTab         string `yaml:"next_tab"`
	PrevTab         string `yaml:"prev_tab"`
	SplitHorizontal string `yaml:"split_horizontal"`
	SplitVertical   string `yaml:"split_vertical"`
	NextPane        string `yaml:"next_pane"`
	MoveTab         string `yaml:"move_tab"`
	ToggleSidebar   string `yaml:"toggle_sidebar"`
	Find            string `yaml:"find"`
	Undo            string `yaml:"undo"`
	Redo            string `yaml:"redo"`
}

// Theme holds theme configuration.
type Theme struct {
	Colors ThemeColors `yaml:"colors"`
}

// ThemeColors holds color configuration.
type ThemeColors struct {
	ActiveFrame string `yaml:"active_frame"`
	ModalFrame  string `yaml:"modal_frame"`
	StatusBarBg string `yaml:"statusbar_bg"`
	StatusBarFg string `yaml:"statusbar_fg"`
}

// Default returns a Config with default values.
func Default() *Config {
	show := true
	return &Config{
		DataDir:     defaultDataDir(),
		TabWidth:    4,
		DebounceMS:  250,
		ShowSidebar: &show,
		Keys:        DefaultKeyBindings(),
		Theme:       DefaultTheme(),
	}
}

// DefaultKeyBindings returns the default keybindings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Quit:            "ctrl+q",
		NewFile:         "ctrl+n",
		Save:            "ctrl+s",
		SaveAs:          "ctrl+a",
		CloseTab:        "ctrl+w",
		NextTab:         "pgdn",
		PrevTab:         "pgup",
		SplitHorizontal: "ctrl+e",
		SplitVertical:   "ctrl+t",
		NextPane:        "ctrl+p",
		MoveTab:         "ctrl+g",
		ToggleSidebar:   "ctrl+b",
		Find:            "ctrl+f",
		Undo:            "ctrl+z",
		Redo:            "ctrl+y",
	}
}

// DefaultTheme returns the default theme configuration.
func DefaultTheme() Theme {
	return Theme{
		Colors: ThemeColors{
			ActiveFrame: "blue",
			ModalFrame:  "yellow",
			StatusBarBg: "blue",
			StatusBarFg: "white",
		},
	}
}

// Load loads configuration from the config file, falling back to defaults.
func Load() (*Config, error) {
	cfg := Default()

	configPath := cfg.ConfigFile()
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	// Parse YAML into a temporary struct to merge with defaults
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &fileCfg)

	if err := ValidateKeys(&cfg.Keys); err != nil {
		return nil, err
	}
	if err := ValidateTheme(&cfg.Theme); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges file configuration into the default configuration.
// Only non-zero values from file are applied.
func mergeConfig(dst, src *Config) {
	if src.TabWidth != 0 {
		dst.TabWidth = src.TabWidth
	}
	if src.DebounceMS != 0 {
		dst.DebounceMS = src.DebounceMS
	}
	if src.ShowSidebar != nil {
		dst.ShowSidebar = src.ShowSidebar
	}
	mergeKeyBindings(&dst.Keys, &src.Keys)
	mergeTheme(&dst.Theme, &src.Theme)
}

// mergeKeyBindings merges keybindings from src into dst.
func mergeKeyBindings(dst, src *KeyBindings) {
	if src.Quit != "" {
		dst.Quit = src.Quit
	}
	if src.NewFile != "" {
		dst.NewFile = src.NewFile
	}
	if src.Save != "" {
		dst.Save = src.Save
	}
	if src.SaveAs != "" {
		dst.SaveAs = src.SaveAs
	}
	if src.CloseTab != "" {
		dst.CloseTab = src.CloseTab
	}
	if src.NextTab != "" {
		dst.NextTab = src.NextTab
	}
	if src.PrevTab != "" {
		dst.PrevTab = src.PrevTab
	}
	if src.SplitHorizontal != "" {
		dst.SplitHorizontal = src.SplitHorizontal
	}
	if src.SplitVertical != "" {
		dst.SplitVertical = src.SplitVertical
	}
	if src.NextPane != "" {
		dst.NextPane = src.NextPane
	}
	if src.MoveTab != "" {
		dst.MoveTab = src.MoveTab
	}
	if src.ToggleSidebar != "" {
		dst.ToggleSidebar = src.ToggleSidebar
	}
	if src.Find != "" {
		dst.Find = src.Find
	}
	if src.Undo != "" {
		dst.Undo = src.Undo
	}
	if src.Redo != "" {
		dst.Redo = src.Redo
	}
}

// mergeTheme merges theme configuration from src into dst.
func mergeTheme(dst, src *Theme) {
	if src.Colors.ActiveFrame != "" {
		dst.Colors.ActiveFrame = src.Colors.ActiveFrame
	}
	if src.Colors.ModalFrame != "" {
		dst.Colors.ModalFrame = src.Colors.ModalFrame
	}
	if src.Colors.StatusBarBg != "" {
		dst.Colors.StatusBarBg = src.Colors.StatusBarBg
	}
	if src.Colors.StatusBarFg != "" {
		dst.Colors.StatusBarFg = src.Colors.StatusBarFg
	}
}

// defaultDataDir returns the default data directory.
func defaultDataDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "emux")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".emux"
	}
	return filepath.Join(home, ".config", "emux")
}

// ConfigFile returns the path to the config file.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "config.yaml")
}

// LogFile returns the path to the debug log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "debug.log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}
