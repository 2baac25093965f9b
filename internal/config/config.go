package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
	"gopkg.in/yaml.v3"
)

// WindowDefaults holds the geometry and chrome every window starts from.
type WindowDefaults struct {
	Border        int    `yaml:"border"`
	Color         string `yaml:"color"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	X             int    `yaml:"x"`
	Y             int    `yaml:"y"`
	ResizerSize   int    `yaml:"resizer_size"`
	ToolbarHeight int    `yaml:"toolbar_height"`
	// MinWidth and MinHeight default to the toolbar height when zero.
	MinWidth  int  `yaml:"min_width,omitempty"`
	MinHeight int  `yaml:"min_height,omitempty"`
	Autohide  bool `yaml:"autohide"`
}

// WindowSpec describes one window opened at startup. Unset fields inherit
// from window_defaults.
type WindowSpec struct {
	ID             string `yaml:"id"`
	Title          string `yaml:"title,omitempty"`
	WindowDefaults `yaml:",inline"`
}

// Viewport is the surface size used when the host cannot measure one.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// JournalConfig configures the completed-gesture journal.
type JournalConfig struct {
	// Enabled turns the journal on/off
	Enabled bool `yaml:"enabled"`
	// File is the journal path (default: ~/.local/share/dextop/events.jsonl)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files"`
}

type Config struct {
	LogLevel       string         `yaml:"log_level"`
	WindowDefaults WindowDefaults `yaml:"window_defaults"`
	Windows        []WindowSpec   `yaml:"windows,omitempty"`
	Viewport       Viewport       `yaml:"viewport"`
	StopOnLeave    bool           `yaml:"stop_on_leave"`
	Listen         string         `yaml:"listen"`
	// QuitHotkey stops the x11 host, e.g. "Mod4-Shift-q". Empty disables it.
	QuitHotkey string        `yaml:"quit_hotkey,omitempty"`
	Journal    JournalConfig `yaml:"journal"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		WindowDefaults: WindowDefaults{
			Border:        window.DefaultBorder,
			Color:         window.DefaultColor,
			Width:         window.DefaultWidth,
			Height:        window.DefaultHeight,
			ResizerSize:   window.DefaultResizerSize,
			ToolbarHeight: window.DefaultToolbarHeight,
		},
		Viewport: Viewport{Width: 1024, Height: 768},
		Listen:   "127.0.0.1:7420",
		Journal: JournalConfig{
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
	}
}

// ViewportBounds returns the configured fallback viewport.
func (c *Config) ViewportBounds() geometry.Bounds {
	return geometry.Bounds{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// WindowOptions converts a window spec into construction options. The
// desktop-wide stop_on_leave setting applies to every window.
func (c *Config) WindowOptions(spec WindowSpec) window.Options {
	return window.Options{
		Border:        spec.Border,
		Color:         spec.Color,
		ResizerSize:   spec.ResizerSize,
		ToolbarHeight: spec.ToolbarHeight,
		MinWidth:      spec.MinWidth,
		MinHeight:     spec.MinHeight,
		Autohide:      spec.Autohide,
		StopOnLeave:   c.StopOnLeave,
	}
}

// Position returns the initial top-left offset of the window.
func (s WindowSpec) Position() geometry.Position {
	return geometry.Position{X: s.X, Y: s.Y}
}

// Size returns the initial content size of the window.
func (s WindowSpec) Size() geometry.Size {
	return geometry.Size{Width: s.Width, Height: s.Height}
}

// SlogLevel maps log_level onto a slog level. Unknown values map to info;
// Validate rejects them before this is reached.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetJournalConfig returns the journal configuration with defaults applied.
func (c *Config) GetJournalConfig() JournalConfig {
	if c == nil {
		return JournalConfig{}
	}
	cfg := c.Journal
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/dextop/events.jsonl")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	return cfg
}

// SaveToPath writes the configuration as YAML, creating parent directories.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if err := validateWindowDefaults("window_defaults", c.WindowDefaults); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Windows))
	for i, spec := range c.Windows {
		path := fmt.Sprintf("windows.%d", i)
		id := strings.TrimSpace(spec.ID)
		if id == "" {
			return &ValidationError{Path: path + ".id", Err: fmt.Errorf("window id is required")}
		}
		if _, dup := seen[id]; dup {
			return &ValidationError{Path: path + ".id", Err: fmt.Errorf("duplicate window id %q", id)}
		}
		seen[id] = struct{}{}
		if err := validateWindowDefaults(path, spec.WindowDefaults); err != nil {
			return err
		}
	}

	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport width and height must be > 0")}
	}
	if c.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Listen); err != nil {
			return &ValidationError{Path: "listen", Err: fmt.Errorf("listen must be host:port: %w", err)}
		}
	}
	if strings.ContainsAny(c.QuitHotkey, " \t") {
		return &ValidationError{Path: "quit_hotkey", Err: fmt.Errorf("quit_hotkey must not contain spaces (use Mod4-Shift-q form)")}
	}
	if c.Journal.MaxSizeMB < 0 {
		return &ValidationError{Path: "journal.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Journal.MaxFiles < 0 {
		return &ValidationError{Path: "journal.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}

// validateWindowDefaults rejects dimensions that can never describe a usable
// window. Unlike window.Options, an explicit zero is not a default here.
func validateWindowDefaults(prefix string, w WindowDefaults) error {
	check := func(field string, value int, ok bool, reason string) error {
		if ok {
			return nil
		}
		return &ValidationError{
			Path: prefix + "." + field,
			Err:  &window.InvalidConfigError{Field: field, Value: value, Reason: reason},
		}
	}
	if err := check("border", w.Border, w.Border >= 0, "must be >= 0"); err != nil {
		return err
	}
	if err := check("width", w.Width, w.Width > 0, "must be positive"); err != nil {
		return err
	}
	if err := check("height", w.Height, w.Height > 0, "must be positive"); err != nil {
		return err
	}
	if err := check("resizer_size", w.ResizerSize, w.ResizerSize > 0, "must be positive"); err != nil {
		return err
	}
	if err := check("toolbar_height", w.ToolbarHeight, w.ToolbarHeight > 0, "must be positive"); err != nil {
		return err
	}
	if err := check("min_width", w.MinWidth, w.MinWidth == 0 || w.MinWidth >= w.ToolbarHeight, "must be >= toolbar_height"); err != nil {
		return err
	}
	if err := check("min_height", w.MinHeight, w.MinHeight == 0 || w.MinHeight >= w.ToolbarHeight, "must be >= toolbar_height"); err != nil {
		return err
	}
	return nil
}
