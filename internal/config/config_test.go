package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/dextop/internal/window"
)

func writeConfig(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	d := cfg.WindowDefaults
	if d.Width != 400 || d.Height != 300 || d.ResizerSize != 35 || d.ToolbarHeight != 28 || d.Border != 1 {
		t.Fatalf("unexpected window defaults %+v", d)
	}
	if cfg.StopOnLeave {
		t.Fatalf("expected stop_on_leave off by default")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Listen != "127.0.0.1:7420" {
		t.Fatalf("expected default listen, got %q", res.Config.Listen)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("expected log_level info, got %q", res.Config.LogLevel)
	}
}

func TestLoadFromPath_WindowsInheritDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml",
		"window_defaults:",
		"  toolbar_height: 20",
		"  autohide: true",
		"windows:",
		"  - id: notes",
		"    title: Notes",
		"    x: 40",
		"    y: 40",
		"    width: 320",
		"  - id: clock",
		"    autohide: false",
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(res.Config.Windows))
	}

	notes := res.Config.Windows[0]
	if notes.ID != "notes" || notes.Title != "Notes" {
		t.Fatalf("unexpected window %+v", notes)
	}
	if notes.Width != 320 || notes.Height != 300 || notes.ToolbarHeight != 20 || !notes.Autohide {
		t.Fatalf("expected inherited defaults, got %+v", notes.WindowDefaults)
	}
	if p := notes.Position(); p.X != 40 || p.Y != 40 {
		t.Fatalf("expected position (40,40), got %v", p)
	}

	clock := res.Config.Windows[1]
	if clock.Title != "clock" {
		t.Fatalf("expected title to default to id, got %q", clock.Title)
	}
	if clock.Autohide {
		t.Fatalf("expected per-window autohide override")
	}
}

func TestLoadFromPath_RejectsNonPositiveDimensions(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml",
		"window_defaults:",
		"  toolbar_height: 0",
	)

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Path != "window_defaults.toolbar_height" {
		t.Fatalf("expected path window_defaults.toolbar_height, got %q", verr.Path)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("expected source line 2, got %d", verr.Source.Line)
	}
	if !errors.Is(err, window.ErrInvalidConfig) {
		t.Fatalf("expected error to match window.ErrInvalidConfig: %v", err)
	}
}

func TestValidate_Table(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"negative border", func(c *Config) { c.WindowDefaults.Border = -1 }, "window_defaults.border"},
		{"zero width", func(c *Config) { c.WindowDefaults.Width = 0 }, "window_defaults.width"},
		{"negative height", func(c *Config) { c.WindowDefaults.Height = -3 }, "window_defaults.height"},
		{"zero resizer", func(c *Config) { c.WindowDefaults.ResizerSize = 0 }, "window_defaults.resizer_size"},
		{"min width below toolbar", func(c *Config) { c.WindowDefaults.MinWidth = 10 }, "window_defaults.min_width"},
		{"empty window id", func(c *Config) {
			c.Windows = []WindowSpec{{ID: " ", WindowDefaults: c.WindowDefaults}}
		}, "windows.0.id"},
		{"duplicate window id", func(c *Config) {
			c.Windows = []WindowSpec{
				{ID: "a", WindowDefaults: c.WindowDefaults},
				{ID: "a", WindowDefaults: c.WindowDefaults},
			}
		}, "windows.1.id"},
		{"window width", func(c *Config) {
			spec := WindowSpec{ID: "a", WindowDefaults: c.WindowDefaults}
			spec.Width = 0
			c.Windows = []WindowSpec{spec}
		}, "windows.0.width"},
		{"empty viewport", func(c *Config) { c.Viewport.Height = 0 }, "viewport"},
		{"bad listen", func(c *Config) { c.Listen = "7420" }, "listen"},
		{"spaced hotkey", func(c *Config) { c.QuitHotkey = "Mod4 q" }, "quit_hotkey"},
		{"negative max files", func(c *Config) { c.Journal.MaxFiles = -1 }, "journal.max_files"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tc.path {
				t.Fatalf("expected path %q, got %q", tc.path, verr.Path)
			}
		})
	}
}

func TestLoadFromPath_UnknownFieldRejected(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "toolbar_colour: red")

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoadFromPath_IncludesMergeWindowsByID(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml",
		"log_level: debug",
		"windows:",
		"  - id: notes",
		"    x: 10",
		"    width: 300",
	)
	path := writeConfig(t, dir, "config.yaml",
		"include: base.yaml",
		"windows:",
		"  - id: notes",
		"    x: 50",
		"  - id: extra",
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "debug" {
		t.Fatalf("expected included log_level, got %q", res.Config.LogLevel)
	}
	if len(res.Config.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %+v", res.Config.Windows)
	}
	notes := res.Config.Windows[0]
	if notes.X != 50 || notes.Width != 300 {
		t.Fatalf("expected overlay x=50 and included width=300, got %+v", notes.WindowDefaults)
	}
	if res.Config.Windows[1].ID != "extra" {
		t.Fatalf("expected new window appended, got %q", res.Config.Windows[1].ID)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected 2 files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", "include: b.yaml")
	writeConfig(t, dir, "b.yaml", "include: a.yaml")

	_, err := LoadFromPath(filepath.Join(dir, "a.yaml"))
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml",
		"window_defaults:",
		"  toolbar_height: 24",
		"windows:",
		"  - id: notes",
		"    x: 40",
	)
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "windows.notes.x")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val.(int) != 40 || src.Kind != SourceFile || src.Line != 5 {
		t.Fatalf("unexpected explain result %v %+v", val, src)
	}

	val, src, err = Explain(res, "windows.notes.toolbar_height")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val.(int) != 24 || src.Line != 2 {
		t.Fatalf("expected inherited value from window_defaults, got %v %+v", val, src)
	}

	val, src, err = Explain(res, "listen")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val.(string) != "127.0.0.1:7420" || src.Kind != SourceDefault {
		t.Fatalf("expected default listen, got %v %+v", val, src)
	}

	if _, _, err := Explain(res, "windows.missing.x"); err == nil {
		t.Fatalf("expected error for unknown window")
	}
}

func TestWindowOptionsCarryDesktopSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StopOnLeave = true
	spec := WindowSpec{ID: "a", WindowDefaults: cfg.WindowDefaults}
	spec.Autohide = true

	opts := cfg.WindowOptions(spec)
	if !opts.StopOnLeave || !opts.Autohide || opts.ToolbarHeight != 28 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestGetJournalConfigDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := DefaultConfig()
	j := cfg.GetJournalConfig()
	if j.File != "/home/tester/.local/share/dextop/events.jsonl" {
		t.Fatalf("unexpected journal file %q", j.File)
	}
	if j.MaxSizeMB != 10 || j.MaxFiles != 3 {
		t.Fatalf("unexpected journal limits %+v", j)
	}
}

func TestExplain_IncludedWindowSourceFollowsID(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml",
		"windows:",
		"  - id: clock",
		"  - id: notes",
		"    width: 300",
	)
	path := writeConfig(t, dir, "config.yaml",
		"include: base.yaml",
		"windows:",
		"  - id: notes",
		"    x: 50",
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "windows.notes.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val.(int) != 300 || filepath.Base(src.File) != "base.yaml" || src.Line != 4 {
		t.Fatalf("expected width from base.yaml:4, got %v %+v", val, src)
	}

	val, src, err = Explain(res, "windows.notes.x")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val.(int) != 50 || filepath.Base(src.File) != "config.yaml" || src.Line != 4 {
		t.Fatalf("expected x from config.yaml:4, got %v %+v", val, src)
	}
}

func TestLoadFromPath_WindowErrorPointsAtFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml",
		"windows:",
		"  - id: notes",
		"    width: 0",
	)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "windows.0.width" || verr.Source.Line != 3 {
		t.Fatalf("expected windows.0.width at line 3, got %q line %d", verr.Path, verr.Source.Line)
	}
}
