package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies a merged raw overlay on top of the defaults.
// Every window spec starts from the effective window_defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.WindowDefaults != nil {
		raw.WindowDefaults.apply(&cfg.WindowDefaults)
	}
	for i, rw := range raw.Windows {
		if strings.TrimSpace(rw.ID) == "" {
			return nil, &ValidationError{Path: fmt.Sprintf("windows.%d.id", i), Err: fmt.Errorf("window id is required")}
		}
		spec := WindowSpec{
			ID:             strings.TrimSpace(rw.ID),
			Title:          rw.Title,
			WindowDefaults: cfg.WindowDefaults,
		}
		rw.RawWindowDefaults.apply(&spec.WindowDefaults)
		if spec.Title == "" {
			spec.Title = spec.ID
		}
		cfg.Windows = append(cfg.Windows, spec)
	}
	if raw.Viewport != nil {
		if raw.Viewport.Width != nil {
			cfg.Viewport.Width = *raw.Viewport.Width
		}
		if raw.Viewport.Height != nil {
			cfg.Viewport.Height = *raw.Viewport.Height
		}
	}
	if raw.StopOnLeave != nil {
		cfg.StopOnLeave = *raw.StopOnLeave
	}
	if raw.Listen != nil {
		cfg.Listen = strings.TrimSpace(*raw.Listen)
	}
	if raw.QuitHotkey != nil {
		cfg.QuitHotkey = strings.TrimSpace(*raw.QuitHotkey)
	}
	if raw.Journal != nil {
		if raw.Journal.Enabled != nil {
			cfg.Journal.Enabled = *raw.Journal.Enabled
		}
		if raw.Journal.File != nil {
			cfg.Journal.File = *raw.Journal.File
		}
		if raw.Journal.MaxSizeMB != nil {
			cfg.Journal.MaxSizeMB = *raw.Journal.MaxSizeMB
		}
		if raw.Journal.MaxFiles != nil {
			cfg.Journal.MaxFiles = *raw.Journal.MaxFiles
		}
	}

	return cfg, nil
}
