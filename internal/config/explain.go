package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	log_level
//	stop_on_leave
//	listen
//	quit_hotkey
//	viewport.width
//	window_defaults.toolbar_height
//	windows.<id>.x
//	journal.max_files
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, sourcePath, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[sourcePath]; ok {
		return value, src, nil
	}
	// Window fields fall back to window_defaults.
	if strings.HasPrefix(path, "windows.") {
		parts := strings.Split(path, ".")
		if len(parts) == 3 {
			if src, ok := res.Sources["window_defaults."+parts[2]]; ok {
				return value, src, nil
			}
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// lookupValue resolves path against cfg. The second return value is the
// path under which a file source would be recorded.
func lookupValue(cfg *Config, path string) (any, string, error) {
	parts := strings.Split(path, ".")
	single := func(v any) (any, string, error) {
		if len(parts) != 1 {
			return nil, "", fmt.Errorf("unknown path: %s", path)
		}
		return v, path, nil
	}

	switch parts[0] {
	case "log_level":
		return single(cfg.LogLevel)
	case "stop_on_leave":
		return single(cfg.StopOnLeave)
	case "listen":
		return single(cfg.Listen)
	case "quit_hotkey":
		return single(cfg.QuitHotkey)
	case "viewport":
		if len(parts) == 1 {
			return cfg.Viewport, path, nil
		}
		if len(parts) != 2 {
			return nil, "", fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "width":
			return cfg.Viewport.Width, path, nil
		case "height":
			return cfg.Viewport.Height, path, nil
		}
	case "journal":
		if len(parts) == 1 {
			return cfg.Journal, path, nil
		}
		if len(parts) != 2 {
			return nil, "", fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "enabled":
			return cfg.Journal.Enabled, path, nil
		case "file":
			return cfg.Journal.File, path, nil
		case "max_size_mb":
			return cfg.Journal.MaxSizeMB, path, nil
		case "max_files":
			return cfg.Journal.MaxFiles, path, nil
		}
	case "window_defaults":
		if len(parts) == 1 {
			return cfg.WindowDefaults, path, nil
		}
		if len(parts) != 2 {
			return nil, "", fmt.Errorf("unknown path: %s", path)
		}
		if v, ok := windowField(cfg.WindowDefaults, parts[1]); ok {
			return v, path, nil
		}
	case "windows":
		if len(parts) < 2 {
			return nil, "", fmt.Errorf("path must name a window: windows.<id>")
		}
		for _, spec := range cfg.Windows {
			if spec.ID != parts[1] {
				continue
			}
			idPath := "windows." + spec.ID
			if len(parts) == 2 {
				return spec, idPath, nil
			}
			if len(parts) != 3 {
				break
			}
			if parts[2] == "title" {
				return spec.Title, idPath + ".title", nil
			}
			if v, ok := windowField(spec.WindowDefaults, parts[2]); ok {
				return v, idPath + "." + parts[2], nil
			}
			break
		}
		return nil, "", fmt.Errorf("unknown path: %s", path)
	}
	return nil, "", fmt.Errorf("unknown path: %s", path)
}

func windowField(w WindowDefaults, field string) (any, bool) {
	switch field {
	case "border":
		return w.Border, true
	case "color":
		return w.Color, true
	case "width":
		return w.Width, true
	case "height":
		return w.Height, true
	case "x":
		return w.X, true
	case "y":
		return w.Y, true
	case "resizer_size":
		return w.ResizerSize, true
	case "toolbar_height":
		return w.ToolbarHeight, true
	case "min_width":
		return w.MinWidth, true
	case "min_height":
		return w.MinHeight, true
	case "autohide":
		return w.Autohide, true
	}
	return nil, false
}
