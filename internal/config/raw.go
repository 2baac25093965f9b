package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawWindowDefaults struct {
	Border        *int    `yaml:"border"`
	Color         *string `yaml:"color"`
	Width         *int    `yaml:"width"`
	Height        *int    `yaml:"height"`
	X             *int    `yaml:"x"`
	Y             *int    `yaml:"y"`
	ResizerSize   *int    `yaml:"resizer_size"`
	ToolbarHeight *int    `yaml:"toolbar_height"`
	MinWidth      *int    `yaml:"min_width"`
	MinHeight     *int    `yaml:"min_height"`
	Autohide      *bool   `yaml:"autohide"`
}

type RawWindowSpec struct {
	ID                string `yaml:"id"`
	Title             string `yaml:"title"`
	RawWindowDefaults `yaml:",inline"`
}

type RawViewport struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawJournalConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawConfig struct {
	Include        IncludeList        `yaml:"include"`
	LogLevel       *string            `yaml:"log_level"`
	WindowDefaults *RawWindowDefaults `yaml:"window_defaults"`
	Windows        []RawWindowSpec    `yaml:"windows"`
	Viewport       *RawViewport       `yaml:"viewport"`
	StopOnLeave    *bool              `yaml:"stop_on_leave"`
	Listen         *string            `yaml:"listen"`
	QuitHotkey     *string            `yaml:"quit_hotkey"`
	Journal        *RawJournalConfig  `yaml:"journal"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.WindowDefaults != nil {
		merged := RawWindowDefaults{}
		if out.WindowDefaults != nil {
			merged = *out.WindowDefaults
		}
		merged = merged.merge(*overlay.WindowDefaults)
		out.WindowDefaults = &merged
	}
	if overlay.Windows != nil {
		out.Windows = mergeWindowSpecs(out.Windows, overlay.Windows)
	}
	if overlay.Viewport != nil {
		merged := RawViewport{}
		if out.Viewport != nil {
			merged = *out.Viewport
		}
		if overlay.Viewport.Width != nil {
			merged.Width = overlay.Viewport.Width
		}
		if overlay.Viewport.Height != nil {
			merged.Height = overlay.Viewport.Height
		}
		out.Viewport = &merged
	}
	if overlay.StopOnLeave != nil {
		out.StopOnLeave = overlay.StopOnLeave
	}
	if overlay.Listen != nil {
		out.Listen = overlay.Listen
	}
	if overlay.QuitHotkey != nil {
		out.QuitHotkey = overlay.QuitHotkey
	}
	if overlay.Journal != nil {
		merged := RawJournalConfig{}
		if out.Journal != nil {
			merged = *out.Journal
		}
		if overlay.Journal.Enabled != nil {
			merged.Enabled = overlay.Journal.Enabled
		}
		if overlay.Journal.File != nil {
			merged.File = overlay.Journal.File
		}
		if overlay.Journal.MaxSizeMB != nil {
			merged.MaxSizeMB = overlay.Journal.MaxSizeMB
		}
		if overlay.Journal.MaxFiles != nil {
			merged.MaxFiles = overlay.Journal.MaxFiles
		}
		out.Journal = &merged
	}

	return out
}

func (w RawWindowDefaults) merge(overlay RawWindowDefaults) RawWindowDefaults {
	out := w
	if overlay.Border != nil {
		out.Border = overlay.Border
	}
	if overlay.Color != nil {
		out.Color = overlay.Color
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.X != nil {
		out.X = overlay.X
	}
	if overlay.Y != nil {
		out.Y = overlay.Y
	}
	if overlay.ResizerSize != nil {
		out.ResizerSize = overlay.ResizerSize
	}
	if overlay.ToolbarHeight != nil {
		out.ToolbarHeight = overlay.ToolbarHeight
	}
	if overlay.MinWidth != nil {
		out.MinWidth = overlay.MinWidth
	}
	if overlay.MinHeight != nil {
		out.MinHeight = overlay.MinHeight
	}
	if overlay.Autohide != nil {
		out.Autohide = overlay.Autohide
	}
	return out
}

// mergeWindowSpecs overlays window specs by id. Windows defined in an
// earlier file keep their order; new ids are appended.
func mergeWindowSpecs(base, overlay []RawWindowSpec) []RawWindowSpec {
	out := make([]RawWindowSpec, len(base))
	copy(out, base)
	index := make(map[string]int, len(out))
	for i, spec := range out {
		if spec.ID != "" {
			index[spec.ID] = i
		}
	}
	for _, spec := range overlay {
		i, ok := index[spec.ID]
		if !ok || spec.ID == "" {
			if spec.ID != "" {
				index[spec.ID] = len(out)
			}
			out = append(out, spec)
			continue
		}
		merged := out[i]
		if spec.Title != "" {
			merged.Title = spec.Title
		}
		merged.RawWindowDefaults = merged.RawWindowDefaults.merge(spec.RawWindowDefaults)
		out[i] = merged
	}
	return out
}

func (w RawWindowDefaults) apply(dst *WindowDefaults) {
	if w.Border != nil {
		dst.Border = *w.Border
	}
	if w.Color != nil {
		dst.Color = *w.Color
	}
	if w.Width != nil {
		dst.Width = *w.Width
	}
	if w.Height != nil {
		dst.Height = *w.Height
	}
	if w.X != nil {
		dst.X = *w.X
	}
	if w.Y != nil {
		dst.Y = *w.Y
	}
	if w.ResizerSize != nil {
		dst.ResizerSize = *w.ResizerSize
	}
	if w.ToolbarHeight != nil {
		dst.ToolbarHeight = *w.ToolbarHeight
	}
	if w.MinWidth != nil {
		dst.MinWidth = *w.MinWidth
	}
	if w.MinHeight != nil {
		dst.MinHeight = *w.MinHeight
	}
	if w.Autohide != nil {
		dst.Autohide = *w.Autohide
	}
}
