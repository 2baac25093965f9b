package window

import "fmt"

// Mode is the active gesture of a window. Exactly one mode holds at a time,
// so a window can never be moving and resizing at once.
type Mode int

const (
	// ModeIdle means no gesture is in progress
	ModeIdle Mode = iota
	// ModeMoving means the toolbar was pressed and the window follows the pointer
	ModeMoving
	// ModeResizing means the resizer was pressed and the size follows the pointer
	ModeResizing
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeMoving:
		return "moving"
	case ModeResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*m = ModeIdle
	case "moving":
		*m = ModeMoving
	case "resizing":
		*m = ModeResizing
	default:
		return fmt.Errorf("unknown mode %q", text)
	}
	return nil
}

// Visibility is the autohide sub-state.
type Visibility int

const (
	Shown Visibility = iota
	Hidden
)

func (v Visibility) String() string {
	switch v {
	case Shown:
		return "shown"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Visibility) UnmarshalText(text []byte) error {
	switch string(text) {
	case "shown":
		*v = Shown
	case "hidden":
		*v = Hidden
	default:
		return fmt.Errorf("unknown visibility %q", text)
	}
	return nil
}

// Zone classifies where a press landed.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneToolbar
	ZoneResizer
)

func (z Zone) String() string {
	switch z {
	case ZoneNone:
		return "none"
	case ZoneToolbar:
		return "toolbar"
	case ZoneResizer:
		return "resizer"
	default:
		return "unknown"
	}
}

// ParseZone accepts "toolbar" or "resizer".
func ParseZone(s string) (Zone, error) {
	switch s {
	case "toolbar":
		return ZoneToolbar, nil
	case "resizer":
		return ZoneResizer, nil
	default:
		return ZoneNone, fmt.Errorf("unknown zone %q", s)
	}
}

// mode returns the gesture mode a press on z starts.
func (z Zone) mode() (Mode, bool) {
	switch z {
	case ZoneToolbar:
		return ModeMoving, true
	case ZoneResizer:
		return ModeResizing, true
	default:
		return ModeIdle, false
	}
}
