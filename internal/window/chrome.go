package window

import "github.com/1broseidon/dextop/internal/geometry"

// Extent returns the full outer rectangle: content plus toolbar plus border
// on every side.
func (w *Window) Extent() geometry.Rect {
	b := w.opts.Border
	return geometry.Rect{
		X:      w.position.X,
		Y:      w.position.Y,
		Width:  w.size.Width + 2*b,
		Height: w.size.Height + w.opts.ToolbarHeight + 2*b,
	}
}

// ToolbarRect returns the press-to-move strip along the top, inside the border.
func (w *Window) ToolbarRect() geometry.Rect {
	b := w.opts.Border
	return geometry.Rect{
		X:      w.position.X + b,
		Y:      w.position.Y + b,
		Width:  w.size.Width,
		Height: w.opts.ToolbarHeight,
	}
}

// ContentRect returns the area below the toolbar that hosts content.
func (w *Window) ContentRect() geometry.Rect {
	b := w.opts.Border
	return geometry.Rect{
		X:      w.position.X + b,
		Y:      w.position.Y + b + w.opts.ToolbarHeight,
		Width:  w.size.Width,
		Height: w.size.Height,
	}
}

// ResizerRect returns the press-to-resize square, centred on the
// bottom-right corner so it overhangs the window's outer edge.
func (w *Window) ResizerRect() geometry.Rect {
	b := w.opts.Border
	rs := w.opts.ResizerSize
	return geometry.Rect{
		X:      w.position.X + b + w.size.Width + b - rs/2,
		Y:      w.position.Y + b + w.size.Height + b + w.opts.ToolbarHeight - rs/2,
		Width:  rs,
		Height: rs,
	}
}

// Contains reports whether p is over the window, including the overhanging
// part of the resizer.
func (w *Window) Contains(p geometry.Position) bool {
	return w.Extent().Contains(p) || w.ResizerRect().Contains(p)
}

// ZoneAt classifies p. The resizer wins where it overlaps the toolbar.
func (w *Window) ZoneAt(p geometry.Position) Zone {
	switch {
	case w.ResizerRect().Contains(p):
		return ZoneResizer
	case w.ToolbarRect().Contains(p):
		return ZoneToolbar
	default:
		return ZoneNone
	}
}

// Snapshot is an immutable view of a window for renderers.
type Snapshot struct {
	ID          string            `json:"id"`
	Position    geometry.Position `json:"position"`
	Size        geometry.Size     `json:"size"`
	Mode        Mode              `json:"mode"`
	Visibility  Visibility        `json:"visibility"`
	Highlighted bool              `json:"highlighted"`
	Border      int               `json:"border"`
	Color       string            `json:"color"`
	Extent      geometry.Rect     `json:"-"`
	Toolbar     geometry.Rect     `json:"-"`
	Content     geometry.Rect     `json:"-"`
	Resizer     geometry.Rect     `json:"-"`
}

// ChromeVisible reports whether border, toolbar and resizer should be painted.
func (s Snapshot) ChromeVisible() bool {
	return s.Visibility == Shown
}

// Snapshot captures the current state.
func (w *Window) Snapshot() Snapshot {
	return Snapshot{
		ID:          w.id,
		Position:    w.position,
		Size:        w.size,
		Mode:        w.mode,
		Visibility:  w.visibility,
		Highlighted: w.hovered || w.mode != ModeIdle,
		Border:      w.opts.Border,
		Color:       w.opts.Color,
		Extent:      w.Extent(),
		Toolbar:     w.ToolbarRect(),
		Content:     w.ContentRect(),
		Resizer:     w.ResizerRect(),
	}
}
