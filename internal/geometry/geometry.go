// Package geometry bounds window positions and sizes against a viewport.
//
// All functions are pure and total over their integer inputs.
package geometry

import "fmt"

// Position is the top-left offset of a window inside the viewport.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Size is a content-area extent, excluding border and toolbar.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Bounds is the extent of the surface a window must stay within.
type Bounds struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Bounds returns b itself, so fixed bounds can serve wherever a live
// viewport source is expected.
func (b Bounds) Bounds() Bounds { return b }

// Delta is the difference between two pointer samples. It is the anchor
// minus the current point, so consumers always compute value - delta.
type Delta struct {
	DX int
	DY int
}

// Rect represents a window-space rectangle
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.X+r.Width && p.Y < r.Y+r.Height
}

// Offset returns r translated by p.
func (r Rect) Offset(p Position) Rect {
	return Rect{X: r.X + p.X, Y: r.Y + p.Y, Width: r.Width, Height: r.Height}
}

// ClampPosition bounds candidate so the window stays inside viewport.
// When the window is larger than the viewport the left/top edge wins and the
// coordinate clamps to 0.
func ClampPosition(candidate Position, size Size, viewport Bounds) Position {
	return Position{
		X: clampAxis(candidate.X, viewport.Width-size.Width),
		Y: clampAxis(candidate.Y, viewport.Height-size.Height),
	}
}

func clampAxis(v, upper int) int {
	if v > upper {
		v = upper
	}
	if v < 0 {
		v = 0
	}
	return v
}

// ClampSize raises candidate to the given minimums. There is no upper bound.
func ClampSize(candidate Size, minWidth, minHeight int) Size {
	if candidate.Width < minWidth {
		candidate.Width = minWidth
	}
	if candidate.Height < minHeight {
		candidate.Height = minHeight
	}
	return candidate
}
