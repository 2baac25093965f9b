package tui

import (
	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
)

// Nominal pixel size of one terminal cell. Config geometry is in pixels and
// is divided by these when windows are opened in a terminal.
const (
	cellWidth  = 8
	cellHeight = 16

	minCellsWide = 10
	minCellsHigh = 2
)

// CellOptions rescales pixel window options for a cell grid: a one-row
// toolbar, at most a one-cell border, and a 2x2 resizer whose top-left cell
// lands on the bottom-right corner of the frame.
func CellOptions(opts window.Options) window.Options {
	out := opts
	if out.Border > 1 {
		out.Border = 1
	}
	out.ToolbarHeight = 1
	out.ResizerSize = 2
	out.MinWidth = max(opts.MinWidth/cellWidth, minCellsWide)
	out.MinHeight = max(opts.MinHeight/cellHeight, minCellsHigh)
	return out
}

// CellPosition converts a pixel offset to cells.
func CellPosition(p geometry.Position) geometry.Position {
	return geometry.Position{X: p.X / cellWidth, Y: p.Y / cellHeight}
}

// CellBounds converts a pixel surface to cells.
func CellBounds(b geometry.Bounds) geometry.Bounds {
	return geometry.Bounds{
		Width:  max(b.Width/cellWidth, 1),
		Height: max(b.Height/cellHeight, 1),
	}
}

// CellSize converts a pixel size to cells, never going below the minimums
// CellOptions installs.
func CellSize(opts window.Options, s geometry.Size) geometry.Size {
	c := CellOptions(opts)
	return geometry.Size{
		Width:  max(s.Width/cellWidth, c.MinWidth),
		Height: max(s.Height/cellHeight, c.MinHeight),
	}
}

// Open places a window given in pixel geometry onto a cell desktop.
func Open(desk Opener, id string, opts window.Options, pos geometry.Position, size geometry.Size) (window.Snapshot, error) {
	return desk.Open(id, CellOptions(opts), CellPosition(pos), CellSize(opts, size))
}

// Opener is the part of desktop.Desktop that Open needs.
type Opener interface {
	Open(id string, opts window.Options, pos geometry.Position, size geometry.Size) (window.Snapshot, error)
}
