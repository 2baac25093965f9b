package tui

import (
	"testing"

	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
)

func TestCellOptions(t *testing.T) {
	opts := window.DefaultOptions()
	opts.Border = 4
	opts.MinWidth = 200

	c := CellOptions(opts)
	if c.Border != 1 || c.ToolbarHeight != 1 || c.ResizerSize != 2 {
		t.Fatalf("unexpected cell chrome %+v", c)
	}
	if c.MinWidth != 25 || c.MinHeight != minCellsHigh {
		t.Fatalf("expected minimums 25x%d, got %dx%d", minCellsHigh, c.MinWidth, c.MinHeight)
	}
}

func TestCellSize_RespectsMinimums(t *testing.T) {
	got := CellSize(window.DefaultOptions(), geometry.Size{Width: 16, Height: 16})
	if got.Width != minCellsWide || got.Height != minCellsHigh {
		t.Fatalf("expected minimum size, got %v", got)
	}

	got = CellSize(window.DefaultOptions(), window.DefaultSize())
	if got.Width != 50 || got.Height != 18 {
		t.Fatalf("expected 50x18 cells, got %v", got)
	}
}

func TestCellPosition(t *testing.T) {
	if got := CellPosition(geometry.Position{X: 83, Y: 40}); got != (geometry.Position{X: 10, Y: 2}) {
		t.Fatalf("expected (10,2), got %v", got)
	}
}

func TestCellBounds(t *testing.T) {
	got := CellBounds(geometry.Bounds{Width: 1024, Height: 768})
	if got.Width != 128 || got.Height != 48 {
		t.Fatalf("expected 128x48, got %v", got)
	}
	got = CellBounds(geometry.Bounds{Width: 4, Height: 4})
	if got.Width != 1 || got.Height != 1 {
		t.Fatalf("expected 1x1 floor, got %v", got)
	}
}
