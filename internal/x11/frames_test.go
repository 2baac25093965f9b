package x11

import (
	"testing"

	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
)

func testSnapshot() window.Snapshot {
	return window.Snapshot{
		ID:         "notes",
		Visibility: window.Shown,
		Border:     2,
		Extent:     geometry.Rect{X: 10, Y: 20, Width: 104, Height: 82},
		Toolbar:    geometry.Rect{X: 12, Y: 22, Width: 100, Height: 28},
		Content:    geometry.Rect{X: 12, Y: 50, Width: 100, Height: 50},
		Resizer:    geometry.Rect{X: 97, Y: 85, Width: 35, Height: 35},
	}
}

func TestLayout_OffsetsByOrigin(t *testing.T) {
	pieces := layout(testSnapshot(), geometry.Position{X: 100, Y: 5}, 0xff0000)

	if got := pieces[partContent].rect; got != (geometry.Rect{X: 112, Y: 55, Width: 100, Height: 50}) {
		t.Fatalf("unexpected content rect %+v", got)
	}
	if got := pieces[partBorderTop].rect; got != (geometry.Rect{X: 110, Y: 25, Width: 104, Height: 2}) {
		t.Fatalf("unexpected top border %+v", got)
	}
	if got := pieces[partBorderRight].rect; got != (geometry.Rect{X: 212, Y: 27, Width: 2, Height: 78}) {
		t.Fatalf("unexpected right border %+v", got)
	}
	if got := pieces[partBorderBottom].rect; got != (geometry.Rect{X: 110, Y: 105, Width: 104, Height: 2}) {
		t.Fatalf("unexpected bottom border %+v", got)
	}
}

func TestLayout_HighlightColor(t *testing.T) {
	s := testSnapshot()
	idle := layout(s, geometry.Position{}, 0xff0000)
	if idle[partToolbar].pixel != ColorIdleChrome {
		t.Fatalf("expected idle chrome, got %06x", idle[partToolbar].pixel)
	}

	s.Highlighted = true
	hot := layout(s, geometry.Position{}, 0xff0000)
	for _, p := range []part{partToolbar, partResizer, partBorderLeft} {
		if hot[p].pixel != 0xff0000 {
			t.Fatalf("part %d: expected highlight, got %06x", p, hot[p].pixel)
		}
	}
	if hot[partContent].pixel != ColorContent {
		t.Fatalf("content must not take the highlight")
	}
}

func TestLayout_HiddenChromeKeepsContent(t *testing.T) {
	s := testSnapshot()
	s.Visibility = window.Hidden
	pieces := layout(s, geometry.Position{}, 0)

	for p := part(0); p < partCount; p++ {
		if want := p == partContent; pieces[p].visible != want {
			t.Fatalf("part %d: expected visible=%v", p, want)
		}
	}
}

func TestLayout_NoBorder(t *testing.T) {
	s := testSnapshot()
	s.Border = 0
	pieces := layout(s, geometry.Position{}, 0)

	if pieces[partBorderTop].visible || pieces[partBorderLeft].visible {
		t.Fatalf("expected no border pieces for border 0")
	}
	if !pieces[partToolbar].visible || !pieces[partResizer].visible {
		t.Fatalf("expected toolbar and resizer to stay visible")
	}
}
