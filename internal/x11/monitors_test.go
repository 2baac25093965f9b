package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/dextop/internal/geometry"
)

func TestIntersect(t *testing.T) {
	a := geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := geometry.Rect{X: 50, Y: 80, Width: 100, Height: 100}
	if got := intersect(a, b); got != (geometry.Rect{X: 50, Y: 80, Width: 50, Height: 20}) {
		t.Fatalf("unexpected intersection %+v", got)
	}
	if got := intersect(a, geometry.Rect{X: 100, Width: 10, Height: 10}); got.Width != 0 {
		t.Fatalf("expected empty intersection, got %+v", got)
	}
}

func TestAccumulateStrut_TopPanelOnOneMonitor(t *testing.T) {
	root := geometry.Rect{Width: 3840, Height: 1080}
	left := geometry.Rect{Width: 1920, Height: 1080}
	right := geometry.Rect{X: 1920, Width: 1920, Height: 1080}
	panel := ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 1919}

	if got := accumulateStrut(insets{}, left, root, panel); got.top != 30 {
		t.Fatalf("expected 30px top inset on the left monitor, got %+v", got)
	}
	if got := accumulateStrut(insets{}, right, root, panel); !got.zero() {
		t.Fatalf("expected no inset on the right monitor, got %+v", got)
	}
}

func TestAccumulateStrut_BottomAndLeft(t *testing.T) {
	root := geometry.Rect{Width: 1920, Height: 1080}
	sp := fullStrut(&ewmh.WmStrut{Bottom: 40, Left: 64}, root)

	acc := accumulateStrut(insets{}, root, root, sp)
	if acc.bottom != 40 || acc.left != 64 {
		t.Fatalf("unexpected insets %+v", acc)
	}
	area := acc.apply(root)
	if area != (geometry.Rect{X: 64, Y: 0, Width: 1856, Height: 1040}) {
		t.Fatalf("unexpected work area %+v", area)
	}
}
