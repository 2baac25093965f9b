package geometry

import "testing"

func TestClampPosition(t *testing.T) {
	viewport := Bounds{Width: 800, Height: 600}
	size := Size{Width: 400, Height: 300}

	tests := []struct {
		name      string
		candidate Position
		want      Position
	}{
		{"inside", Position{X: 10, Y: 20}, Position{X: 10, Y: 20}},
		{"negative clamps to origin", Position{X: -50, Y: -1}, Position{X: 0, Y: 0}},
		{"past right edge", Position{X: 900, Y: 107}, Position{X: 400, Y: 107}},
		{"past bottom edge", Position{X: 0, Y: 1000}, Position{X: 0, Y: 300}},
		{"exactly at bound", Position{X: 400, Y: 300}, Position{X: 400, Y: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampPosition(tt.candidate, size, viewport)
			if got != tt.want {
				t.Fatalf("ClampPosition(%v) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestClampPosition_WindowWiderThanViewportPinsToOrigin(t *testing.T) {
	got := ClampPosition(Position{X: 30, Y: 40}, Size{Width: 500, Height: 500}, Bounds{Width: 200, Height: 100})
	if got.X != 0 || got.Y != 0 {
		t.Fatalf("expected (0,0), got %v", got)
	}
}

func TestClampSize(t *testing.T) {
	tests := []struct {
		candidate Size
		want      Size
	}{
		{Size{Width: 400, Height: 300}, Size{Width: 400, Height: 300}},
		{Size{Width: 10, Height: 300}, Size{Width: 28, Height: 300}},
		{Size{Width: 400, Height: -90}, Size{Width: 400, Height: 28}},
		{Size{Width: 5000, Height: 5000}, Size{Width: 5000, Height: 5000}},
	}
	for _, tt := range tests {
		got := ClampSize(tt.candidate, 28, 28)
		if got != tt.want {
			t.Errorf("ClampSize(%v) = %v, want %v", tt.candidate, got, tt.want)
		}
	}
}

func TestRectContainsExcludesFarEdges(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	if !r.Contains(Position{X: 10, Y: 10}) {
		t.Fatalf("expected top-left corner to be inside")
	}
	if r.Contains(Position{X: 15, Y: 12}) {
		t.Fatalf("expected right edge to be outside")
	}
	if got := r.Offset(Position{X: 1, Y: 2}); got.X != 11 || got.Y != 12 {
		t.Fatalf("unexpected offset rect %+v", got)
	}
}
