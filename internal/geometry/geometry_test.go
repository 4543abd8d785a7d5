package geometry

import (
	"math"
	"testing"
)

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 0.2, Y: 0.2, Width: 0.4, Height: 0.3}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{X: 0.4, Y: 0.35}, true},
		{"top-left corner", Point{X: 0.2, Y: 0.2}, true},
		{"bottom-right corner", Point{X: 0.6, Y: 0.5}, true},
		{"on left edge", Point{X: 0.2, Y: 0.3}, true},
		{"on bottom edge", Point{X: 0.4, Y: 0.5}, true},
		{"left of rect", Point{X: 0.19, Y: 0.3}, false},
		{"below rect", Point{X: 0.4, Y: 0.51}, false},
		{"far away", Point{X: 0.9, Y: 0.9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRect_Intersects(t *testing.T) {
	r := Rect{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.3}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", Rect{X: 0.2, Y: 0.2, Width: 0.3, Height: 0.3}, true},
		{"contained", Rect{X: 0.15, Y: 0.15, Width: 0.1, Height: 0.1}, true},
		{"containing", Rect{X: 0, Y: 0, Width: 1, Height: 1}, true},
		{"disjoint right", Rect{X: 0.5, Y: 0.1, Width: 0.2, Height: 0.2}, false},
		{"disjoint below", Rect{X: 0.1, Y: 0.5, Width: 0.2, Height: 0.2}, false},
		{"touching right edge", Rect{X: 0.4, Y: 0.1, Width: 0.2, Height: 0.2}, false},
		{"touching bottom edge", Rect{X: 0.1, Y: 0.4, Width: 0.2, Height: 0.2}, false},
		{"touching corner", Rect{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%v) = %v, want %v", tt.other, got, tt.want)
			}
			// Intersection is symmetric
			if got := tt.other.Intersects(r); got != tt.want {
				t.Errorf("reverse Intersects(%v) = %v, want %v", r, got, tt.want)
			}
		})
	}
}

func TestRect_IntersectionArea(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 0.5, Height: 0.5}

	// Half overlap in x, full in y
	other := Rect{X: 0.25, Y: 0, Width: 0.5, Height: 0.5}
	got := r.IntersectionArea(other)
	want := 0.25 * 0.5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("IntersectionArea = %f, want %f", got, want)
	}

	// Disjoint rectangles have zero overlap
	far := Rect{X: 0.8, Y: 0.8, Width: 0.1, Height: 0.1}
	if got := r.IntersectionArea(far); got != 0 {
		t.Errorf("IntersectionArea for disjoint rects = %f, want 0", got)
	}

	// Full containment yields the contained area
	inner := Rect{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2}
	if got := r.IntersectionArea(inner); math.Abs(got-inner.Area()) > 1e-9 {
		t.Errorf("IntersectionArea for contained rect = %f, want %f", got, inner.Area())
	}
}

func TestRect_Center(t *testing.T) {
	r := Rect{X: 0.2, Y: 0.4, Width: 0.2, Height: 0.2}
	c := r.Center()
	if math.Abs(c.X-0.3) > 1e-9 || math.Abs(c.Y-0.5) > 1e-9 {
		t.Errorf("Center = %v, want (0.3, 0.5)", c)
	}
}

func TestFromCorners(t *testing.T) {
	// Drag direction must not matter
	a := Point{X: 0.6, Y: 0.2}
	b := Point{X: 0.3, Y: 0.5}

	r := FromCorners(a, b)
	want := Rect{X: 0.3, Y: 0.2, Width: 0.3, Height: 0.3}

	if math.Abs(r.X-want.X) > 1e-9 || math.Abs(r.Y-want.Y) > 1e-9 ||
		math.Abs(r.Width-want.Width) > 1e-9 || math.Abs(r.Height-want.Height) > 1e-9 {
		t.Errorf("FromCorners = %+v, want %+v", r, want)
	}
}
