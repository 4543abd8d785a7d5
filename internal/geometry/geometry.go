// Package geometry provides 2D primitives in normalized frame coordinates
// for zone intersection math.
package geometry

// Point is a 2D point in normalized [0,1] frame-relative coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in normalized coordinates with a
// top-left origin.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Left returns the left edge of the rectangle.
func (r Rect) Left() float64 { return r.X }

// Right returns the right edge of the rectangle.
func (r Rect) Right() float64 { return r.X + r.Width }

// Top returns the top edge of the rectangle.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the bottom edge of the rectangle.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Area returns the rectangle area.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Contains reports whether the point is inside the rectangle.
// Points exactly on an edge count as contained.
func (r Rect) Contains(p Point) bool {
	return r.Left() <= p.X && p.X <= r.Right() &&
		r.Top() <= p.Y && p.Y <= r.Bottom()
}

// Intersects reports whether this rectangle overlaps another.
// Touching edges (zero-width overlap) count as non-intersecting.
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right() <= other.Left() ||
		other.Right() <= r.Left() ||
		r.Bottom() <= other.Top() ||
		other.Bottom() <= r.Top())
}

// IntersectionArea returns the overlap area with another rectangle,
// or 0 if the rectangles are disjoint.
func (r Rect) IntersectionArea(other Rect) float64 {
	if !r.Intersects(other) {
		return 0
	}

	left := max(r.Left(), other.Left())
	right := min(r.Right(), other.Right())
	top := max(r.Top(), other.Top())
	bottom := min(r.Bottom(), other.Bottom())

	return (right - left) * (bottom - top)
}

// FromCorners builds a rectangle from two opposite corner points,
// regardless of drag direction.
func FromCorners(a, b Point) Rect {
	left := min(a.X, b.X)
	top := min(a.Y, b.Y)
	return Rect{
		X:      left,
		Y:      top,
		Width:  max(a.X, b.X) - left,
		Height: max(a.Y, b.Y) - top,
	}
}
