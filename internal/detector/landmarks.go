// Package detector provides hand detection interfaces and landmark types
// for zone interaction tracking.
package detector

import (
	"fmt"
	"math"
	"strings"

	"github.com/stackTD/NextSight-v2/internal/geometry"
)

// Hand landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// palmIndices are the wrist and finger-base landmarks averaged for the
// palm center.
var palmIndices = [...]int{Wrist, ThumbCMC, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// fingertipIndices are the five fingertip landmarks in fixed finger order
// (thumb, index, middle, ring, pinky).
var fingertipIndices = [...]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Point3D is a single landmark position in normalized coordinates.
// Z is depth relative to the wrist; zone logic only uses X and Y.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks for one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Landmarks returns the landmark points as a slice.
func (h *HandLandmarks) Landmarks() []Point3D {
	if h == nil {
		return nil
	}
	return h.Points[:]
}

// HandID builds the per-frame hand identifier from handedness and detection
// index, e.g. "left_0". The identifier is not a persistent track id: the
// detector assigns indices per frame, so a hand's id is only stable while
// handedness and detection order hold. Hosts with a real tracker can key
// state on their own ids instead.
func HandID(handedness string, index int) string {
	hand := strings.ToLower(handedness)
	if hand == "" {
		hand = "unknown"
	}
	return fmt.Sprintf("%s_%d", hand, index)
}

// Distance2D calculates the planar Euclidean distance between two landmarks,
// ignoring depth.
func Distance2D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BoundingBox returns the axis-aligned box enclosing all landmarks.
// The second return value is false when the input is empty.
func BoundingBox(points []Point3D) (geometry.Rect, bool) {
	if len(points) == 0 {
		return geometry.Rect{}, false
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	return geometry.Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}, true
}

// PalmCenter returns the arithmetic mean of the six palm landmarks.
// The second return value is false when too few points are present.
func PalmCenter(points []Point3D) (geometry.Point, bool) {
	if len(points) < len(palmIndices) {
		return geometry.Point{}, false
	}

	var sumX, sumY float64
	n := 0
	for _, idx := range palmIndices {
		if idx >= len(points) {
			continue
		}
		sumX += points[idx].X
		sumY += points[idx].Y
		n++
	}
	if n == 0 {
		return geometry.Point{}, false
	}

	return geometry.Point{X: sumX / float64(n), Y: sumY / float64(n)}, true
}

// Fingertips returns the fingertip positions in fixed finger order,
// skipping any index beyond the input length.
func Fingertips(points []Point3D) []geometry.Point {
	if len(points) == 0 {
		return nil
	}

	tips := make([]geometry.Point, 0, len(fingertipIndices))
	for _, idx := range fingertipIndices {
		if idx >= len(points) {
			continue
		}
		tips = append(tips, geometry.Point{X: points[idx].X, Y: points[idx].Y})
	}
	return tips
}
