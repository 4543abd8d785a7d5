// Package gesture provides coarse hand gesture classification from landmarks.
package gesture

import (
	"math"

	"github.com/stackTD/NextSight-v2/internal/detector"
)

// Gesture is the coarse hand pose classification.
type Gesture string

const (
	// Open represents an open palm with fingers extended.
	Open Gesture = "open"
	// Closed represents a fist with fingers curled to the palm.
	Closed Gesture = "closed"
	// Pinch represents thumb and index fingertips touching.
	Pinch Gesture = "pinch"
	// Unknown is returned when the pose matches nothing confidently.
	Unknown Gesture = "unknown"
)

// Classification thresholds. All distances are relative to the hand's own
// span, so classification is invariant to hand size and camera distance.
const (
	// pinchDiagFraction is the maximum thumb-to-index distance for a pinch,
	// as a fraction of the hand bounding-box diagonal.
	pinchDiagFraction = 0.25

	// extendedRatio is the minimum fingertip/base extension ratio for a
	// finger to count as extended.
	extendedRatio = 1.8

	// curledRatio is the maximum extension ratio for a finger to count as
	// curled toward the palm.
	curledRatio = 1.2

	// stillExtendedRatio is the looser extension bound used to confirm that
	// a pinch is not just a fully closed fist.
	stillExtendedRatio = 1.5

	// minHandSpan is the minimum bounding-box diagonal for open and pinch
	// calls. Below this the landmark set is too degenerate to read fine
	// finger geometry, and the classifier refuses to call anything but
	// closed or unknown.
	minHandSpan = 0.1
)

// fingers pairs each non-thumb fingertip with its base (MCP) landmark.
// The thumb is excluded from extension voting; its geometry is handled by
// the pinch check.
var fingers = [...]struct{ tip, base int }{
	{detector.IndexTip, detector.IndexMCP},
	{detector.MiddleTip, detector.MiddleMCP},
	{detector.RingTip, detector.RingMCP},
	{detector.PinkyTip, detector.PinkyMCP},
}

// Classify determines the coarse gesture from a full set of hand landmarks.
// It returns Unknown for nil, empty, or short input, and degrades to Unknown
// rather than guessing when the pose is ambiguous.
//
// Checks are evaluated in priority order: pinch, then closed, then open.
func Classify(points []detector.Point3D) Gesture {
	if len(points) < detector.NumLandmarks {
		return Unknown
	}

	bbox, ok := detector.BoundingBox(points)
	if !ok {
		return Unknown
	}
	diag := diagonal(bbox.Width, bbox.Height)
	if diag <= 0 {
		return Unknown
	}

	wrist := points[detector.Wrist]
	ratios := make([]float64, len(fingers))
	for i, f := range fingers {
		base := detector.Distance2D(wrist, points[f.base])
		if base <= 0 {
			ratios[i] = 0
			continue
		}
		ratios[i] = detector.Distance2D(wrist, points[f.tip]) / base
	}

	// Pinch: thumb and index tips close relative to hand span, with at
	// least one other finger still extended to rule out a fist.
	if diag >= minHandSpan {
		thumbIndex := detector.Distance2D(points[detector.ThumbTip], points[detector.IndexTip])
		if thumbIndex < pinchDiagFraction*diag {
			for _, r := range ratios[1:] { // middle, ring, pinky
				if r >= stillExtendedRatio {
					return Pinch
				}
			}
		}
	}

	// Closed: a majority of fingers curled back near the palm.
	curled := 0
	for _, r := range ratios {
		if r <= curledRatio {
			curled++
		}
	}
	if curled >= 3 {
		return Closed
	}

	// Open: a majority of fingers clearly extended past their bases.
	if diag >= minHandSpan {
		extended := 0
		for _, r := range ratios {
			if r >= extendedRatio {
				extended++
			}
		}
		if extended >= 3 {
			return Open
		}
	}

	return Unknown
}

func diagonal(w, h float64) float64 {
	return math.Sqrt(w*w + h*h)
}
