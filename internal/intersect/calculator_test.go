package intersect

import (
	"math"
	"testing"

	"github.com/stackTD/NextSight-v2/internal/detector"
	"github.com/stackTD/NextSight-v2/internal/geometry"
)

var (
	fullFrame = geometry.Rect{X: 0, Y: 0, Width: 1, Height: 1}
	farCorner = geometry.Rect{X: 0.9, Y: 0.9, Width: 0.05, Height: 0.05}
)

func openHandPoints() []detector.Point3D {
	return detector.OpenHandLandmarks("Right").Landmarks()
}

func TestPointInZoneFullContainment(t *testing.T) {
	res := PointInZone(openHandPoints(), fullFrame, DefaultPointThreshold)
	if !res.Intersecting {
		t.Error("hand fully inside zone should intersect")
	}
	if res.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", res.Confidence)
	}
	if res.PointsInside != 6 {
		t.Errorf("points inside = %d, want 6 (palm + 5 fingertips)", res.PointsInside)
	}
}

func TestPointInZoneDisjoint(t *testing.T) {
	res := PointInZone(openHandPoints(), farCorner, DefaultPointThreshold)
	if res.Intersecting || res.Confidence != 0 {
		t.Errorf("disjoint zone: intersecting=%v confidence=%v", res.Intersecting, res.Confidence)
	}
}

func TestPointInZonePartialBelowThreshold(t *testing.T) {
	// Zone covering only the middle fingertip of the open-hand fixture.
	hand := detector.OpenHandLandmarks("Right")
	tip := hand.Points[detector.MiddleTip]
	rect := geometry.Rect{X: tip.X - 0.01, Y: tip.Y - 0.01, Width: 0.02, Height: 0.02}

	res := PointInZone(hand.Landmarks(), rect, DefaultPointThreshold)
	if res.Intersecting {
		t.Error("one fingertip out of six key points must not clear the 0.7 threshold")
	}
	want := 1.0 / 6.0
	if math.Abs(res.Confidence-want) > 1e-9 {
		t.Errorf("confidence = %v, want %v", res.Confidence, want)
	}
}

func TestPointInZoneEmptyInput(t *testing.T) {
	res := PointInZone(nil, fullFrame, DefaultPointThreshold)
	if res.Intersecting || res.Confidence != 0 {
		t.Error("nil landmarks should yield a zero result")
	}
}

func TestBoundingBoxOverlapRatio(t *testing.T) {
	// Hand bbox spans (0,0)-(0.2,0.2); zone covers its right half.
	points := make([]detector.Point3D, 21)
	points[0] = detector.Point3D{X: 0, Y: 0}
	points[1] = detector.Point3D{X: 0.2, Y: 0.2}
	for i := 2; i < 21; i++ {
		points[i] = detector.Point3D{X: 0.1, Y: 0.1}
	}
	rect := geometry.Rect{X: 0.1, Y: 0, Width: 0.5, Height: 0.5}

	res := BoundingBox(points, rect, DefaultBBoxThreshold)
	if math.Abs(res.Confidence-0.5) > 1e-9 {
		t.Errorf("confidence = %v, want 0.5", res.Confidence)
	}
	if !res.Intersecting {
		t.Error("half overlap should satisfy the 0.5 bbox threshold")
	}
	if math.Abs(res.OverlapArea-0.02) > 1e-9 {
		t.Errorf("overlap area = %v, want 0.02", res.OverlapArea)
	}
}

func TestBoundingBoxDisjoint(t *testing.T) {
	res := BoundingBox(openHandPoints(), farCorner, DefaultBBoxThreshold)
	if res.Intersecting || res.Confidence != 0 {
		t.Error("disjoint bbox should yield a zero result")
	}
}

func TestHybridBlendsConfidences(t *testing.T) {
	res := Hybrid(openHandPoints(), fullFrame, DefaultHybridThreshold)
	if !res.Intersecting {
		t.Error("hand fully inside zone should intersect with hybrid")
	}
	// Point and bbox confidences are both 1.0, so the blend is exact.
	if math.Abs(res.Confidence-1.0) > 1e-9 {
		t.Errorf("confidence = %v, want 1.0", res.Confidence)
	}
	if res.Method != MethodHybrid {
		t.Errorf("method = %s, want hybrid", res.Method)
	}
}

func TestHybridDisjoint(t *testing.T) {
	res := Hybrid(openHandPoints(), farCorner, DefaultHybridThreshold)
	if res.Intersecting || res.Confidence != 0 {
		t.Error("disjoint zone should yield a zero hybrid result")
	}
}

func TestIntersectDispatch(t *testing.T) {
	points := openHandPoints()
	if got := Intersect(MethodPoint, points, fullFrame, 0.7).Method; got != MethodPoint {
		t.Errorf("method = %s, want point", got)
	}
	if got := Intersect(MethodBoundingBox, points, fullFrame, 0.5).Method; got != MethodBoundingBox {
		t.Errorf("method = %s, want bounding_box", got)
	}
	if got := Intersect("telepathy", points, fullFrame, 0.6).Method; got != MethodHybrid {
		t.Errorf("unknown method should fall back to hybrid, got %s", got)
	}
}
