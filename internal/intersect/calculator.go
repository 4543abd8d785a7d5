// Package intersect computes hand-zone intersections and turns raw per-frame
// detections into debounced enter/exit and gesture events.
package intersect

import (
	"github.com/stackTD/NextSight-v2/internal/detector"
	"github.com/stackTD/NextSight-v2/internal/geometry"
)

// Method selects the intersection strategy.
type Method string

const (
	// MethodPoint checks palm center and fingertips against the zone.
	MethodPoint Method = "point"
	// MethodBoundingBox checks hand bounding box overlap with the zone.
	MethodBoundingBox Method = "bounding_box"
	// MethodHybrid blends both strategies, weighted towards point checks.
	MethodHybrid Method = "hybrid"
)

// Default confidence thresholds per strategy.
const (
	DefaultPointThreshold  = 0.7
	DefaultBBoxThreshold   = 0.5
	DefaultHybridThreshold = 0.6

	// hybridInnerThreshold is the relaxed threshold applied to each
	// sub-strategy before their confidences are blended.
	hybridInnerThreshold = 0.3

	hybridPointWeight = 0.7
	hybridBBoxWeight  = 0.3
)

// Result describes a single hand-zone intersection check.
type Result struct {
	Intersecting bool
	Confidence   float64
	Method       Method

	// PointsInside counts palm-center and fingertip hits (point/hybrid).
	PointsInside int
	// OverlapArea is the zone/hand-bbox overlap (bounding_box/hybrid).
	OverlapArea float64
}

// PointInZone checks palm center plus the five fingertips against the zone.
// Confidence is the fraction of those key points inside the rectangle.
func PointInZone(points []detector.Point3D, rect geometry.Rect, threshold float64) Result {
	res := Result{Method: MethodPoint}
	if len(points) == 0 {
		return res
	}

	tips := detector.Fingertips(points)
	inside := 0
	if center, ok := detector.PalmCenter(points); ok && rect.Contains(center) {
		inside++
	}
	for _, tip := range tips {
		if rect.Contains(tip) {
			inside++
		}
	}

	total := 1 + len(tips)
	res.PointsInside = inside
	res.Confidence = float64(inside) / float64(total)
	res.Intersecting = res.Confidence >= threshold
	return res
}

// BoundingBox checks the overlap between the hand bounding box and the zone.
// Confidence is the overlap area as a fraction of the hand area.
func BoundingBox(points []detector.Point3D, rect geometry.Rect, threshold float64) Result {
	res := Result{Method: MethodBoundingBox}
	bbox, ok := detector.BoundingBox(points)
	if !ok {
		return res
	}
	if !rect.Intersects(bbox) {
		return res
	}

	overlap := rect.IntersectionArea(bbox)
	handArea := bbox.Area()
	if handArea > 0 {
		res.Confidence = overlap / handArea
	}
	res.OverlapArea = overlap
	res.Intersecting = res.Confidence >= threshold
	return res
}

// Hybrid blends the point and bounding-box confidences 70/30.
func Hybrid(points []detector.Point3D, rect geometry.Rect, threshold float64) Result {
	res := Result{Method: MethodHybrid}
	if len(points) == 0 {
		return res
	}

	pointRes := PointInZone(points, rect, hybridInnerThreshold)
	bboxRes := BoundingBox(points, rect, hybridInnerThreshold)

	res.Confidence = pointRes.Confidence*hybridPointWeight + bboxRes.Confidence*hybridBBoxWeight
	res.PointsInside = pointRes.PointsInside
	res.OverlapArea = bboxRes.OverlapArea
	res.Intersecting = res.Confidence >= threshold
	return res
}

// Intersect dispatches to the strategy named by method. Unknown methods fall
// back to hybrid.
func Intersect(method Method, points []detector.Point3D, rect geometry.Rect, threshold float64) Result {
	switch method {
	case MethodPoint:
		return PointInZone(points, rect, threshold)
	case MethodBoundingBox:
		return BoundingBox(points, rect, threshold)
	default:
		return Hybrid(points, rect, threshold)
	}
}
