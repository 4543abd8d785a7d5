package detector

import (
	"math"
	"testing"
)

func TestHandID(t *testing.T) {
	tests := []struct {
		handedness string
		index      int
		want       string
	}{
		{"Left", 0, "left_0"},
		{"Right", 1, "right_1"},
		{"", 0, "unknown_0"},
	}

	for _, tt := range tests {
		if got := HandID(tt.handedness, tt.index); got != tt.want {
			t.Errorf("HandID(%q, %d) = %q, want %q", tt.handedness, tt.index, got, tt.want)
		}
	}
}

func TestBoundingBox(t *testing.T) {
	hand := OpenHandLandmarks("Right")
	bbox, ok := BoundingBox(hand.Landmarks())
	if !ok {
		t.Fatal("expected bounding box for full landmark set")
	}

	// Every landmark must fall within the box
	for i, p := range hand.Points {
		if p.X < bbox.Left() || p.X > bbox.Right() || p.Y < bbox.Top() || p.Y > bbox.Bottom() {
			t.Errorf("landmark %d (%f, %f) outside bbox %+v", i, p.X, p.Y, bbox)
		}
	}

	if bbox.Width <= 0 || bbox.Height <= 0 {
		t.Errorf("expected positive bbox size, got %fx%f", bbox.Width, bbox.Height)
	}

	if _, ok := BoundingBox(nil); ok {
		t.Error("expected no bounding box for nil landmarks")
	}
}

func TestPalmCenter(t *testing.T) {
	hand := OpenHandLandmarks("Right")
	center, ok := PalmCenter(hand.Landmarks())
	if !ok {
		t.Fatal("expected palm center for full landmark set")
	}

	// Palm center is the mean of the wrist and finger-base landmarks
	var sumX, sumY float64
	for _, idx := range palmIndices {
		sumX += hand.Points[idx].X
		sumY += hand.Points[idx].Y
	}
	wantX := sumX / float64(len(palmIndices))
	wantY := sumY / float64(len(palmIndices))

	if math.Abs(center.X-wantX) > 1e-9 || math.Abs(center.Y-wantY) > 1e-9 {
		t.Errorf("PalmCenter = (%f, %f), want (%f, %f)", center.X, center.Y, wantX, wantY)
	}

	if _, ok := PalmCenter([]Point3D{{X: 0.5, Y: 0.5}}); ok {
		t.Error("expected no palm center for too few points")
	}
}

func TestFingertips(t *testing.T) {
	hand := OpenHandLandmarks("Right")
	tips := Fingertips(hand.Landmarks())
	if len(tips) != 5 {
		t.Fatalf("expected 5 fingertips, got %d", len(tips))
	}

	// Fixed finger order: thumb first, pinky last
	if tips[0].X != hand.Points[ThumbTip].X || tips[0].Y != hand.Points[ThumbTip].Y {
		t.Error("first fingertip should be the thumb tip")
	}
	if tips[4].X != hand.Points[PinkyTip].X || tips[4].Y != hand.Points[PinkyTip].Y {
		t.Error("last fingertip should be the pinky tip")
	}

	// Short input skips out-of-range indices instead of failing
	short := hand.Points[:9] // wrist through index tip
	tips = Fingertips(short)
	if len(tips) != 2 {
		t.Errorf("expected 2 fingertips for truncated input, got %d", len(tips))
	}

	if got := Fingertips(nil); got != nil {
		t.Errorf("expected nil fingertips for nil input, got %v", got)
	}
}

func TestLandmarks_Nil(t *testing.T) {
	var h *HandLandmarks
	if got := h.Landmarks(); got != nil {
		t.Errorf("expected nil landmarks for nil hand, got %v", got)
	}
}
