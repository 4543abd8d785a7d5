package gesture

import (
	"testing"

	"github.com/stackTD/NextSight-v2/internal/detector"
)

func TestClassify_Open(t *testing.T) {
	hand := detector.OpenHandLandmarks("Right")
	if got := Classify(hand.Landmarks()); got != Open {
		t.Errorf("Classify(open hand) = %q, want %q", got, Open)
	}
}

func TestClassify_Closed(t *testing.T) {
	hand := detector.ClosedFistLandmarks("Right")
	if got := Classify(hand.Landmarks()); got != Closed {
		t.Errorf("Classify(closed fist) = %q, want %q", got, Closed)
	}
}

func TestClassify_Pinch(t *testing.T) {
	hand := detector.PinchHandLandmarks("Right")

	// Precondition: thumb and index tips adjacent in normalized coords
	dist := detector.Distance2D(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
	if dist >= 0.05 {
		t.Fatalf("fixture thumb-index distance %f, want < 0.05", dist)
	}

	if got := Classify(hand.Landmarks()); got != Pinch {
		t.Errorf("Classify(pinch hand) = %q, want %q", got, Pinch)
	}
}

func TestClassify_ScaleInvariant(t *testing.T) {
	// Shrinking the hand toward its wrist must not change the outcome,
	// as long as it stays above the degenerate-span floor.
	hand := detector.OpenHandLandmarks("Right")
	wrist := hand.Points[detector.Wrist]
	for i := range hand.Points {
		hand.Points[i].X = wrist.X + (hand.Points[i].X-wrist.X)*0.5
		hand.Points[i].Y = wrist.Y + (hand.Points[i].Y-wrist.Y)*0.5
	}

	if got := Classify(hand.Landmarks()); got != Open {
		t.Errorf("Classify(half-scale open hand) = %q, want %q", got, Open)
	}
}

func TestClassify_ClusteredNeverOpen(t *testing.T) {
	// All 21 points clustered within a 0.03 radius: the signal is too
	// degenerate to read finger geometry. Closed or unknown are both
	// acceptable; open is not.
	var hand detector.HandLandmarks
	offsets := []struct{ dx, dy float64 }{
		{0, 0}, {0.01, 0.005}, {-0.01, 0.01}, {0.02, -0.01}, {-0.015, -0.015},
		{0.005, 0.02}, {0.025, 0.01}, {-0.02, 0.005}, {0.01, -0.02}, {0, 0.015},
		{-0.005, -0.01}, {0.015, 0.015}, {0.02, 0.02}, {-0.01, -0.02}, {0.01, 0.01},
		{-0.025, 0}, {0.005, -0.015}, {0.02, 0}, {-0.015, 0.02}, {0, -0.025},
		{0.01, 0.025},
	}
	for i, off := range offsets {
		hand.Points[i] = detector.Point3D{X: 0.5 + off.dx, Y: 0.5 + off.dy}
	}

	got := Classify(hand.Landmarks())
	if got == Open {
		t.Errorf("Classify(clustered points) = %q, must never be open", got)
	}
	if got == Pinch {
		t.Errorf("Classify(clustered points) = %q, must never be pinch", got)
	}
}

func TestClassify_DegradedInput(t *testing.T) {
	tests := []struct {
		name   string
		points []detector.Point3D
	}{
		{"nil input", nil},
		{"empty input", []detector.Point3D{}},
		{"short input", make([]detector.Point3D, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.points); got != Unknown {
				t.Errorf("Classify = %q, want %q", got, Unknown)
			}
		})
	}
}

func TestClassify_AllPointsIdentical(t *testing.T) {
	points := make([]detector.Point3D, detector.NumLandmarks)
	for i := range points {
		points[i] = detector.Point3D{X: 0.5, Y: 0.5}
	}

	// Zero-size bounding box: no geometry to classify
	if got := Classify(points); got != Unknown {
		t.Errorf("Classify(degenerate points) = %q, want %q", got, Unknown)
	}
}
