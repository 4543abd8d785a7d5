package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCameraPlayback(t *testing.T) {
	f1 := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer f1.Close()
	f2 := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer f2.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1, &f2}, false)
	if _, err := cam.ReadFrame(); err == nil {
		t.Fatal("reading a closed camera should fail")
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 2; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		frame.Close()
	}
	if _, err := cam.ReadFrame(); err == nil {
		t.Fatal("non-looping camera should run out of frames")
	}

	cam.Reset()
	frame, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("read after reset: %v", err)
	}
	frame.Close()
}

func TestMockCameraLoops(t *testing.T) {
	f := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer f.Close()

	cam := NewMockCamera([]*gocv.Mat{&f}, true)
	if err := cam.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 5; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("loop read %d: %v", i, err)
		}
		frame.Close()
	}
}

func TestActivityGateDetectsMovement(t *testing.T) {
	gate := NewActivityGate(1.0)
	defer gate.Close()
	gate.SetIdleFrames(3)

	dark := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC1)
	defer dark.Close()
	bright := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC1)
	defer bright.Close()
	bright.AddUChar(200)

	// First frame only establishes the baseline.
	if moving, _ := gate.Observe(&dark); moving {
		t.Error("baseline frame should not count as movement")
	}
	if moving, change := gate.Observe(&bright); !moving || change < 50 {
		t.Errorf("full-frame change: moving=%v change=%.1f", moving, change)
	}

	// A run of identical frames drives the gate idle.
	for i := 0; i < 3; i++ {
		if moving, _ := gate.Observe(&bright); moving {
			t.Errorf("still frame %d reported movement", i)
		}
	}
	if !gate.Idle() {
		t.Error("gate should be idle after a run of still frames")
	}

	// Movement wakes it back up.
	gate.Observe(&dark)
	if gate.Idle() {
		t.Error("movement should clear the idle state")
	}
}

func TestActivityGateReset(t *testing.T) {
	gate := NewActivityGate(1.0)
	defer gate.Close()

	frame := gocv.NewMatWithSize(32, 32, gocv.MatTypeCV8UC1)
	defer frame.Close()

	gate.Observe(&frame)
	gate.Observe(&frame)
	gate.Reset()

	// After reset, the next frame is a baseline again.
	if moving, change := gate.Observe(&frame); moving || change != 0 {
		t.Errorf("post-reset baseline: moving=%v change=%v", moving, change)
	}
}

func TestActivityGateIgnoresBadInput(t *testing.T) {
	gate := NewActivityGate(1.0)
	defer gate.Close()

	if moving, change := gate.Observe(nil); moving || change != 0 {
		t.Error("nil frame should be a no-op")
	}
	empty := gocv.NewMat()
	defer empty.Close()
	if moving, _ := gate.Observe(&empty); moving {
		t.Error("empty frame should be a no-op")
	}
}
