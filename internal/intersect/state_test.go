package intersect

import (
	"testing"
	"time"
)

func TestStateEntersAfterStableHighConfidence(t *testing.T) {
	s := newHandZoneState("right_0", "pick_000")
	now := time.Unix(1000, 0)

	for i := 0; i < requiredStability-1; i++ {
		if s.update(0.9, now) {
			t.Fatalf("state flipped after only %d high samples", i+1)
		}
		now = now.Add(33 * time.Millisecond)
	}
	if !s.update(0.9, now) {
		t.Fatal("state should flip to inside on the 5th stable high sample")
	}
	if !s.inside {
		t.Fatal("state not inside after flip")
	}
}

func TestStateIgnoresNoisySamples(t *testing.T) {
	s := newHandZoneState("right_0", "pick_000")
	now := time.Unix(1000, 0)

	// One low sample inside the stability window blocks the transition
	// until five clean high samples follow it.
	confs := []float64{0.9, 0.9, 0.1, 0.9, 0.9, 0.9, 0.9, 0.9}
	for i, c := range confs[:7] {
		if s.update(c, now) {
			t.Fatalf("flipped at sample %d despite noise", i)
		}
		now = now.Add(33 * time.Millisecond)
	}
	if !s.update(confs[7], now) {
		t.Fatal("expected flip once five clean high samples accumulated")
	}
}

func TestStateExitRequiresStableLowConfidence(t *testing.T) {
	s := newHandZoneState("right_0", "pick_000")
	now := time.Unix(1000, 0)

	for i := 0; i < requiredStability; i++ {
		s.update(0.9, now)
		now = now.Add(33 * time.Millisecond)
	}
	if !s.inside {
		t.Fatal("setup: state should be inside")
	}

	// Low samples arriving immediately are held back by the event interval.
	flipped := false
	for i := 0; i < requiredStability; i++ {
		flipped = s.update(0.0, now) || flipped
		now = now.Add(33 * time.Millisecond)
	}
	if flipped {
		t.Fatal("exit fired before the minimum event interval elapsed")
	}

	// Past the interval, the next low sample completes the exit.
	now = now.Add(minEventInterval)
	if !s.update(0.0, now) {
		t.Fatal("expected exit after stable low confidence past the interval")
	}
	if s.inside {
		t.Fatal("state still inside after exit")
	}
}

func TestStateReEntryHeldBackByEventInterval(t *testing.T) {
	s := newHandZoneState("right_0", "pick_000")
	now := time.Unix(1000, 0)

	for i := 0; i < requiredStability; i++ {
		s.update(0.9, now)
		now = now.Add(33 * time.Millisecond)
	}
	now = now.Add(minEventInterval)
	for i := 0; i < requiredStability; i++ {
		s.update(0.0, now)
		now = now.Add(33 * time.Millisecond)
	}
	if s.inside {
		t.Fatal("setup: state should have exited")
	}

	// High samples re-qualifying right after the exit are held back.
	flipped := false
	for i := 0; i < requiredStability; i++ {
		flipped = s.update(0.9, now) || flipped
		now = now.Add(33 * time.Millisecond)
	}
	if flipped {
		t.Fatal("re-entry fired before the minimum event interval elapsed")
	}

	// Past the interval, the next high sample completes the re-entry.
	now = now.Add(minEventInterval)
	if !s.update(0.9, now) {
		t.Fatal("expected re-entry after stable high confidence past the interval")
	}
	if !s.inside {
		t.Fatal("state not inside after re-entry")
	}
}

func TestDurationInside(t *testing.T) {
	s := newHandZoneState("right_0", "pick_000")
	start := time.Unix(1000, 0)
	now := start

	for i := 0; i < requiredStability; i++ {
		s.update(0.9, now)
		now = now.Add(100 * time.Millisecond)
	}
	entered := s.entryTime

	now = entered.Add(3 * time.Second)
	if got := s.durationInside(now); got != 3*time.Second {
		t.Errorf("duration inside = %v, want 3s", got)
	}

	// After exit, the duration freezes at exit-entry.
	for i := 0; i < requiredStability; i++ {
		s.update(0.0, now)
		now = now.Add(100 * time.Millisecond)
	}
	if s.inside {
		t.Fatal("setup: state should have exited")
	}
	frozen := s.exitTime.Sub(s.entryTime)
	if got := s.durationInside(now.Add(time.Hour)); got != frozen {
		t.Errorf("duration after exit = %v, want %v", got, frozen)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	s := newHandZoneState("right_0", "pick_000")
	now := time.Unix(1000, 0)
	for i := 0; i < historySize*3; i++ {
		s.update(0.5, now)
		now = now.Add(33 * time.Millisecond)
	}
	if len(s.history) != historySize {
		t.Errorf("history length = %d, want %d", len(s.history), historySize)
	}
}
