package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEventCreateAndRecent(t *testing.T) {
	s := newTestStore(t)
	events := s.Events()

	base := time.Now().Add(-time.Minute)
	records := []*EventRecord{
		{Type: "hand_enter_zone", HandID: "right_0", ZoneID: "pick_000", ZoneName: "Pick A", ZoneType: "pick", Confidence: 0.92, CreatedAt: base},
		{Type: "pick_gesture_detected", HandID: "right_0", ZoneID: "pick_000", ZoneName: "Pick A", ZoneType: "pick", Confidence: 0.88, Gesture: "closed", CreatedAt: base.Add(2 * time.Second)},
		{Type: "hand_exit_zone", HandID: "right_0", ZoneID: "pick_000", ZoneName: "Pick A", ZoneType: "pick", Duration: 3200 * time.Millisecond, CreatedAt: base.Add(5 * time.Second)},
	}
	for _, e := range records {
		if err := events.Create(e); err != nil {
			t.Fatalf("create event: %v", err)
		}
		if e.ID == "" {
			t.Fatal("create should assign an id")
		}
	}

	got, err := events.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("recent returned %d events, want 3", len(got))
	}
	if got[0].Type != "hand_exit_zone" {
		t.Errorf("newest first: got %s", got[0].Type)
	}
	if got[0].Duration != 3200*time.Millisecond {
		t.Errorf("duration round trip = %v", got[0].Duration)
	}
}

func TestEventCountByType(t *testing.T) {
	s := newTestStore(t)
	events := s.Events()

	for i := 0; i < 3; i++ {
		if err := events.Create(&EventRecord{Type: "pick_gesture_detected", HandID: "left_0", ZoneID: "pick_000", ZoneType: "pick"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := events.Create(&EventRecord{Type: "drop_gesture_detected", HandID: "left_0", ZoneID: "drop_000", ZoneType: "drop"}); err != nil {
		t.Fatal(err)
	}

	counts, err := events.CountByType()
	if err != nil {
		t.Fatalf("count by type: %v", err)
	}
	if counts["pick_gesture_detected"] != 3 || counts["drop_gesture_detected"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestEventForZoneAndPrune(t *testing.T) {
	s := newTestStore(t)
	events := s.Events()

	old := time.Now().Add(-2 * time.Hour)
	if err := events.Create(&EventRecord{Type: "hand_enter_zone", HandID: "left_0", ZoneID: "pick_000", ZoneType: "pick", CreatedAt: old}); err != nil {
		t.Fatal(err)
	}
	if err := events.Create(&EventRecord{Type: "hand_enter_zone", HandID: "left_0", ZoneID: "drop_000", ZoneType: "drop"}); err != nil {
		t.Fatal(err)
	}

	forZone, err := events.ForZone("pick_000", 10)
	if err != nil {
		t.Fatalf("for zone: %v", err)
	}
	if len(forZone) != 1 || forZone[0].ZoneID != "pick_000" {
		t.Errorf("for zone = %+v", forZone)
	}

	removed, err := events.DeleteOlderThan(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("pruned %d events, want 1", removed)
	}
}

func TestEventTypeConstraint(t *testing.T) {
	s := newTestStore(t)
	err := s.Events().Create(&EventRecord{Type: "teleport", HandID: "left_0", ZoneID: "pick_000", ZoneType: "pick"})
	if err == nil {
		t.Fatal("unknown event type should violate the check constraint")
	}
}

func TestOutcomeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	outcomes := s.Outcomes()

	o := &OutcomeRecord{
		ProcessID:   "process_1",
		ProcessName: "Assembly",
		HandID:      "right_0",
		PickZoneID:  "pick_000",
		DropZoneID:  "drop_000",
		Success:     true,
		Message:     "OK: Assembly completed",
	}
	if err := outcomes.Create(o); err != nil {
		t.Fatalf("create outcome: %v", err)
	}

	got, err := outcomes.GetByID(o.ID)
	if err != nil {
		t.Fatalf("get outcome: %v", err)
	}
	if !got.Success || got.ProcessName != "Assembly" || got.Message != "OK: Assembly completed" {
		t.Errorf("outcome round trip: %+v", got)
	}

	if _, err := outcomes.GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing outcome error = %v, want ErrNotFound", err)
	}
}

func TestOutcomeTotals(t *testing.T) {
	s := newTestStore(t)
	outcomes := s.Outcomes()

	for i := 0; i < 2; i++ {
		if err := outcomes.Create(&OutcomeRecord{ProcessID: "process_1", HandID: "right_0", Success: true}); err != nil {
			t.Fatal(err)
		}
	}
	if err := outcomes.Create(&OutcomeRecord{ProcessID: "process_1", HandID: "left_0", Success: false, Message: "NG: Wrong process"}); err != nil {
		t.Fatal(err)
	}

	completed, failed, err := outcomes.Totals("process_1")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if completed != 2 || failed != 1 {
		t.Errorf("totals = %d completed, %d failed", completed, failed)
	}

	completed, failed, err = outcomes.Totals("process_999")
	if err != nil || completed != 0 || failed != 0 {
		t.Errorf("unknown process totals = %d %d %v", completed, failed, err)
	}
}
