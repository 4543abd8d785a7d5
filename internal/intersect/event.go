package intersect

import (
	"time"

	"github.com/stackTD/NextSight-v2/internal/gesture"
	"github.com/stackTD/NextSight-v2/internal/zone"
)

// EventKind identifies the kind of intersection event.
type EventKind string

const (
	// KindHandEnterZone fires once a hand has stably entered a zone.
	KindHandEnterZone EventKind = "hand_enter_zone"
	// KindHandExitZone fires once a hand has stably left a zone.
	KindHandExitZone EventKind = "hand_exit_zone"
	// KindPickGesture fires on a pinch or closed-fist gesture inside a zone.
	KindPickGesture EventKind = "pick_gesture_detected"
	// KindDropGesture fires on an open-hand gesture inside a zone.
	KindDropGesture EventKind = "drop_gesture_detected"
)

// Event is a single hand-zone interaction occurrence.
type Event struct {
	Kind       EventKind       `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	HandID     string          `json:"hand_id"`
	ZoneID     string          `json:"zone_id"`
	ZoneName   string          `json:"zone_name"`
	ZoneType   zone.Type       `json:"zone_type"`
	Confidence float64         `json:"confidence"`
	Gesture    gesture.Gesture `json:"gesture,omitempty"`
	// Duration is how long the hand was inside, set on exit events.
	Duration time.Duration `json:"duration"`
	Method   Method        `json:"method"`
}
