package intersect

import "time"

// Debounce tuning for enter/exit detection. A hand must present several
// consecutive high-confidence frames before it counts as inside, and several
// low-confidence frames before it counts as outside, with a floor on how
// often the state may flip.
const (
	historySize       = 15
	requiredStability = 5
	enterConfidence   = 0.6
	exitConfidence    = 0.3
	minEventInterval  = time.Second
)

// handZoneState debounces the inside/outside decision for one (hand, zone)
// pair.
type handZoneState struct {
	handID string
	zoneID string

	inside    bool
	entryTime time.Time
	exitTime  time.Time

	history   []float64
	lastEvent time.Time
}

func newHandZoneState(handID, zoneID string) *handZoneState {
	return &handZoneState{
		handID:  handID,
		zoneID:  zoneID,
		history: make([]float64, 0, historySize),
	}
}

// update records a confidence sample and reports whether the inside/outside
// state flipped on this sample.
func (s *handZoneState) update(confidence float64, now time.Time) bool {
	s.history = append(s.history, confidence)
	if len(s.history) > historySize {
		s.history = s.history[1:]
	}

	recent := s.history
	if len(recent) > requiredStability {
		recent = recent[len(recent)-requiredStability:]
	}

	if !s.inside {
		high := 0
		for _, c := range recent {
			if c > enterConfidence {
				high++
			}
		}
		if high >= requiredStability && now.Sub(s.lastEvent) >= minEventInterval {
			s.inside = true
			s.entryTime = now
			s.lastEvent = now
			return true
		}
		return false
	}

	low := 0
	for _, c := range recent {
		if c < exitConfidence {
			low++
		}
	}
	if low >= requiredStability && now.Sub(s.lastEvent) >= minEventInterval {
		s.inside = false
		s.exitTime = now
		s.lastEvent = now
		return true
	}
	return false
}

// durationInside reports how long the hand has been (or was) inside the zone.
func (s *handZoneState) durationInside(now time.Time) time.Duration {
	switch {
	case s.inside && !s.entryTime.IsZero():
		return now.Sub(s.entryTime)
	case !s.exitTime.IsZero() && !s.entryTime.IsZero():
		return s.exitTime.Sub(s.entryTime)
	default:
		return 0
	}
}

// recentConfidence returns up to the n most recent confidence samples.
func (s *handZoneState) recentConfidence(n int) []float64 {
	if len(s.history) <= n {
		return append([]float64(nil), s.history...)
	}
	return append([]float64(nil), s.history[len(s.history)-n:]...)
}
