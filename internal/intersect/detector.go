package intersect

import (
	"log"
	"sync"
	"time"

	"github.com/stackTD/NextSight-v2/internal/detector"
	"github.com/stackTD/NextSight-v2/internal/gesture"
	"github.com/stackTD/NextSight-v2/internal/zone"
)

// DefaultGestureCooldown is the minimum spacing between two gesture events of
// the same type from the same hand.
const DefaultGestureCooldown = 2 * time.Second

// gesture event types used for cooldown bookkeeping.
const (
	gesturePick = "pick"
	gestureDrop = "drop"
)

// HandInZone is a live intersection entry for UI highlighting.
type HandInZone struct {
	HandID     string          `json:"hand_id"`
	Confidence float64         `json:"confidence"`
	Duration   time.Duration   `json:"duration"`
	Method     Method          `json:"method"`
	Gesture    gesture.Gesture `json:"gesture"`
}

// FrameStats summarizes a single processed frame.
type FrameStats struct {
	TotalZones        int     `json:"total_zones"`
	ActiveZones       int     `json:"active_zones"`
	ZonesWithHands    int     `json:"zones_with_hands"`
	TotalHandsInZones int     `json:"total_hands_in_zones"`
	PickZonesActive   int     `json:"pick_zones_active"`
	DropZonesActive   int     `json:"drop_zones_active"`
	Method            Method  `json:"detection_method"`
	Threshold         float64 `json:"confidence_threshold"`
}

// FrameResult is the per-frame output of the intersection detector.
type FrameResult struct {
	// Intersections maps zone id to the hands currently inside it.
	Intersections map[string][]HandInZone `json:"intersections"`
	Events        []Event                 `json:"events"`
	Stats         FrameStats              `json:"statistics"`
}

// ZoneStatus describes the hands currently inside one zone.
type ZoneStatus struct {
	ZoneID    string                 `json:"zone_id"`
	HasHands  bool                   `json:"has_hands"`
	HandCount int                    `json:"hand_count"`
	Hands     []string               `json:"hands"`
	States    map[string]HandInState `json:"states"`
}

// HandInState is the per-hand debounce detail inside a ZoneStatus.
type HandInState struct {
	Duration         time.Duration `json:"duration"`
	EntryTime        time.Time     `json:"entry_time"`
	RecentConfidence []float64     `json:"recent_confidence"`
}

// stateKey identifies one (hand, zone) debounce state. Hand ids contain
// underscores themselves, so a composite string key would be ambiguous.
type stateKey struct {
	handID string
	zoneID string
}

// Detector tracks hand-zone intersection state across frames. The frame
// loop serializes Process calls; configuration and status reads may come
// from other goroutines.
type Detector struct {
	mu        sync.Mutex
	method    Method
	threshold float64

	states      map[stateKey]*handZoneState
	active      map[string][]string
	lastGesture map[string]map[string]time.Time
	cooldown    time.Duration

	now func() time.Time
}

// NewDetector creates a detector with the hybrid strategy and default
// thresholds.
func NewDetector() *Detector {
	return &Detector{
		method:      MethodHybrid,
		threshold:   DefaultHybridThreshold,
		states:      make(map[stateKey]*handZoneState),
		active:      make(map[string][]string),
		lastGesture: make(map[string]map[string]time.Time),
		cooldown:    DefaultGestureCooldown,
		now:         time.Now,
	}
}

// SetMethod selects the intersection strategy. Unknown names are ignored.
func (d *Detector) SetMethod(m Method) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch m {
	case MethodPoint, MethodBoundingBox, MethodHybrid:
		d.method = m
		log.Printf("intersect: detection method set to %s", m)
	default:
		log.Printf("intersect: ignoring unknown detection method %q", m)
	}
}

// Method returns the current intersection strategy.
func (d *Detector) Method() Method {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.method
}

// SetThreshold sets the global confidence threshold, clamped to [0.1, 1.0].
func (d *Detector) SetThreshold(t float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t < 0.1 {
		t = 0.1
	}
	if t > 1.0 {
		t = 1.0
	}
	d.threshold = t
}

// SetGestureCooldown overrides the per-hand gesture event spacing.
func (d *Detector) SetGestureCooldown(cd time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cooldown = cd
}

// Process runs intersection detection for one frame of hand detections
// against the given zones.
func (d *Detector) Process(zones []*zone.Zone, hands []detector.HandLandmarks) FrameResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	res := FrameResult{Intersections: make(map[string][]HandInZone)}
	now := d.now()

	for handIdx := range hands {
		hand := &hands[handIdx]
		landmarks := hand.Landmarks()
		if landmarks == nil {
			continue
		}
		handID := detector.HandID(hand.Handedness, handIdx)
		g := gesture.Classify(landmarks)

		for _, z := range zones {
			if !z.Active {
				continue
			}

			ir := Intersect(d.method, landmarks, z.Rect(), z.ConfidenceThreshold)

			key := stateKey{handID: handID, zoneID: z.ID}
			state, ok := d.states[key]
			if !ok {
				state = newHandZoneState(handID, z.ID)
				d.states[key] = state
			}
			changed := state.update(ir.Confidence, now)

			if state.inside {
				res.Intersections[z.ID] = append(res.Intersections[z.ID], HandInZone{
					HandID:     handID,
					Confidence: ir.Confidence,
					Duration:   state.durationInside(now),
					Method:     ir.Method,
					Gesture:    g,
				})
			}

			if changed {
				ev := d.newEvent(handID, z, state, ir, g, now)
				res.Events = append(res.Events, ev)
				if state.inside {
					z.AddHand(handID, now)
					log.Printf("intersect: hand %s entered zone %s (confidence %.2f, gesture %s)",
						handID, z.ID, ir.Confidence, g)
				} else {
					z.RemoveHand(handID)
					log.Printf("intersect: hand %s exited zone %s after %s",
						handID, z.ID, state.durationInside(now).Round(time.Millisecond))
				}
			}

			// Gesture events fire while stably inside, independent of the
			// enter/exit debounce, gated by the per-hand cooldown.
			if state.inside {
				switch g {
				case gesture.Pinch, gesture.Closed:
					if d.gestureAllowed(handID, gesturePick, now) {
						ev := d.newEvent(handID, z, state, ir, g, now)
						ev.Kind = KindPickGesture
						res.Events = append(res.Events, ev)
						d.markGesture(handID, gesturePick, now)
						log.Printf("intersect: pick gesture (%s) by %s in zone %s", g, handID, z.ID)
					}
				case gesture.Open:
					if d.gestureAllowed(handID, gestureDrop, now) {
						ev := d.newEvent(handID, z, state, ir, g, now)
						ev.Kind = KindDropGesture
						res.Events = append(res.Events, ev)
						d.markGesture(handID, gestureDrop, now)
						log.Printf("intersect: drop gesture by %s in zone %s", handID, z.ID)
					}
				}
			}
		}
	}

	d.refreshActive(res.Intersections)
	res.Stats = d.stats(zones)
	return res
}

func (d *Detector) newEvent(handID string, z *zone.Zone, state *handZoneState, ir Result, g gesture.Gesture, now time.Time) Event {
	kind := KindHandEnterZone
	var duration time.Duration
	if !state.inside {
		kind = KindHandExitZone
		duration = state.durationInside(now)
	}
	return Event{
		Kind:       kind,
		Timestamp:  now,
		HandID:     handID,
		ZoneID:     z.ID,
		ZoneName:   z.Name,
		ZoneType:   z.Type,
		Confidence: ir.Confidence,
		Gesture:    g,
		Duration:   duration,
		Method:     ir.Method,
	}
}

func (d *Detector) gestureAllowed(handID, gestureType string, now time.Time) bool {
	byType, ok := d.lastGesture[handID]
	if !ok {
		return true
	}
	last, ok := byType[gestureType]
	if !ok {
		return true
	}
	return now.Sub(last) >= d.cooldown
}

func (d *Detector) markGesture(handID, gestureType string, now time.Time) {
	byType, ok := d.lastGesture[handID]
	if !ok {
		byType = make(map[string]time.Time)
		d.lastGesture[handID] = byType
	}
	byType[gestureType] = now
}

func (d *Detector) refreshActive(intersections map[string][]HandInZone) {
	d.active = make(map[string][]string)
	for zoneID, hands := range intersections {
		if len(hands) == 0 {
			continue
		}
		ids := make([]string, len(hands))
		for i, h := range hands {
			ids[i] = h.HandID
		}
		d.active[zoneID] = ids
	}
}

func (d *Detector) stats(zones []*zone.Zone) FrameStats {
	s := FrameStats{
		TotalZones: len(zones),
		Method:     d.method,
		Threshold:  d.threshold,
	}
	byID := make(map[string]*zone.Zone, len(zones))
	for _, z := range zones {
		byID[z.ID] = z
		if z.Active {
			s.ActiveZones++
		}
	}
	s.ZonesWithHands = len(d.active)
	for zoneID, hands := range d.active {
		s.TotalHandsInZones += len(hands)
		if z, ok := byID[zoneID]; ok {
			switch z.Type {
			case zone.TypePick:
				s.PickZonesActive++
			case zone.TypeDrop:
				s.DropZonesActive++
			}
		}
	}
	return s
}

// Status returns the debounce detail for one zone.
func (d *Detector) Status(zoneID string) ZoneStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	hands := d.active[zoneID]
	st := ZoneStatus{
		ZoneID:    zoneID,
		HasHands:  len(hands) > 0,
		HandCount: len(hands),
		Hands:     append([]string(nil), hands...),
		States:    make(map[string]HandInState),
	}
	now := d.now()
	for _, handID := range hands {
		if s, ok := d.states[stateKey{handID: handID, zoneID: zoneID}]; ok {
			st.States[handID] = HandInState{
				Duration:         s.durationInside(now),
				EntryTime:        s.entryTime,
				RecentConfidence: s.recentConfidence(3),
			}
		}
	}
	return st
}

// ResetZone clears all per-hand debounce state referencing the zone. Called
// when a zone is deleted.
func (d *Detector) ResetZone(zoneID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key := range d.states {
		if key.zoneID == zoneID {
			delete(d.states, key)
		}
	}
	delete(d.active, zoneID)
}

// ResetAll clears all debounce and intersection state.
func (d *Detector) ResetAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.states = make(map[stateKey]*handZoneState)
	d.active = make(map[string][]string)
	d.lastGesture = make(map[string]map[string]time.Time)
}

// TrackedStates returns the number of live (hand, zone) debounce states.
func (d *Detector) TrackedStates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.states)
}
