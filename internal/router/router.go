// Package router turns raw intersection events into at-most-once pick/drop
// notifications and session statistics, forwarding them to the workflow
// engine.
package router

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/stackTD/NextSight-v2/internal/intersect"
	"github.com/stackTD/NextSight-v2/internal/zone"
)

// processedCap bounds the duplicate-suppression set. Oldest keys are evicted
// first so memory stays flat over long sessions.
const processedCap = 100

// timestampLogCap bounds the per-kind event timestamp logs used for
// recent-activity queries.
const timestampLogCap = 256

// WorkflowEngine is the downstream consumer of routed pick/drop events.
type WorkflowEngine interface {
	// HandlePickEvent records an active pick for the hand. It reports false
	// when no process claims the zone as its pick zone.
	HandlePickEvent(handID, zoneID string) bool
	// HandleDropEvent resolves the hand's active pick against the drop zone.
	// It reports false on a rejected or failed drop.
	HandleDropEvent(handID, zoneID string) bool
	// HasActivePick reports whether the hand is currently holding a pick.
	HasActivePick(handID string) bool
}

// SessionStats aggregates routed activity since session start.
type SessionStats struct {
	SessionStart time.Time `json:"session_start"`
	TotalPicks   int       `json:"total_picks"`
	TotalDrops   int       `json:"total_drops"`
	ZonesCreated int       `json:"zones_created"`
	ZonesDeleted int       `json:"zones_deleted"`

	SessionDuration time.Duration `json:"session_duration"`
	PicksPerMinute  float64       `json:"picks_per_minute"`
	DropsPerMinute  float64       `json:"drops_per_minute"`
}

// Router deduplicates intersection events and fans them out. The frame
// loop feeds it; the HTTP surface reads its statistics concurrently.
type Router struct {
	engine WorkflowEngine

	mu         sync.Mutex
	processed  map[string]struct{}
	order      []string
	totalPicks int
	totalDrops int

	zonesCreated int
	zonesDeleted int
	sessionStart time.Time

	pickTimes []time.Time
	dropTimes []time.Time

	// OnPickRouted and OnDropRouted fire after a deduplicated pick/drop
	// has been forwarded to the engine.
	OnPickRouted func(handID, zoneID string)
	OnDropRouted func(handID, zoneID string)
	// OnEvent fires for every deduplicated event, in arrival order.
	OnEvent func(intersect.Event)

	now func() time.Time
}

// New creates a router forwarding to the given engine.
func New(engine WorkflowEngine) *Router {
	r := &Router{
		engine:    engine,
		processed: make(map[string]struct{}),
		now:       time.Now,
	}
	r.sessionStart = r.now()
	return r
}

// Route processes one frame's event list.
func (r *Router) Route(events []intersect.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range events {
		r.route(&events[i])
	}
}

func (r *Router) route(ev *intersect.Event) {
	switch ev.Kind {
	case intersect.KindHandEnterZone:
		key := fmt.Sprintf("enter_%s_%s", ev.HandID, ev.ZoneID)
		if !r.mark(key) {
			return
		}
		r.emit(ev)
		switch ev.ZoneType {
		case zone.TypePick:
			r.countPick(ev)
		case zone.TypeDrop:
			r.countDrop(ev)
		}

	case intersect.KindHandExitZone:
		// Re-arm the enter key so the next entry of the same hand into the
		// same zone counts again.
		r.unmark(fmt.Sprintf("enter_%s_%s", ev.HandID, ev.ZoneID))
		r.emit(ev)

	case intersect.KindPickGesture:
		key := fmt.Sprintf("pick_gesture_%s_%s", ev.HandID, ev.ZoneID)
		if !r.mark(key) {
			return
		}
		r.emit(ev)
		r.countPick(ev)

	case intersect.KindDropGesture:
		key := fmt.Sprintf("drop_gesture_%s_%s", ev.HandID, ev.ZoneID)
		if !r.mark(key) {
			return
		}
		r.emit(ev)
		r.countDrop(ev)
	}
}

func (r *Router) countPick(ev *intersect.Event) {
	r.totalPicks++
	r.pickTimes = appendBounded(r.pickTimes, ev.Timestamp)
	log.Printf("router: pick event %s in %s", ev.HandID, ev.ZoneID)
	if r.engine != nil {
		r.engine.HandlePickEvent(ev.HandID, ev.ZoneID)
	}
	if r.OnPickRouted != nil {
		r.OnPickRouted(ev.HandID, ev.ZoneID)
	}
}

func (r *Router) countDrop(ev *intersect.Event) {
	if r.engine != nil && !r.engine.HasActivePick(ev.HandID) {
		// Hand-consistency rejection: a drop without a matching pick is
		// expected noise, not an error, and leaves the counters untouched.
		log.Printf("router: ignoring drop by %s in %s: no active pick", ev.HandID, ev.ZoneID)
		return
	}
	r.totalDrops++
	r.dropTimes = appendBounded(r.dropTimes, ev.Timestamp)
	log.Printf("router: drop event %s in %s", ev.HandID, ev.ZoneID)
	if r.engine != nil {
		r.engine.HandleDropEvent(ev.HandID, ev.ZoneID)
	}
	if r.OnDropRouted != nil {
		r.OnDropRouted(ev.HandID, ev.ZoneID)
	}
}

func (r *Router) emit(ev *intersect.Event) {
	if r.OnEvent != nil {
		r.OnEvent(*ev)
	}
}

// mark inserts the key into the processed set, reporting false when it was
// already present. The set is bounded; the oldest key is evicted at capacity.
func (r *Router) mark(key string) bool {
	if _, dup := r.processed[key]; dup {
		return false
	}
	if len(r.order) >= processedCap {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.processed, oldest)
	}
	r.processed[key] = struct{}{}
	r.order = append(r.order, key)
	return true
}

func (r *Router) unmark(key string) {
	if _, ok := r.processed[key]; !ok {
		return
	}
	delete(r.processed, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func appendBounded(ts []time.Time, t time.Time) []time.Time {
	ts = append(ts, t)
	if len(ts) > timestampLogCap {
		ts = ts[1:]
	}
	return ts
}

// NoteZoneCreated bumps the session zone-creation counter.
func (r *Router) NoteZoneCreated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zonesCreated++
}

// NoteZoneDeleted bumps the session zone-deletion counter.
func (r *Router) NoteZoneDeleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zonesDeleted++
}

// Stats returns a snapshot of the session counters with per-minute rates.
func (r *Router) Stats() SessionStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	dur := now.Sub(r.sessionStart)
	s := SessionStats{
		SessionStart:    r.sessionStart,
		TotalPicks:      r.totalPicks,
		TotalDrops:      r.totalDrops,
		ZonesCreated:    r.zonesCreated,
		ZonesDeleted:    r.zonesDeleted,
		SessionDuration: dur,
	}
	if dur > 0 {
		minutes := dur.Minutes()
		s.PicksPerMinute = float64(r.totalPicks) / minutes
		s.DropsPerMinute = float64(r.totalDrops) / minutes
	}
	return s
}

// RecentActivity counts routed picks and drops inside the trailing window.
func (r *Router) RecentActivity(window time.Duration) (picks, drops int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-window)
	for _, t := range r.pickTimes {
		if t.After(cutoff) {
			picks++
		}
	}
	for _, t := range r.dropTimes {
		if t.After(cutoff) {
			drops++
		}
	}
	return picks, drops
}

// ResetSession clears counters, logs, and the duplicate-suppression set.
func (r *Router) ResetSession() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.processed = make(map[string]struct{})
	r.order = nil
	r.totalPicks = 0
	r.totalDrops = 0
	r.zonesCreated = 0
	r.zonesDeleted = 0
	r.pickTimes = nil
	r.dropTimes = nil
	r.sessionStart = r.now()
	log.Printf("router: session statistics reset")
}
