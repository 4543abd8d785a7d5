// Package process implements the pick-to-drop workflow engine. Each process
// pairs a pick zone with a drop zone; a completion requires the same hand
// that picked from a process's pick zone to drop into that process's drop
// zone.
package process

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Status message colors surfaced to the UI.
const (
	StatusColorOK = "green"
	StatusColorNG = "red"
)

// Process pairs a pick zone with a drop zone and counts outcomes.
type Process struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PickZoneID     string    `json:"pick_zone_id,omitempty"`
	DropZoneID     string    `json:"drop_zone_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	Active         bool      `json:"active"`
	CompletedCount int       `json:"completed_count"`
	ErrorCount     int       `json:"error_count"`
}

// Pick is an in-flight pick held by one hand.
type Pick struct {
	ProcessID   string `json:"process_id"`
	ProcessName string `json:"process_name"`
	PickZoneID  string `json:"pick_zone_id"`
}

// Stats aggregates outcome counters across all processes.
type Stats struct {
	TotalProcesses int     `json:"total_processes"`
	TotalCompleted int     `json:"total_completed"`
	TotalErrors    int     `json:"total_errors"`
	ActivePicks    int     `json:"active_picks"`
	SuccessRate    float64 `json:"success_rate"`
}

// Engine owns the process collection and the per-hand pick state. The
// frame loop drives pick/drop resolution; the HTTP surface reads and
// manages processes concurrently.
type Engine struct {
	mu        sync.Mutex
	processes map[string]*Process
	counter   int
	// activePicks maps hand id to its in-flight pick.
	activePicks map[string]pickRecord

	path string
	now  func() time.Time

	// OnStatus surfaces user-facing OK/NG feedback as (message, color).
	OnStatus func(message, color string)
	// OnCompleted and OnError fire with the process id and message after an
	// outcome is counted.
	OnCompleted func(processID, message string)
	// OnError reports a wrong-process drop.
	OnError func(processID, message string)
	// OnOutcome fires with the full resolution of any counted drop, for
	// audit collaborators.
	OnOutcome func(Outcome)
}

// Outcome is the full resolution of one pick-to-drop attempt.
type Outcome struct {
	ProcessID   string
	ProcessName string
	HandID      string
	PickZoneID  string
	DropZoneID  string
	Success     bool
	Message     string
}

type pickRecord struct {
	processID string
	zoneID    string
}

// NewEngine creates an engine persisting to path. An empty path disables
// persistence. Existing state is loaded immediately; load failures leave the
// engine empty rather than failing startup.
func NewEngine(path string) *Engine {
	e := &Engine{
		processes:   make(map[string]*Process),
		counter:     1,
		activePicks: make(map[string]pickRecord),
		path:        path,
		now:         time.Now,
	}
	if err := e.load(); err != nil {
		log.Printf("process: starting with empty state: %v", err)
	}
	return e
}

// Create allocates a new process with a sequential id. A missing name
// defaults to "Process N".
func (e *Engine) Create(name string) *Process {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := fmt.Sprintf("process_%d", e.counter)
	if name == "" {
		name = fmt.Sprintf("Process %d", e.counter)
	}
	p := &Process{
		ID:        id,
		Name:      name,
		CreatedAt: e.now(),
		Active:    true,
	}
	e.processes[id] = p
	e.counter++
	log.Printf("process: created %s (%s)", p.Name, p.ID)
	e.save()
	return p
}

// AssociateZones binds a pick and drop zone to the process, overwriting any
// prior association. It reports false for an unknown process.
func (e *Engine) AssociateZones(processID, pickZoneID, dropZoneID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.processes[processID]
	if !ok {
		return false
	}
	p.PickZoneID = pickZoneID
	p.DropZoneID = dropZoneID
	log.Printf("process: %s associated pick=%s drop=%s", p.Name, pickZoneID, dropZoneID)
	e.save()
	return true
}

// Delete removes the process and clears any in-flight picks referencing it.
// The associated zones are not deleted; callers coordinate that via
// ZoneIDs.
func (e *Engine) Delete(processID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.processes[processID]
	if !ok {
		return false
	}
	for handID, rec := range e.activePicks {
		if rec.processID == processID {
			delete(e.activePicks, handID)
		}
	}
	delete(e.processes, processID)
	log.Printf("process: deleted %s (%s)", p.Name, p.ID)
	e.save()
	return true
}

// ZoneIDs returns the pick and drop zone ids bound to the process.
func (e *Engine) ZoneIDs(processID string) (pickZoneID, dropZoneID string, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, found := e.processes[processID]
	if !found {
		return "", "", false
	}
	return p.PickZoneID, p.DropZoneID, true
}

// HandlePickEvent records an active pick when the zone belongs to a
// process's pick side. Unclaimed zones are ignored.
func (e *Engine) HandlePickEvent(handID, zoneID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	processID := e.processForPickZone(zoneID)
	if processID == "" {
		return false
	}
	e.activePicks[handID] = pickRecord{processID: processID, zoneID: zoneID}
	log.Printf("process: %s picked from %s (process %s)", handID, zoneID, processID)
	return true
}

// HandleDropEvent resolves the hand's active pick against the drop zone. A
// drop into the picked-from process's drop zone completes it; a drop into a
// different process's drop zone counts an error against the picked-from
// process. Either way the active pick is cleared. Drops by hands with no
// active pick, or into zones no process claims, report false and leave state
// untouched.
func (e *Engine) HandleDropEvent(handID, zoneID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.activePicks[handID]
	if !ok {
		return false
	}
	dropProcessID := e.processForDropZone(zoneID)
	if dropProcessID == "" {
		return false
	}

	picked := e.processes[rec.processID]
	delete(e.activePicks, handID)

	if rec.processID == dropProcessID {
		picked.CompletedCount++
		msg := fmt.Sprintf("OK: %s completed", picked.Name)
		log.Printf("process: %s", msg)
		e.status(msg, StatusColorOK)
		if e.OnCompleted != nil {
			e.OnCompleted(picked.ID, msg)
		}
		e.outcome(Outcome{
			ProcessID:   picked.ID,
			ProcessName: picked.Name,
			HandID:      handID,
			PickZoneID:  rec.zoneID,
			DropZoneID:  zoneID,
			Success:     true,
			Message:     msg,
		})
		e.save()
		return true
	}

	picked.ErrorCount++
	msg := "NG: Wrong process"
	log.Printf("process: %s (picked from %s, dropped in %s)", msg, rec.processID, dropProcessID)
	e.status(msg, StatusColorNG)
	if e.OnError != nil {
		e.OnError(picked.ID, msg)
	}
	e.outcome(Outcome{
		ProcessID:   picked.ID,
		ProcessName: picked.Name,
		HandID:      handID,
		PickZoneID:  rec.zoneID,
		DropZoneID:  zoneID,
		Success:     false,
		Message:     msg,
	})
	e.save()
	return false
}

func (e *Engine) outcome(o Outcome) {
	if e.OnOutcome != nil {
		e.OnOutcome(o)
	}
}

// HasActivePick reports whether the hand is currently holding a pick.
func (e *Engine) HasActivePick(handID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.activePicks[handID]
	return ok
}

// ClearHandTracking drops the hand's active pick, used when a hand leaves
// the frame entirely.
func (e *Engine) ClearHandTracking(handID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.activePicks[handID]
	if !ok {
		return false
	}
	delete(e.activePicks, handID)
	log.Printf("process: cleared tracking for %s (was in process %s)", handID, rec.processID)
	return true
}

// ClearPicksForZone drops every active pick that originated from the zone.
// Called when the zone is deleted so no stale pick can resolve later.
func (e *Engine) ClearPicksForZone(zoneID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	cleared := 0
	for handID, rec := range e.activePicks {
		if rec.zoneID == zoneID {
			delete(e.activePicks, handID)
			cleared++
		}
	}
	if cleared > 0 {
		log.Printf("process: cleared %d active picks for deleted zone %s", cleared, zoneID)
	}
	return cleared
}

// ActivePicks returns the in-flight picks keyed by hand id.
func (e *Engine) ActivePicks() map[string]Pick {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]Pick, len(e.activePicks))
	for handID, rec := range e.activePicks {
		name := "Unknown"
		if p, ok := e.processes[rec.processID]; ok {
			name = p.Name
		}
		out[handID] = Pick{
			ProcessID:   rec.processID,
			ProcessName: name,
			PickZoneID:  rec.zoneID,
		}
	}
	return out
}

// Get returns the process with the given id.
func (e *Engine) Get(processID string) (*Process, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.processes[processID]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// GetByName returns the first process with the given name.
func (e *Engine) GetByName(name string) (*Process, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.processes {
		if p.Name == name {
			cp := *p
			return &cp, true
		}
	}
	return nil, false
}

// All returns every process, ordered by id.
func (e *Engine) All() []*Process {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*Process, 0, len(e.processes))
	for _, p := range e.processes {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return numericSuffix(out[i].ID) < numericSuffix(out[j].ID) })
	return out
}

// NextNumber returns the number the next created process will receive.
func (e *Engine) NextNumber() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counter
}

// ClearAll deletes every process and active pick and resets the counter.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.processes = make(map[string]*Process)
	e.activePicks = make(map[string]pickRecord)
	e.counter = 1
	log.Printf("process: all processes cleared")
	e.save()
}

// Statistics aggregates outcomes across processes. The success rate is the
// percentage of completions over all attempts, 0.0 when nothing has been
// attempted.
func (e *Engine) Statistics() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		TotalProcesses: len(e.processes),
		ActivePicks:    len(e.activePicks),
	}
	for _, p := range e.processes {
		s.TotalCompleted += p.CompletedCount
		s.TotalErrors += p.ErrorCount
	}
	if total := s.TotalCompleted + s.TotalErrors; total > 0 {
		s.SuccessRate = float64(s.TotalCompleted) / float64(total) * 100
	}
	return s
}

func (e *Engine) processForPickZone(zoneID string) string {
	for id, p := range e.processes {
		if p.PickZoneID == zoneID {
			return id
		}
	}
	return ""
}

func (e *Engine) processForDropZone(zoneID string) string {
	for id, p := range e.processes {
		if p.DropZoneID == zoneID {
			return id
		}
	}
	return ""
}

func (e *Engine) status(message, color string) {
	if e.OnStatus != nil {
		e.OnStatus(message, color)
	}
}

type stateFile struct {
	ProcessCounter int                 `json:"process_counter"`
	Processes      map[string]*Process `json:"processes"`
}

// save persists the process collection. Failures are logged, never fatal;
// in-memory state stays authoritative.
func (e *Engine) save() {
	if e.path == "" {
		return
	}
	data, err := json.MarshalIndent(stateFile{
		ProcessCounter: e.counter,
		Processes:      e.processes,
	}, "", "  ")
	if err != nil {
		log.Printf("process: marshal state: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		log.Printf("process: create state dir: %v", err)
		return
	}
	tmp := e.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("process: write state: %v", err)
		return
	}
	if err := os.Rename(tmp, e.path); err != nil {
		log.Printf("process: replace state: %v", err)
	}
}

// load restores the process collection. The id counter is recomputed from
// the highest numeric suffix in use so ids never collide after partial
// deletions, regardless of what the file claims.
func (e *Engine) load() error {
	if e.path == "" {
		return nil
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read process state: %w", err)
	}
	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("parse process state: %w", err)
	}

	e.processes = make(map[string]*Process)
	maxSuffix := 0
	for id, p := range state.Processes {
		if p == nil {
			continue
		}
		e.processes[id] = p
		if n := numericSuffix(id); n > maxSuffix {
			maxSuffix = n
		}
	}
	e.counter = maxSuffix + 1
	log.Printf("process: loaded %d processes from %s", len(e.processes), e.path)
	return nil
}

func numericSuffix(id string) int {
	idx := strings.LastIndexByte(id, '_')
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
