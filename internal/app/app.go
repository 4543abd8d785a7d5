// Package app wires the capture, detection, zone, and workflow components
// into the NextSight application and owns the frame loop.
package app

import (
	"log"
	"sync"

	"github.com/stackTD/NextSight-v2/internal/capture"
	"github.com/stackTD/NextSight-v2/internal/config"
	"github.com/stackTD/NextSight-v2/internal/detector"
	"github.com/stackTD/NextSight-v2/internal/hook"
	"github.com/stackTD/NextSight-v2/internal/intersect"
	"github.com/stackTD/NextSight-v2/internal/process"
	"github.com/stackTD/NextSight-v2/internal/router"
	"github.com/stackTD/NextSight-v2/internal/store"
	"github.com/stackTD/NextSight-v2/internal/zone"
)

// Options holds construction options for the application.
type Options struct {
	Config config.Config
	// Store receives the audit trail. Optional; nil disables auditing.
	Store *store.Store
	// Camera and Detector override the defaults, used by tests and for
	// running without hardware.
	Camera   capture.Camera
	Detector detector.Detector
}

// App is the application host: it owns the component instances and the
// frame-synchronous processing loop.
type App struct {
	cfg config.Config

	camera        capture.Camera
	gate          *capture.ActivityGate
	handDetector  detector.Detector
	zones         *zone.Registry
	intersections *intersect.Detector
	engine        *process.Engine
	events        *router.Router
	audit         *store.Store
	hooks         *hook.Dispatcher

	// lastSeenHands tracks hand ids present in the previous frame so picks
	// can be cleared when a hand leaves the frame entirely.
	lastSeenHands map[string]bool

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	wg      sync.WaitGroup

	lastFrame intersect.FrameResult

	// OnEvent fires for every routed event, used by the websocket feed.
	OnEvent func(intersect.Event)
	// OnStatus surfaces OK/NG feedback as (message, color).
	OnStatus func(message, color string)
}

// New creates the application with all components wired together.
func New(opts Options) *App {
	cfg := opts.Config

	a := &App{
		cfg:           cfg,
		gate:          capture.NewActivityGate(1.0),
		zones:         zone.NewRegistry(cfg.ZoneConfigPath),
		intersections: intersect.NewDetector(),
		engine:        process.NewEngine(cfg.ProcessStatePath),
		audit:         opts.Store,
		lastSeenHands: make(map[string]bool),
		enabled:       true,
	}

	a.camera = opts.Camera
	if a.camera == nil {
		a.camera = capture.NewCameraWithSettings(cfg.CameraID, capture.Settings{
			Width:  cfg.FrameWidth,
			Height: cfg.FrameHeight,
			FPS:    cfg.TargetFPS,
		})
	}

	a.handDetector = opts.Detector
	if a.handDetector == nil {
		if cfg.UseMockDetector {
			a.handDetector = detector.NewMockDetector()
			log.Println("Using mock hand detection")
		} else if mp, err := detector.NewMediaPipeDetector(detector.Config{
			MaxHands:        cfg.MaxHands,
			MinConfidence:   cfg.MinConfidence,
			MinTrackingConf: cfg.MinTrackingConf,
		}); err == nil {
			a.handDetector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.handDetector = detector.NewMockDetector()
		}
	}

	a.intersections.SetMethod(intersect.Method(cfg.DetectionMethod))
	a.intersections.SetThreshold(cfg.ConfidenceThreshold)
	if cd := cfg.GestureCooldown(); cd > 0 {
		a.intersections.SetGestureCooldown(cd)
	}

	a.events = router.New(a.engine)
	a.events.OnEvent = a.handleRoutedEvent
	a.engine.OnStatus = func(msg, color string) {
		if a.OnStatus != nil {
			a.OnStatus(msg, color)
		}
	}
	a.engine.OnOutcome = a.handleOutcome

	if cfg.HookDir != "" {
		hooks, err := hook.NewDispatcher(cfg.HookDir, cfg.HookTimeout())
		if err != nil {
			log.Printf("Failed to discover hooks: %v", err)
		} else {
			a.hooks = hooks
			if n := len(hooks.Manager().List()); n > 0 {
				log.Printf("Discovered %d hooks in %s", n, cfg.HookDir)
			}
		}
	}

	if err := a.zones.Load(); err != nil {
		log.Printf("Failed to load zone configuration: %v", err)
	}

	return a
}

// handleRoutedEvent audits and broadcasts one deduplicated event.
func (a *App) handleRoutedEvent(ev intersect.Event) {
	if a.audit != nil {
		rec := &store.EventRecord{
			Type:       string(ev.Kind),
			HandID:     ev.HandID,
			ZoneID:     ev.ZoneID,
			ZoneName:   ev.ZoneName,
			ZoneType:   string(ev.ZoneType),
			Confidence: ev.Confidence,
			Gesture:    string(ev.Gesture),
			Duration:   ev.Duration,
			CreatedAt:  ev.Timestamp,
		}
		if err := a.audit.Events().Create(rec); err != nil {
			log.Printf("Failed to audit event: %v", err)
		}
	}
	if a.hooks != nil {
		a.hooks.Dispatch(hook.Payload{
			Event:      string(ev.Kind),
			HandID:     ev.HandID,
			ZoneID:     ev.ZoneID,
			ZoneName:   ev.ZoneName,
			ZoneType:   string(ev.ZoneType),
			Confidence: ev.Confidence,
		})
	}
	if a.OnEvent != nil {
		a.OnEvent(ev)
	}
}

// handleOutcome records one workflow resolution in the audit store and
// notifies subscribed hooks.
func (a *App) handleOutcome(o process.Outcome) {
	if a.audit != nil {
		rec := &store.OutcomeRecord{
			ProcessID:   o.ProcessID,
			ProcessName: o.ProcessName,
			HandID:      o.HandID,
			PickZoneID:  o.PickZoneID,
			DropZoneID:  o.DropZoneID,
			Success:     o.Success,
			Message:     o.Message,
		}
		if err := a.audit.Outcomes().Create(rec); err != nil {
			log.Printf("Failed to audit outcome: %v", err)
		}
	}
	if a.hooks != nil {
		event := hook.EventProcessError
		if o.Success {
			event = hook.EventProcessCompleted
		}
		a.hooks.Dispatch(hook.Payload{
			Event:       event,
			HandID:      o.HandID,
			ZoneID:      o.DropZoneID,
			ProcessID:   o.ProcessID,
			ProcessName: o.ProcessName,
			Success:     o.Success,
			Message:     o.Message,
		})
	}
}

// SetEnabled enables or disables intersection detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Start opens the camera and begins the frame loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}
	if err := a.camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	a.wg.Add(1)
	go a.runPipeline(a.stopCh)

	log.Println("Frame pipeline started")
	return nil
}

// Stop halts the frame loop and releases capture resources.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	a.mu.Unlock()
	a.wg.Wait()
	if a.hooks != nil {
		a.hooks.Wait()
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.gate.Close()
	if a.handDetector != nil {
		if err := a.handDetector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
	log.Println("Frame pipeline stopped")
}

// CreateZone allocates, persists, and counts a new zone.
func (a *App) CreateZone(name string, zoneType zone.Type, x, y, w, h float64) (*zone.Zone, error) {
	z, err := a.zones.Create(name, zoneType, x, y, w, h)
	if err != nil {
		return nil, err
	}
	a.events.NoteZoneCreated()
	if err := a.zones.Save(); err != nil {
		log.Printf("Failed to save zone configuration: %v", err)
	}
	return z, nil
}

// DeleteZone removes a zone and purges all per-hand state referencing it,
// including active picks that originated there.
func (a *App) DeleteZone(id string) bool {
	if !a.zones.Remove(id) {
		return false
	}
	a.intersections.ResetZone(id)
	a.engine.ClearPicksForZone(id)
	a.events.NoteZoneDeleted()
	if err := a.zones.Save(); err != nil {
		log.Printf("Failed to save zone configuration: %v", err)
	}
	return true
}

// Zones returns the zone registry.
func (a *App) Zones() *zone.Registry { return a.zones }

// Processes returns the workflow engine.
func (a *App) Processes() *process.Engine { return a.engine }

// Router returns the event router.
func (a *App) Router() *router.Router { return a.events }

// Intersections returns the intersection detector.
func (a *App) Intersections() *intersect.Detector { return a.intersections }

// Camera returns the capture device.
func (a *App) Camera() capture.Camera { return a.camera }

// LastFrame returns the most recent frame result snapshot.
func (a *App) LastFrame() intersect.FrameResult {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastFrame
}
