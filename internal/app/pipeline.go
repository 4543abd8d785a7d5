package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/stackTD/NextSight-v2/internal/detector"
)

// runPipeline is the frame loop: capture, activity gate, hand detection,
// intersection processing, event routing. One frame is processed to
// completion before the next is read; the core components are touched only
// from this goroutine.
func (a *App) runPipeline(stopCh <-chan struct{}) {
	defer a.wg.Done()

	fps := a.cfg.TargetFPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}
			a.processFrame(frame)
			frame.Close()
		}
	}
}

// processFrame runs one frame through the detection stack.
func (a *App) processFrame(frame *gocv.Mat) {
	a.gate.Observe(frame)

	var hands []detector.HandLandmarks
	if !a.gate.Idle() {
		var err error
		hands, err = a.handDetector.Detect(frame)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
			return
		}
	}

	result := a.intersections.Process(a.zones.Active(), hands)
	a.events.Route(result.Events)
	a.clearVanishedHands(hands)

	a.mu.Lock()
	a.lastFrame = result
	a.mu.Unlock()
}

// clearVanishedHands drops active picks for hands that were present in the
// previous frame but are gone now.
func (a *App) clearVanishedHands(hands []detector.HandLandmarks) {
	seen := make(map[string]bool, len(hands))
	for i := range hands {
		seen[detector.HandID(hands[i].Handedness, i)] = true
	}
	for handID := range a.lastSeenHands {
		if !seen[handID] {
			a.engine.ClearHandTracking(handID)
		}
	}
	a.lastSeenHands = seen
}
