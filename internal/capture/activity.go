package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Activity gate constants.
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
	// DefaultIdleFrames is how many still frames are tolerated before the
	// gate reports the scene as idle.
	DefaultIdleFrames = 90
)

// ActivityGate decides whether a frame is worth running hand detection on.
// It compares consecutive frames with blurred differencing; once the scene
// has been still for a run of frames, detection can be skipped until
// movement returns.
type ActivityGate struct {
	threshold   float64
	idleFrames  int
	stillFrames int
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewActivityGate creates a gate with the given movement threshold.
// The threshold is the percentage of pixels that must change between frames
// to count as movement; 1.0 means 1% of pixels.
func NewActivityGate(threshold float64) *ActivityGate {
	return &ActivityGate{
		threshold:  threshold,
		idleFrames: DefaultIdleFrames,
		prevGray:   gocv.NewMat(),
	}
}

// Observe feeds one frame into the gate. It returns whether the frame showed
// movement and the percentage of pixels that changed.
func (g *ActivityGate) Observe(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&g.prevGray)

	moving := changePercent > g.threshold
	if moving {
		g.stillFrames = 0
	} else {
		g.stillFrames++
	}
	return moving, changePercent
}

// Idle reports whether the scene has been still long enough to skip hand
// detection.
func (g *ActivityGate) Idle() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.initialized && g.stillFrames >= g.idleFrames
}

// SetIdleFrames sets how many still frames are tolerated before Idle reports
// true. Values less than or equal to 0 are ignored.
func (g *ActivityGate) SetIdleFrames(n int) {
	if n <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.idleFrames = n
}

// SetThreshold sets the movement threshold.
// Values less than or equal to 0 are ignored.
func (g *ActivityGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.threshold = threshold
}

// Reset clears the gate state, allowing it to be reused with a new baseline.
func (g *ActivityGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
	g.stillFrames = 0
}

// Close releases resources held by the gate.
func (g *ActivityGate) Close() {
	g.Reset()
}
