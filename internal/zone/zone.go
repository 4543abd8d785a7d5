// Package zone provides the zone data model, registry, and configuration
// persistence for pick/drop regions drawn over the camera frame.
package zone

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stackTD/NextSight-v2/internal/geometry"
)

// Type classifies a zone as a pick source or a drop target.
type Type string

const (
	// TypePick marks a zone that objects are picked from.
	TypePick Type = "pick"
	// TypeDrop marks a zone that objects are dropped into.
	TypeDrop Type = "drop"
)

// Valid reports whether the zone type is one of the known values.
func (t Type) Valid() bool {
	return t == TypePick || t == TypeDrop
}

// DefaultConfidenceThreshold is the per-zone intersection confidence
// threshold applied when none is configured.
const DefaultConfidenceThreshold = 0.7

// Default visual styling per zone type. These fields are carried for UI
// collaborators; the core never interprets them.
const (
	defaultPickColor   = "#00ff00"
	defaultDropColor   = "#0080ff"
	defaultAlpha       = 0.3
	defaultBorderWidth = 2
)

// ErrInvalidGeometry is returned when a zone rectangle has a non-positive
// width or height.
var ErrInvalidGeometry = errors.New("zone geometry must have positive width and height")

// ErrInvalidThreshold is returned when a confidence threshold falls outside (0, 1].
var ErrInvalidThreshold = errors.New("confidence threshold must be in (0, 1]")

// Zone is a rectangular region of interest in normalized frame coordinates.
type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type Type   `json:"zone_type"`

	// Geometry in normalized [0,1] coordinates, top-left origin.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Active              bool    `json:"active"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`

	// Visual properties, owned by the UI.
	Color       string  `json:"color"`
	Alpha       float64 `json:"alpha"`
	BorderWidth int     `json:"border_width"`

	// Interaction state, mutated by the intersection detector each frame
	// under mu; readers outside the frame loop take snapshots via Clone.
	HandsInside      []string   `json:"hands_inside"`
	LastInteraction  *time.Time `json:"last_interaction,omitempty"`
	InteractionCount int        `json:"interaction_count"`

	mu sync.Mutex
}

// Clone returns a snapshot copy of the zone, safe to marshal while the
// frame loop keeps mutating the original.
func (z *Zone) Clone() *Zone {
	z.mu.Lock()
	defer z.mu.Unlock()

	cp := Zone{
		ID:                  z.ID,
		Name:                z.Name,
		Type:                z.Type,
		X:                   z.X,
		Y:                   z.Y,
		Width:               z.Width,
		Height:              z.Height,
		Active:              z.Active,
		ConfidenceThreshold: z.ConfidenceThreshold,
		Color:               z.Color,
		Alpha:               z.Alpha,
		BorderWidth:         z.BorderWidth,
		HandsInside:         append([]string(nil), z.HandsInside...),
		InteractionCount:    z.InteractionCount,
	}
	if z.LastInteraction != nil {
		t := *z.LastInteraction
		cp.LastInteraction = &t
	}
	return &cp
}

// Validate checks the zone's geometry and threshold invariants.
func (z *Zone) Validate() error {
	if z.Width <= 0 || z.Height <= 0 {
		return fmt.Errorf("zone %s: %w", z.ID, ErrInvalidGeometry)
	}
	if z.ConfidenceThreshold <= 0 || z.ConfidenceThreshold > 1 {
		return fmt.Errorf("zone %s: %w", z.ID, ErrInvalidThreshold)
	}
	return nil
}

// Rect returns the zone geometry as a rectangle.
func (z *Zone) Rect() geometry.Rect {
	return geometry.Rect{X: z.X, Y: z.Y, Width: z.Width, Height: z.Height}
}

// AddHand records a hand entering the zone, bumping the interaction counter
// for new entries.
func (z *Zone) AddHand(handID string, now time.Time) {
	z.mu.Lock()
	defer z.mu.Unlock()

	for _, h := range z.HandsInside {
		if h == handID {
			return
		}
	}
	z.HandsInside = append(z.HandsInside, handID)
	z.InteractionCount++
	z.LastInteraction = &now
}

// RemoveHand records a hand leaving the zone.
func (z *Zone) RemoveHand(handID string) {
	z.mu.Lock()
	defer z.mu.Unlock()

	for i, h := range z.HandsInside {
		if h == handID {
			z.HandsInside = append(z.HandsInside[:i], z.HandsInside[i+1:]...)
			return
		}
	}
}

// HasHand reports whether the hand is currently recorded inside the zone.
func (z *Zone) HasHand(handID string) bool {
	z.mu.Lock()
	defer z.mu.Unlock()

	for _, h := range z.HandsInside {
		if h == handID {
			return true
		}
	}
	return false
}
