// Package hook runs external programs in response to zone interaction
// events and workflow outcomes, so exhibition hardware (lights, sound,
// signage) can react without linking into the process.
package hook

import "encoding/json"

// Event names hooks can subscribe to.
const (
	EventHandEnterZone    = "hand_enter_zone"
	EventHandExitZone     = "hand_exit_zone"
	EventPickGesture      = "pick_gesture_detected"
	EventDropGesture      = "drop_gesture_detected"
	EventProcessCompleted = "process_completed"
	EventProcessError     = "process_error"
)

// Manifest describes a hook's metadata and event subscriptions.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Payload is the JSON document piped to a hook on stdin.
type Payload struct {
	Event       string          `json:"event"`
	HandID      string          `json:"hand_id,omitempty"`
	ZoneID      string          `json:"zone_id,omitempty"`
	ZoneName    string          `json:"zone_name,omitempty"`
	ZoneType    string          `json:"zone_type,omitempty"`
	Confidence  float64         `json:"confidence,omitempty"`
	ProcessID   string          `json:"process_id,omitempty"`
	ProcessName string          `json:"process_name,omitempty"`
	Success     bool            `json:"success"`
	Message     string          `json:"message,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Response is what a hook writes to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook represents a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Subscribed reports whether the hook wants the given event.
func (h *Hook) Subscribed(event string) bool {
	for _, e := range h.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
