package hook

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeManifest creates a hook directory entry with the given manifest
// JSON and a trivial executable.
func writeManifest(t *testing.T, hookDir, name, manifest string) {
	t.Helper()
	dir := filepath.Join(hookDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hook.json"), []byte(manifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	script := "#!/bin/sh\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte(script), 0755); err != nil {
		t.Fatalf("failed to write executable: %v", err)
	}
}

func TestManagerDiscover(t *testing.T) {
	hookDir := t.TempDir()
	writeManifest(t, hookDir, "tower-light", `{
		"name": "tower-light",
		"version": "1.0.0",
		"description": "Drives the andon light",
		"executable": "run.sh",
		"events": ["process_completed", "process_error"]
	}`)
	writeManifest(t, hookDir, "chime", `{
		"name": "chime",
		"version": "0.2.0",
		"executable": "run.sh",
		"events": ["process_completed"]
	}`)

	m := NewManager(hookDir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if got := len(m.List()); got != 2 {
		t.Fatalf("expected 2 hooks, got %d", got)
	}

	h, err := m.Get("tower-light")
	if err != nil {
		t.Fatalf("Get(tower-light) failed: %v", err)
	}
	if h.Executable != filepath.Join(hookDir, "tower-light", "run.sh") {
		t.Errorf("unexpected executable path: %s", h.Executable)
	}
	if !h.Subscribed(EventProcessError) {
		t.Error("expected subscription to process_error")
	}
	if h.Subscribed(EventPickGesture) {
		t.Error("unexpected subscription to pick_gesture_detected")
	}
}

func TestManagerMissingDirectory(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() on missing dir failed: %v", err)
	}
	if got := len(m.List()); got != 0 {
		t.Errorf("expected no hooks, got %d", got)
	}
}

func TestManagerSkipsInvalidManifests(t *testing.T) {
	hookDir := t.TempDir()
	writeManifest(t, hookDir, "good", `{"name": "good", "executable": "run.sh", "events": ["process_completed"]}`)
	writeManifest(t, hookDir, "bad", `{not json`)

	// A subdirectory without a manifest is ignored too.
	if err := os.MkdirAll(filepath.Join(hookDir, "empty"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	m := NewManager(hookDir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	if got := len(m.List()); got != 1 {
		t.Fatalf("expected 1 hook, got %d", got)
	}
	if _, err := m.Get("bad"); !errors.Is(err, ErrHookNotFound) {
		t.Errorf("expected ErrHookNotFound, got %v", err)
	}
}

func TestManagerSubscribers(t *testing.T) {
	hookDir := t.TempDir()
	writeManifest(t, hookDir, "a", `{"name": "a", "executable": "run.sh", "events": ["process_completed"]}`)
	writeManifest(t, hookDir, "b", `{"name": "b", "executable": "run.sh", "events": ["process_completed", "hand_enter_zone"]}`)

	m := NewManager(hookDir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if got := len(m.Subscribers(EventProcessCompleted)); got != 2 {
		t.Errorf("expected 2 subscribers for process_completed, got %d", got)
	}
	if got := len(m.Subscribers(EventHandEnterZone)); got != 1 {
		t.Errorf("expected 1 subscriber for hand_enter_zone, got %d", got)
	}
	if got := len(m.Subscribers(EventDropGesture)); got != 0 {
		t.Errorf("expected no subscribers for drop_gesture_detected, got %d", got)
	}
}

func TestDispatcherRunsSubscribedHooks(t *testing.T) {
	hookDir := t.TempDir()
	writeManifest(t, hookDir, "recorder", `{
		"name": "recorder",
		"executable": "run.sh",
		"events": ["process_completed"],
		"config": {"line": "done"}
	}`)

	// Overwrite the executable with one that records its payload.
	outPath := filepath.Join(hookDir, "recorder", "seen.json")
	script := "#!/bin/sh\ncat > " + outPath + "\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(hookDir, "recorder", "run.sh"), []byte(script), 0755); err != nil {
		t.Fatalf("failed to write executable: %v", err)
	}

	d, err := NewDispatcher(hookDir, 5*time.Second)
	if err != nil {
		t.Fatalf("NewDispatcher() failed: %v", err)
	}

	// Unsubscribed event runs nothing.
	responses := d.DispatchSync(Payload{Event: EventHandExitZone})
	if len(responses) != 0 {
		t.Errorf("expected no responses, got %d", len(responses))
	}

	responses = d.DispatchSync(Payload{
		Event:       EventProcessCompleted,
		ProcessName: "Assembly",
		Success:     true,
		Message:     "OK: Assembly completed",
	})
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	if resp := responses["recorder"]; resp == nil || !resp.Success {
		t.Fatalf("unexpected response: %+v", responses)
	}

	seen, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("hook did not record payload: %v", err)
	}
	for _, want := range []string{`"process_completed"`, `"OK: Assembly completed"`, `"done"`} {
		if !strings.Contains(string(seen), want) {
			t.Errorf("payload missing %s: %s", want, seen)
		}
	}
}
