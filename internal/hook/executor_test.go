package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeHookScript writes an executable shell script and returns a Hook
// pointing at it.
func writeHookScript(t *testing.T, name, content string, events ...string) *Hook {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping shell script test on Windows")
	}

	dir := t.TempDir()
	scriptPath := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(scriptPath, []byte(content), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Hook{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Events:     events,
		},
		Path:       dir,
		Executable: scriptPath,
	}
}

func TestExecutorSuccess(t *testing.T) {
	h := writeHookScript(t, "light-on", `#!/bin/sh
cat <<'EOF'
{"success":true,"data":{"message":"green light"}}
EOF
`, EventProcessCompleted)

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(h, &Payload{Event: EventProcessCompleted})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Error("expected success=true, got false")
	}
	if response.Error != "" {
		t.Errorf("expected empty error, got %q", response.Error)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "green light" {
		t.Errorf("expected message 'green light', got %v", data["message"])
	}
}

func TestExecutorPipesPayload(t *testing.T) {
	h := writeHookScript(t, "echo", `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`, EventPickGesture)

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(h, &Payload{
		Event:    EventPickGesture,
		HandID:   "left_0",
		ZoneID:   "pick_000",
		ZoneName: "Station A",
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received Payload `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data.Received.Event != EventPickGesture {
		t.Errorf("expected event %q, got %q", EventPickGesture, data.Received.Event)
	}
	if data.Received.HandID != "left_0" || data.Received.ZoneID != "pick_000" {
		t.Errorf("payload not piped through: %+v", data.Received)
	}
}

func TestExecutorTimeout(t *testing.T) {
	h := writeHookScript(t, "sleeper", `#!/bin/sh
sleep 5
echo '{"success":true}'
`, EventProcessError)

	executor := NewExecutor(100 * time.Millisecond)
	_, err := executor.Execute(h, &Payload{Event: EventProcessError})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestExecutorNonZeroExit(t *testing.T) {
	h := writeHookScript(t, "broken", `#!/bin/sh
echo "device unreachable" >&2
exit 1
`, EventProcessCompleted)

	executor := NewExecutor(5 * time.Second)
	_, err := executor.Execute(h, &Payload{Event: EventProcessCompleted})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "device unreachable") {
		t.Errorf("expected stderr in error, got %v", err)
	}
}

func TestExecutorMalformedOutput(t *testing.T) {
	h := writeHookScript(t, "garbled", `#!/bin/sh
echo "not json"
`, EventProcessCompleted)

	executor := NewExecutor(5 * time.Second)
	_, err := executor.Execute(h, &Payload{Event: EventProcessCompleted})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse hook response") {
		t.Errorf("unexpected error: %v", err)
	}
}
