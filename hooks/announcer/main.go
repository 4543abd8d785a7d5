// Package main provides an announcer hook that speaks workflow outcomes
// through the platform text-to-speech engine.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Payload represents the input from the hook dispatcher.
type Payload struct {
	Event       string          `json:"event"`
	ProcessName string          `json:"process_name"`
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Config      json.RawMessage `json:"config"`
}

// Response represents the output to the hook dispatcher.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AnnouncerConfig defines optional overrides from the hook manifest.
type AnnouncerConfig struct {
	Voice string `json:"voice"`
}

func main() {
	var payload Payload
	if err := json.NewDecoder(os.Stdin).Decode(&payload); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode payload: %v", err))
		return
	}

	var cfg AnnouncerConfig
	if len(payload.Config) > 0 {
		json.Unmarshal(payload.Config, &cfg)
	}

	text := payload.Message
	if text == "" {
		text = payload.Event
	}

	if err := speak(text, cfg.Voice); err != nil {
		writeErrorResponse(fmt.Sprintf("speech failed: %v", err))
		return
	}

	writeSuccessResponse()
}

// speak runs the platform text-to-speech command.
func speak(text, voice string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		if voice != "" {
			cmd = exec.Command("say", "-v", voice, text)
		} else {
			cmd = exec.Command("say", text)
		}
	default:
		if voice != "" {
			cmd = exec.Command("espeak", "-v", voice, text)
		} else {
			cmd = exec.Command("espeak", text)
		}
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: false,
		Error:   errMsg,
	})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}
