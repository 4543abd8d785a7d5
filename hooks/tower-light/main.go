// Package main provides a tower light hook. It writes single-character
// color commands to a serial device so an andon light can mirror OK/NG
// workflow results at the booth.
package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Payload represents the input from the hook dispatcher.
type Payload struct {
	Event   string          `json:"event"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Config  json.RawMessage `json:"config"`
}

// Response represents the output to the hook dispatcher.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// LightConfig defines the serial device and command bytes, supplied via
// the hook manifest.
type LightConfig struct {
	Device    string `json:"device"`
	OkCommand string `json:"ok_command"`
	NgCommand string `json:"ng_command"`
}

func main() {
	var payload Payload
	if err := json.NewDecoder(os.Stdin).Decode(&payload); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode payload: %v", err))
		return
	}

	cfg := LightConfig{
		Device:    "/dev/ttyUSB0",
		OkCommand: "G\n",
		NgCommand: "R\n",
	}
	if len(payload.Config) > 0 {
		if err := json.Unmarshal(payload.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}

	command := cfg.NgCommand
	if payload.Success {
		command = cfg.OkCommand
	}

	if err := writeCommand(cfg.Device, command); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to drive light: %v", err))
		return
	}

	writeSuccessResponse()
}

// writeCommand sends one command to the serial device.
func writeCommand(device, command string) error {
	f, err := os.OpenFile(device, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(command); err != nil {
		return err
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
