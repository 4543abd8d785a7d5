// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings for the application.
type Config struct {
	// Camera capture.
	CameraID    int `yaml:"camera_id"`
	FrameWidth  int `yaml:"frame_width"`
	FrameHeight int `yaml:"frame_height"`
	TargetFPS   int `yaml:"target_fps"`

	// Hand detection.
	MaxHands        int     `yaml:"max_hands"`
	MinConfidence   float64 `yaml:"min_confidence"`
	MinTrackingConf float64 `yaml:"min_tracking_confidence"`
	UseMockDetector bool    `yaml:"use_mock_detector"`

	// Intersection detection.
	DetectionMethod        string  `yaml:"detection_method"`
	ConfidenceThreshold    float64 `yaml:"confidence_threshold"`
	GestureCooldownSeconds float64 `yaml:"gesture_cooldown_seconds"`

	// Persistence paths.
	ZoneConfigPath   string `yaml:"zone_config_path"`
	ProcessStatePath string `yaml:"process_state_path"`
	AuditDBPath      string `yaml:"audit_db_path"`

	// HTTP control surface.
	HTTPAddr string `yaml:"http_addr"`

	// Outcome hooks.
	HookDir            string  `yaml:"hook_dir"`
	HookTimeoutSeconds float64 `yaml:"hook_timeout_seconds"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		CameraID:               0,
		FrameWidth:             1280,
		FrameHeight:            720,
		TargetFPS:              30,
		MaxHands:               2,
		MinConfidence:          0.7,
		MinTrackingConf:        0.5,
		DetectionMethod:        "hybrid",
		ConfidenceThreshold:    0.6,
		GestureCooldownSeconds: 2.0,
		ZoneConfigPath:         dataPath("zones.json"),
		ProcessStatePath:       dataPath("processes.json"),
		AuditDBPath:            dataPath("audit.db"),
		HTTPAddr:               "127.0.0.1:8089",
		HookDir:                dataPath("hooks"),
		HookTimeoutSeconds:     3.0,
	}
}

// Load reads the config file at path, falling back to defaults for a missing
// file. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = "nextsight.yaml"
		if envPath := os.Getenv("NEXTSIGHT_CONFIG"); envPath != "" {
			path = envPath
		}
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		log.Printf("config: loaded %s", path)
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	envOverrideInt(&cfg.CameraID, "NEXTSIGHT_CAMERA_ID")
	envOverrideInt(&cfg.MaxHands, "NEXTSIGHT_MAX_HANDS")
	envOverride(&cfg.DetectionMethod, "NEXTSIGHT_DETECTION_METHOD")
	envOverrideFloat(&cfg.ConfidenceThreshold, "NEXTSIGHT_CONFIDENCE_THRESHOLD")
	envOverrideBool(&cfg.UseMockDetector, "NEXTSIGHT_MOCK_DETECTOR")
	envOverride(&cfg.ZoneConfigPath, "NEXTSIGHT_ZONE_CONFIG")
	envOverride(&cfg.ProcessStatePath, "NEXTSIGHT_PROCESS_STATE")
	envOverride(&cfg.AuditDBPath, "NEXTSIGHT_AUDIT_DB")
	envOverride(&cfg.HTTPAddr, "NEXTSIGHT_HTTP_ADDR")
	envOverride(&cfg.HookDir, "NEXTSIGHT_HOOK_DIR")

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DetectionMethod {
	case "point", "bounding_box", "hybrid":
	default:
		return fmt.Errorf("unknown detection_method %q", c.DetectionMethod)
	}
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold %v out of range (0, 1]", c.ConfidenceThreshold)
	}
	if c.MaxHands < 1 {
		return fmt.Errorf("max_hands must be at least 1")
	}
	if c.GestureCooldownSeconds < 0 {
		return fmt.Errorf("gesture_cooldown_seconds must not be negative")
	}
	if c.HookTimeoutSeconds < 0 {
		return fmt.Errorf("hook_timeout_seconds must not be negative")
	}
	return nil
}

// GestureCooldown returns the configured cooldown as a duration.
func (c *Config) GestureCooldown() time.Duration {
	return time.Duration(c.GestureCooldownSeconds * float64(time.Second))
}

// HookTimeout returns the configured per-hook timeout as a duration.
func (c *Config) HookTimeout() time.Duration {
	return time.Duration(c.HookTimeoutSeconds * float64(time.Second))
}

// dataPath resolves a file under the per-user application directory.
func dataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".nextsight", name)
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func envOverrideFloat(target *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}

func envOverrideBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}
