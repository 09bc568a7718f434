// Package config loads and saves the player's settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/olivierh59500/media-player/pkg/transport"
)

type Config struct {
	// Backend is "auto", "mpv" or "native". Auto prefers mpv when the
	// binary was built with it.
	Backend string `json:"backend"`

	// Native backend audio sink: "oto", "wav" or "null".
	Output     string `json:"output"`
	WAVFile    string `json:"wav_file"`
	SampleRate int    `json:"sample_rate"`
	BufferSize int    `json:"buffer_size"`

	StepSeconds    float64 `json:"step_seconds"`     // forward/backward buttons
	KeyStepSeconds float64 `json:"key_step_seconds"` // j / l keys

	TickIntervalMs      int     `json:"tick_interval_ms"`
	EndThresholdSeconds float64 `json:"end_threshold_seconds"`
	SeekRetryDelayMs    int     `json:"seek_retry_delay_ms"`
	SeekRetryLimit      int     `json:"seek_retry_limit"`

	WatchFolder bool   `json:"watch_folder"`
	LogLevel    string `json:"log_level"`

	LastFolder   string `json:"last_folder"`
	LastPlaylist string `json:"last_playlist"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Backend:             "auto",
		Output:              "oto",
		SampleRate:          44100,
		BufferSize:          2048,
		StepSeconds:         5,
		KeyStepSeconds:      10,
		TickIntervalMs:      150,
		EndThresholdSeconds: 0.1,
		SeekRetryDelayMs:    50,
		SeekRetryLimit:      200,
		WatchFolder:         true,
		LogLevel:            "info",
	}
}

// DefaultPath returns <user config dir>/media-player/config.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "media-player", "config.json"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes the config as indented JSON, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func (c Config) Validate() error {
	switch c.Backend {
	case "auto", "mpv", "native":
	default:
		return fmt.Errorf("backend must be auto, mpv or native, got %q", c.Backend)
	}
	switch c.Output {
	case "oto", "null":
	case "wav":
		if c.WAVFile == "" {
			return errors.New("wav output needs wav_file")
		}
	default:
		return fmt.Errorf("output must be oto, wav or null, got %q", c.Output)
	}
	if c.SampleRate < 8000 || c.SampleRate > 192000 {
		return fmt.Errorf("sample_rate %d out of range", c.SampleRate)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive")
	}
	if c.StepSeconds <= 0 || c.KeyStepSeconds <= 0 {
		return fmt.Errorf("step sizes must be positive")
	}
	if c.TickIntervalMs < 10 {
		return fmt.Errorf("tick_interval_ms must be at least 10")
	}
	if c.EndThresholdSeconds < 0 {
		return fmt.Errorf("end_threshold_seconds must not be negative")
	}
	if c.SeekRetryDelayMs <= 0 || c.SeekRetryLimit < 0 {
		return fmt.Errorf("invalid seek retry settings")
	}
	if _, err := logging.LevelFromString(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// TickInterval is the UI polling period.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// TransportOptions maps the timing settings onto the controller.
func (c Config) TransportOptions() transport.Options {
	return transport.Options{
		EndThreshold:   c.EndThresholdSeconds,
		SeekRetryDelay: time.Duration(c.SeekRetryDelayMs) * time.Millisecond,
		SeekRetryLimit: c.SeekRetryLimit,
	}
}

// ApplyLogLevel sets every subsystem logger to the configured level.
func (c Config) ApplyLogLevel() error {
	lvl, err := logging.LevelFromString(c.LogLevel)
	if err != nil {
		return err
	}
	logging.SetAllLoggers(lvl)
	return nil
}
