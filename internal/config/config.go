// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Corrupt-file policies. What happens when the task file exists but
// cannot be parsed at startup: "fail" aborts, "reset" starts empty.
// The fallback is an explicit choice, never silent.
const (
	OnCorruptFail  = "fail"
	OnCorruptReset = "reset"
)

// Default values.
const (
	DefaultDataFile   = "tasks.json"
	DefaultSchemaFile = "tasks.schema.json"
	DefaultOnCorrupt  = OnCorruptFail
	DefaultCategory   = "General"
	DefaultPriority   = "Medium"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for todotrack.
type Config struct {
	// Paths
	DataFile   string `toml:"data_file"`
	SchemaFile string `toml:"schema_file"`

	// Startup policy for a corrupt task file (fail|reset)
	OnCorrupt string `toml:"on_corrupt"`

	// Defaults applied to new tasks when the prompt is left blank
	DefaultCategory string `toml:"default_category"`
	DefaultPriority string `toml:"default_priority"`

	// Menu behavior
	ConfirmRemove bool `toml:"confirm_remove"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.SchemaFile = DefaultSchemaFile
	cfg.OnCorrupt = DefaultOnCorrupt
	cfg.DefaultCategory = DefaultCategory
	cfg.DefaultPriority = DefaultPriority
	cfg.ConfirmRemove = true
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// Validate checks the cross-field constraints a loaded config must hold.
func (c *Config) Validate() error {
	switch c.OnCorrupt {
	case OnCorruptFail, OnCorruptReset:
	default:
		return fmt.Errorf("on_corrupt must be %q or %q, got %q", OnCorruptFail, OnCorruptReset, c.OnCorrupt)
	}
	switch strings.ToLower(c.DefaultPriority) {
	case "high", "medium", "low":
	default:
		return fmt.Errorf("default_priority must be High, Medium, or Low, got %q", c.DefaultPriority)
	}
	if strings.TrimSpace(c.DefaultCategory) == "" {
		return fmt.Errorf("default_category must not be empty")
	}
	return nil
}

// finalizeConfig computes derived values and validates the result.
func finalizeConfig(cfg *Config) error {
	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	if !filepath.IsAbs(cfg.DataFile) {
		cfg.DataFile = filepath.Join(cfg.WorkDir, cfg.DataFile)
	}
	if !filepath.IsAbs(cfg.SchemaFile) {
		cfg.SchemaFile = filepath.Join(cfg.WorkDir, cfg.SchemaFile)
	}

	return cfg.Validate()
}
