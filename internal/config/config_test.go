// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.DataFile != DefaultDataFile {
		t.Errorf("DataFile: got %q, want %q", cfg.DataFile, DefaultDataFile)
	}
	if cfg.SchemaFile != DefaultSchemaFile {
		t.Errorf("SchemaFile: got %q, want %q", cfg.SchemaFile, DefaultSchemaFile)
	}
	if cfg.OnCorrupt != OnCorruptFail {
		t.Errorf("OnCorrupt: got %q, want %q", cfg.OnCorrupt, OnCorruptFail)
	}
	if cfg.DefaultCategory != "General" {
		t.Errorf("DefaultCategory: got %q, want General", cfg.DefaultCategory)
	}
	if cfg.DefaultPriority != "Medium" {
		t.Errorf("DefaultPriority: got %q, want Medium", cfg.DefaultPriority)
	}
	if !cfg.ConfirmRemove {
		t.Error("ConfirmRemove: got false, want true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want info", cfg.LogLevel)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todotrack.toml")
	content := `
data_file = "work-tasks.json"
on_corrupt = "reset"
default_category = "Work"
confirm_remove = false
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, path); err != nil {
		t.Fatalf("loadConfigFile failed: %v", err)
	}

	if cfg.DataFile != "work-tasks.json" {
		t.Errorf("DataFile: got %q, want work-tasks.json", cfg.DataFile)
	}
	if cfg.OnCorrupt != OnCorruptReset {
		t.Errorf("OnCorrupt: got %q, want %q", cfg.OnCorrupt, OnCorruptReset)
	}
	if cfg.DefaultCategory != "Work" {
		t.Errorf("DefaultCategory: got %q, want Work", cfg.DefaultCategory)
	}
	if cfg.ConfirmRemove {
		t.Error("ConfirmRemove: got true, want false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	// Untouched fields keep their defaults.
	if cfg.SchemaFile != DefaultSchemaFile {
		t.Errorf("SchemaFile: got %q, want %q", cfg.SchemaFile, DefaultSchemaFile)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TODOTRACK_DATA_FILE", "env-tasks.json")
	t.Setenv("TODOTRACK_DEFAULT_PRIORITY", "High")
	t.Setenv("TODOTRACK_CONFIRM_REMOVE", "false")
	t.Setenv("TODOTRACK_LOG_TIMESTAMPS", "true")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.DataFile != "env-tasks.json" {
		t.Errorf("DataFile: got %q, want env-tasks.json", cfg.DataFile)
	}
	if cfg.DefaultPriority != "High" {
		t.Errorf("DefaultPriority: got %q, want High", cfg.DefaultPriority)
	}
	if cfg.ConfirmRemove {
		t.Error("ConfirmRemove: got true, want false")
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TODOTRACK_DATA_FILE", "env-tasks.json")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := parseFlags(cfg, fs, []string{"-data-file", "flag-tasks.json"}); err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}

	if cfg.DataFile != "flag-tasks.json" {
		t.Errorf("DataFile: got %q, want flag-tasks.json", cfg.DataFile)
	}
}

func TestFinalizeConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{}
	setDefaults(cfg)
	cfg.WorkDir = dir

	if err := finalizeConfig(cfg); err != nil {
		t.Fatalf("finalizeConfig failed: %v", err)
	}
	if cfg.DataFile != filepath.Join(dir, DefaultDataFile) {
		t.Errorf("DataFile: got %q, want it joined to %q", cfg.DataFile, dir)
	}
	if !filepath.IsAbs(cfg.SchemaFile) {
		t.Errorf("SchemaFile: got relative path %q", cfg.SchemaFile)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(*Config) {}, false},
		{"reset policy valid", func(c *Config) { c.OnCorrupt = OnCorruptReset }, false},
		{"bad on_corrupt", func(c *Config) { c.OnCorrupt = "ignore" }, true},
		{"bad default priority", func(c *Config) { c.DefaultPriority = "Urgent" }, true},
		{"lowercase priority ok", func(c *Config) { c.DefaultPriority = "high" }, false},
		{"empty default category", func(c *Config) { c.DefaultCategory = "  " }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
