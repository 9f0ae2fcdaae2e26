package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (OS config dir, e.g. ~/.config/todotrack/todotrack.toml)
// 3. Project config file (todotrack.toml or .todotrack.toml in current directory)
// 4. Environment variables (TODOTRACK_*)
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// findUserConfigFile looks for a config file in the user's config directory.
func findUserConfigFile() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(configDir, "todotrack", "todotrack.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range []string{"todotrack.toml", ".todotrack.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// loadFromEnv overrides config values from TODOTRACK_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODOTRACK_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("TODOTRACK_SCHEMA_FILE"); v != "" {
		cfg.SchemaFile = v
	}
	if v := os.Getenv("TODOTRACK_ON_CORRUPT"); v != "" {
		cfg.OnCorrupt = v
	}
	if v := os.Getenv("TODOTRACK_DEFAULT_CATEGORY"); v != "" {
		cfg.DefaultCategory = v
	}
	if v := os.Getenv("TODOTRACK_DEFAULT_PRIORITY"); v != "" {
		cfg.DefaultPriority = v
	}
	if v := os.Getenv("TODOTRACK_CONFIRM_REMOVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ConfirmRemove = b
		}
	}
	if v := os.Getenv("TODOTRACK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODOTRACK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TODOTRACK_LOG_TIMESTAMPS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogTimestamps = b
		}
	}
}

// parseFlags registers config flags on the flag set and parses args.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.DataFile, "data-file", cfg.DataFile, "Path to the task file")
	fs.StringVar(&cfg.SchemaFile, "schema-file", cfg.SchemaFile, "Path to the JSON Schema for the task file")
	fs.StringVar(&cfg.OnCorrupt, "on-corrupt", cfg.OnCorrupt, "Policy for a corrupt task file at startup (fail|reset)")
	fs.StringVar(&cfg.DefaultCategory, "default-category", cfg.DefaultCategory, "Category for new tasks when left blank")
	fs.StringVar(&cfg.DefaultPriority, "default-priority", cfg.DefaultPriority, "Priority for new tasks when left blank (High|Medium|Low)")
	fs.BoolVar(&cfg.ConfirmRemove, "confirm-remove", cfg.ConfirmRemove, "Ask for confirmation before removing a task")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error|fatal)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")

	return fs.Parse(args)
}
