package config

import "path/filepath"

// Default configuration values.
const (
	DefaultPython   = "python3"
	DefaultLogLevel = "info"
)

// DefaultOutput is the fixture location relative to the project root.
var DefaultOutput = filepath.Join("tests", "fixtures", "python_snapshots.json")

// Default returns the configuration used when no tabsnap.yaml exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Python == "" {
		cfg.Python = DefaultPython
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}
