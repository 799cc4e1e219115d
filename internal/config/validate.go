package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/tabsnap/internal/logger"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for
// non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if _, ok := logger.ParseLevel(cfg.LogLevel); !ok {
		return nil, &ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("unknown level %q", cfg.LogLevel),
		}
	}

	if strings.TrimSpace(cfg.Output) == "" {
		return nil, &ValidationError{Field: "output", Message: "is required"}
	}
	if ext := filepath.Ext(cfg.Output); ext != ".json" {
		warnings = append(warnings, fmt.Sprintf("output %q does not end in .json", cfg.Output))
	}

	seen := make(map[string]bool, len(cfg.Cases))
	for i, path := range cfg.Cases {
		if strings.TrimSpace(path) == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("cases[%d]", i), Message: "is empty"}
		}
		clean := filepath.Clean(path)
		if seen[clean] {
			warnings = append(warnings, fmt.Sprintf("case file %q listed more than once", path))
		}
		seen[clean] = true
	}

	return warnings, nil
}

// ResolvePath resolves a configured path against the project root.
func ResolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
