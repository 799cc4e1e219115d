// Package config provides loading and validation for tabsnap.yaml.
package config

// Config represents tabsnap.yaml. Every field is optional.
type Config struct {
	// Output is the fixture path. Relative paths resolve against the
	// project root.
	Output string `yaml:"output,omitempty"`
	// Python is the interpreter that runs the reference renderer.
	Python string `yaml:"python,omitempty"`
	// VerifyDeterminism renders each case twice.
	VerifyDeterminism bool   `yaml:"verify_determinism,omitempty"`
	LogLevel          string `yaml:"log_level,omitempty"`
	// Cases lists additional YAML case files, appended after the built-in
	// batches in order.
	Cases []string `yaml:"cases,omitempty"`
}
