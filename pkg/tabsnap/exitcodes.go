// Package tabsnap provides public constants for tools that run the tabsnap
// fixture generator.
package tabsnap

// Exit codes returned by the tabsnap binary.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the fixture was written.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (normalization or rendering failed).
	ExitFailure = 1

	// ExitConfigError indicates an invalid tabsnap.yaml or case file.
	ExitConfigError = 2

	// ExitEnvError indicates that Python or tabulate is unavailable.
	ExitEnvError = 3
)
