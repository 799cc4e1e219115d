// Package errors provides the error taxonomy and exit codes of a generation run.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes of the tabsnap binary.
const (
	ExitSuccess          = 0 // Fixture written
	ExitRuntimeError     = 1 // Normalization or rendering failed
	ExitConfigError      = 2 // Invalid tabsnap.yaml
	ExitEnvironmentError = 3 // Python or the reference renderer is missing
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindEnvironment
	// KindMissingData marks a case with neither raw data nor a canonical override.
	KindMissingData
	// KindUnsupportedType marks a value no canonicalization rule accepts.
	KindUnsupportedType
	// KindOracleInvocation marks a failed reference render.
	KindOracleInvocation
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindEnvironment:
		return "environment"
	case KindMissingData:
		return "missing data"
	case KindUnsupportedType:
		return "unsupported type"
	case KindOracleInvocation:
		return "oracle invocation"
	default:
		return "runtime"
	}
}

// Error is the base error type for tabsnap.
type Error struct {
	Kind    ErrorKind
	Message string
	Case    string // Case name if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Case != "" {
		return fmt.Sprintf("[%s] %s", e.Case, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *Error {
	return &Error{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *Error {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// MissingData reports a case that has nothing to render.
func MissingData(caseName string) *Error {
	return &Error{
		Kind:    KindMissingData,
		Case:    caseName,
		Message: "case has neither data nor a canonical override",
	}
}

// UnsupportedType reports a value at path that has no canonical form.
func UnsupportedType(path string, value any) *Error {
	return &Error{
		Kind:    KindUnsupportedType,
		Message: fmt.Sprintf("%s: unsupported type %T", path, value),
	}
}

// OracleInvocation reports a failed render of the named case.
func OracleInvocation(caseName string, cause error) *Error {
	return &Error{
		Kind:    KindOracleInvocation,
		Case:    caseName,
		Message: "render failed",
		Cause:   cause,
	}
}

// ForCase attaches a case name to err. Errors of this package keep their kind;
// other errors become runtime errors.
func ForCase(caseName string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		out := *e
		if out.Case == "" {
			out.Case = caseName
		}
		return &out
	}
	return &Error{Kind: KindRuntime, Case: caseName, Message: "case failed", Cause: err}
}

// IsKind reports whether err, or any error it wraps, is an *Error of kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	for err != nil {
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.ExitCode()
	}
	return ExitRuntimeError
}
