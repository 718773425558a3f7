package errors

import (
	"errors"
	"fmt"
)

// Exit codes for sketch-ctl
const (
	ExitSuccess        = 0
	ExitGeneralError   = 1
	ExitInvalidName    = 2
	ExitSketchNotFound = 3
	ExitToolchainError = 4
	ExitLaunchError    = 5
	ExitDeletionFailed = 6
	ExitConfigError    = 7
)

// SketchError is the base error type for sketch-ctl
type SketchError struct {
	Code    int
	Message string
	Cause   error
}

func (e *SketchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SketchError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *SketchError) ExitCode() int {
	return e.Code
}

// New creates a new SketchError
func New(code int, message string) *SketchError {
	return &SketchError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SketchError
func Wrap(code int, message string, cause error) *SketchError {
	return &SketchError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// InvalidName returns an error for a sketch name that failed validation
func InvalidName(name, reason string) *SketchError {
	return New(ExitInvalidName, fmt.Sprintf("invalid sketch name %q: %s", name, reason))
}

// NotFound returns an error for an operation on an unknown sketch
func NotFound(name string) *SketchError {
	return New(ExitSketchNotFound, fmt.Sprintf("sketch not found: %s", name))
}

// ToolchainInvocation returns an error when the build toolchain could not be started.
// A build that ran and failed is not an error.
func ToolchainInvocation(cause error) *SketchError {
	return Wrap(ExitToolchainError, "failed to invoke build toolchain", cause)
}

// LaunchFailed returns an error for a failed terminal attach
func LaunchFailed(message string, cause error) *SketchError {
	return Wrap(ExitLaunchError, message, cause)
}

// DeletionFailed returns an error when a sketch directory could not be removed
func DeletionFailed(name string, cause error) *SketchError {
	return Wrap(ExitDeletionFailed, fmt.Sprintf("failed to delete sketch %s", name), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *SketchError {
	return Wrap(ExitConfigError, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *SketchError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var sketchErr *SketchError
	if errors.As(err, &sketchErr) {
		return sketchErr.ExitCode()
	}
	return ExitGeneralError
}

// HasCode reports whether err's chain contains a SketchError with the given code
func HasCode(err error, code int) bool {
	var sketchErr *SketchError
	return errors.As(err, &sketchErr) && sketchErr.Code == code
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
