// Package errors provides typed errors with exit codes for sketch-ctl.
//
// # Error Types
//
// SketchError is the base error type that wraps an error with an exit code:
//
//	type SketchError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess        = 0  // Success
//	ExitGeneralError   = 1  // General/unknown errors
//	ExitInvalidName    = 2  // Sketch name failed validation
//	ExitSketchNotFound = 3  // Sketch does not exist
//	ExitToolchainError = 4  // Build toolchain could not be started
//	ExitLaunchError    = 5  // Terminal attach failed after a successful build
//	ExitDeletionFailed = 6  // Sketch directory could not be removed
//	ExitConfigError    = 7  // Configuration error
//
// A build that runs and fails is not an error: it is reported in the
// compile/run result so callers can show the compiler diagnostics.
//
// # Error Constructors
//
//	errors.InvalidName("../x", "contains invalid characters")
//	errors.NotFound("demo")
//	errors.ToolchainInvocation(err)
//	errors.LaunchFailed("tmux split-window failed", err)
//	errors.DeletionFailed("demo", err)
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
