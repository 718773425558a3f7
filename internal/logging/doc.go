// Package logging provides logging utilities for sketch-ctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("compiling sketch", "name", name, "dir", dir)
//	logging.Warn("failed to terminate sketch process", "name", name, "error", err)
//
// Logs go to stderr unless the root command is given --log-file, in which
// case they are written to a size-rotated file (see RotatingFile).
//
// # User Output
//
//	logging.UserInfo("Compiling sketch %s...", name)
//	logging.UserSuccess("Sketch %s is now running (pid %d)", name, pid)
//	logging.UserWarning("Sketch %s was not running", name)
//	logging.UserError("Failed to run sketch: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: UserOut (stdout)
//   - UserWarning, UserError: UserErr (stderr)
package logging
