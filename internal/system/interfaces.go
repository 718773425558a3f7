// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"context"
	"errors"
	"io/fs"
	"os"
)

// FileSystem abstracts file system operations for testability.
type FileSystem interface {
	// ReadFile reads the named file and returns the contents.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Remove removes the named file or empty directory.
	Remove(path string) error

	// RemoveAll removes path and any children it contains.
	RemoveAll(path string) error

	// Stat returns file info for the named file.
	Stat(path string) (fs.FileInfo, error)

	// MkdirAll creates a directory named path, along with any necessary parents.
	MkdirAll(path string, perm fs.FileMode) error

	// Exists returns true if the path exists.
	Exists(path string) bool

	// IsDir returns true if the path is a directory.
	IsDir(path string) bool

	// ReadDir reads the named directory, returning all its directory entries.
	ReadDir(path string) ([]fs.DirEntry, error)
}

// CommandExecutor abstracts short-lived command execution for testability.
type CommandExecutor interface {
	// Execute runs a command and returns its combined output.
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// ExecuteWithStdin runs a command with the given stdin and returns output.
	ExecuteWithStdin(ctx context.Context, stdin string, name string, args ...string) ([]byte, error)

	// Run runs a command in dir and captures stdout and stderr separately.
	// A non-zero exit is reported as *exec.ExitError alongside the output.
	Run(ctx context.Context, dir string, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExitCoder is satisfied by errors of processes that started and exited
// unsuccessfully, such as *exec.ExitError.
type ExitCoder interface {
	error
	ExitCode() int
}

// ExitStatus reports the exit code carried by err, if any.
// ok is false when the process never ran.
func ExitStatus(err error) (code int, ok bool) {
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode(), true
	}
	return 0, false
}

// Process is a handle to a detached child process.
type Process interface {
	// Pid returns the operating system process id.
	Pid() int

	// Terminate kills the process and reaps it.
	Terminate() error
}

// ProcessSpawner starts long-lived child processes that outlive the call.
type ProcessSpawner interface {
	Spawn(name string, args ...string) (Process, error)
}

// Default instances using real OS operations.
var (
	defaultFS       FileSystem      = &osFileSystem{}
	defaultExecutor CommandExecutor = &osExecutor{}
	defaultSpawner  ProcessSpawner  = &osSpawner{}
)

// DefaultFS returns the default FileSystem implementation using real OS operations.
func DefaultFS() FileSystem {
	return defaultFS
}

// DefaultExecutor returns the default CommandExecutor implementation.
func DefaultExecutor() CommandExecutor {
	return defaultExecutor
}

// DefaultSpawner returns the default ProcessSpawner implementation.
func DefaultSpawner() ProcessSpawner {
	return defaultSpawner
}

// osFileSystem implements FileSystem using real OS operations.
type osFileSystem struct{}

func (f *osFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *osFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (f *osFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (f *osFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (f *osFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (f *osFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (f *osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (f *osFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (f *osFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}
