package sketch

import "time"

// Status is the lifecycle state of a sketch.
type Status string

const (
	StatusCreated Status = "created"
	StatusReady   Status = "ready"
	StatusRunning Status = "running"

	// StatusCompiling and StatusStopped are transient states shown by
	// interactive callers while an operation is in flight; List never
	// reports them.
	StatusCompiling Status = "compiling"
	StatusStopped   Status = "stopped"

	// StatusFailed is the outcome of a single build, never a listed state.
	StatusFailed Status = "failed"
)

// Info describes a sketch in the catalog.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`
	PID         int    `json:"pid,omitempty"`
	Path        string `json:"path"`
}

// CompileResult is the outcome of a toolchain build.
// A failed build is reported here, not as an error.
type CompileResult struct {
	Success    bool          `json:"success"`
	BinaryPath string        `json:"binary_path,omitempty"`
	Stdout     string        `json:"stdout"`
	Stderr     string        `json:"stderr"`
	ExitCode   int           `json:"exit_code"`
	Duration   time.Duration `json:"duration"`
}

// Status maps the build outcome onto a lifecycle status.
func (r *CompileResult) Status() Status {
	if r.Success {
		return StatusReady
	}
	return StatusFailed
}

// Message prefixes of unsuccessful RunResults.
const (
	CompileFailedPrefix = "Compilation failed:\n"
	LaunchFailedPrefix  = "Failed to launch sketch: "
)

// RunResult is the outcome of Run.
type RunResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	PID     int    `json:"pid,omitempty"`
}
