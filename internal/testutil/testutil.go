package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/firefly-engineering/firefly-sketch/internal/config"
	"github.com/firefly-engineering/firefly-sketch/internal/system"
	"github.com/firefly-engineering/firefly-sketch/internal/terminal"
)

// TestRuntimeDir is the runtime crate path written into test manifests.
const TestRuntimeDir = "/opt/claude-sketch/crates/claude-sketch-runtime"

// TestEnv holds a temporary sketch catalog and mock OS boundaries.
type TestEnv struct {
	T        *testing.T
	TmpDir   string
	Config   *config.Config
	Exec     *system.MockExecutor
	Spawner  *system.MockSpawner
	Launcher *StubLauncher
}

// NewTestEnv creates a catalog under a temp dir whose toolchain always
// succeeds and leaves an artifact behind.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := &config.Config{
		Paths:     config.NewPaths(filepath.Join(tmpDir, config.DefaultBaseDirName), TestRuntimeDir),
		Toolchain: config.DefaultToolchain(),
		Terminal:  string(terminal.SurfaceMultiplexer),
	}

	env := &TestEnv{
		T:        t,
		TmpDir:   tmpDir,
		Config:   cfg,
		Exec:     system.NewMockExecutor(),
		Spawner:  system.NewMockSpawner(),
		Launcher: NewStubLauncher(terminal.SurfaceMultiplexer),
	}
	StubToolchain(env.Exec, cfg)
	return env
}

// StubToolchain makes every toolchain invocation succeed and write the
// artifact the manager expects, named after the sketch directory.
func StubToolchain(exec *system.MockExecutor, cfg *config.Config) {
	exec.Hook = func(cmd system.MockCommand) {
		if cmd.Name != cfg.Toolchain.Command || cmd.Dir == "" {
			return
		}
		artifact := filepath.Join(cmd.Dir, cfg.Toolchain.ArtifactDir, filepath.Base(cmd.Dir))
		if err := os.MkdirAll(filepath.Dir(artifact), 0755); err != nil {
			panic(err)
		}
		if err := os.WriteFile(artifact, []byte("#!/bin/sh\n"), 0755); err != nil {
			panic(err)
		}
	}
	exec.SetResponse(cfg.Toolchain.Command, system.MockResponse{
		Output: []byte("Finished release [optimized] target(s)\n"),
	})
}

// FailingToolchain makes every toolchain invocation exit non-zero with stderr.
func FailingToolchain(exec *system.MockExecutor, cfg *config.Config, stderr string) {
	exec.Hook = nil
	exec.SetResponse(cfg.Toolchain.Command, system.MockResponse{
		Stderr: []byte(stderr),
		Err:    &system.MockExitError{Code: 101},
	})
}

// SketchDir returns the directory of the named sketch in the env's catalog.
func (e *TestEnv) SketchDir(name string) string {
	return filepath.Join(e.Config.Paths.SketchesDir, name)
}

// Exists reports whether path exists relative to the named sketch directory.
func (e *TestEnv) Exists(name, rel string) bool {
	_, err := os.Stat(filepath.Join(e.SketchDir(name), rel))
	return err == nil
}

// StubLauncher is a launch.Launcher that records binaries and hands out
// mock processes.
type StubLauncher struct {
	mu      sync.Mutex
	surface terminal.Surface
	nextPID int

	// Launched records binary paths in launch order.
	Launched []string

	// Processes holds every handle returned.
	Processes []*system.MockProcess

	// Err, if set, is returned instead of launching.
	Err error
}

// NewStubLauncher creates a StubLauncher for surface.
func NewStubLauncher(surface terminal.Surface) *StubLauncher {
	return &StubLauncher{surface: surface, nextPID: 4000}
}

func (l *StubLauncher) Surface() terminal.Surface { return l.surface }

func (l *StubLauncher) Launch(_ context.Context, binaryPath string) (system.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Launched = append(l.Launched, binaryPath)
	if l.Err != nil {
		return nil, l.Err
	}
	l.nextPID++
	p := system.NewMockProcess(l.nextPID)
	l.Processes = append(l.Processes, p)
	return p, nil
}

// Last returns the most recently launched process.
func (l *StubLauncher) Last() *system.MockProcess {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.Processes) == 0 {
		return nil
	}
	return l.Processes[len(l.Processes)-1]
}
