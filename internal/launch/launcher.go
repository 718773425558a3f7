// Package launch attaches a built sketch to the user's terminal.
//
// Each terminal surface has a Launcher. Launchers that can fail over try an
// ordered list of attempts and return the first process handle that comes
// back; the reasons of failed attempts are only reported when every attempt
// fails.
//
// When the sketch runs inside a pane owned by another process (a tmux split,
// an iTerm2 session, Terminal.app) there is no child to hold on to, so a
// placeholder process stands in as the handle. Terminating it only clears
// the registry; the pane is closed by the user.
package launch

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"runtime"

	"github.com/firefly-engineering/firefly-sketch/internal/errors"
	"github.com/firefly-engineering/firefly-sketch/internal/logging"
	"github.com/firefly-engineering/firefly-sketch/internal/system"
	"github.com/firefly-engineering/firefly-sketch/internal/terminal"
)

// PlaceholderCommand is spawned to represent a sketch shown in a foreign pane.
var PlaceholderCommand = []string{"tail", "-f", "/dev/null"}

// Launcher shows a sketch binary on one terminal surface.
type Launcher interface {
	// Surface returns the surface this launcher targets.
	Surface() terminal.Surface

	// Launch makes binaryPath visible to the user and returns a handle
	// that can be terminated later.
	Launch(ctx context.Context, binaryPath string) (system.Process, error)
}

// Deps are the OS boundaries a Launcher uses.
type Deps struct {
	Exec    system.CommandExecutor
	Spawner system.ProcessSpawner
	FS      system.FileSystem

	// GOOS selects the new-window strategy. Defaults to runtime.GOOS.
	GOOS string

	// TempDir receives wrapper scripts. Defaults to os.TempDir().
	TempDir string
}

func (d Deps) withDefaults() Deps {
	if d.Exec == nil {
		d.Exec = system.DefaultExecutor()
	}
	if d.Spawner == nil {
		d.Spawner = system.DefaultSpawner()
	}
	if d.FS == nil {
		d.FS = system.DefaultFS()
	}
	if d.GOOS == "" {
		d.GOOS = runtime.GOOS
	}
	if d.TempDir == "" {
		d.TempDir = os.TempDir()
	}
	return d
}

// New returns the Launcher for surface.
// Unrecognised surfaces get the new-window launcher.
func New(surface terminal.Surface, deps Deps) Launcher {
	d := deps.withDefaults()
	window := &Window{deps: d}

	switch surface {
	case terminal.SurfaceMultiplexer:
		return &Tmux{deps: d}
	case terminal.SurfaceITerm2:
		return &ITerm2{deps: d, window: window}
	case terminal.SurfaceGhostty:
		return &Ghostty{deps: d, window: window}
	default:
		return window
	}
}

// attempt is one strategy in a fallback chain.
type attempt struct {
	name string
	run  func(ctx context.Context, binaryPath string) (system.Process, error)
}

// tryEach runs attempts in order and returns the first success.
func tryEach(ctx context.Context, surface terminal.Surface, binaryPath string, attempts []attempt) (system.Process, error) {
	var errs []error
	for _, a := range attempts {
		proc, err := a.run(ctx, binaryPath)
		if err == nil {
			logging.Debug("sketch attached", "surface", surface, "via", a.name, "pid", proc.Pid())
			return proc, nil
		}
		logging.Debug("launch attempt failed", "surface", surface, "via", a.name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", a.name, err))
	}
	return nil, errors.LaunchFailed(fmt.Sprintf("no launch strategy succeeded on %s", surface), stderrors.Join(errs...))
}

// placeholder spawns the stand-in handle for a sketch shown in a foreign pane.
func placeholder(sp system.ProcessSpawner) (system.Process, error) {
	proc, err := sp.Spawn(PlaceholderCommand[0], PlaceholderCommand[1:]...)
	if err != nil {
		return nil, fmt.Errorf("failed to create placeholder process: %w", err)
	}
	return proc, nil
}
