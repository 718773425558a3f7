package launch

import (
	"context"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-sketch/internal/system"
	"github.com/firefly-engineering/firefly-sketch/internal/terminal"
)

// Ghostty starts a Ghostty window running the sketch, falling back to a new
// window of the platform terminal. The ghostty process is the handle.
type Ghostty struct {
	deps   Deps
	window *Window
}

func (g *Ghostty) Surface() terminal.Surface { return terminal.SurfaceGhostty }

// CommandArgs returns the ghostty arguments that run binaryPath.
func (g *Ghostty) CommandArgs(binaryPath string) []string {
	return []string{"-e", "/bin/sh", "-c", "exec " + shellquote.Join(binaryPath)}
}

func (g *Ghostty) Launch(ctx context.Context, binaryPath string) (system.Process, error) {
	return tryEach(ctx, g.Surface(), binaryPath, []attempt{
		{name: "ghostty", run: g.spawn},
		{name: "new window", run: g.window.open},
	})
}

func (g *Ghostty) spawn(_ context.Context, binaryPath string) (system.Process, error) {
	return g.deps.Spawner.Spawn("ghostty", g.CommandArgs(binaryPath)...)
}
