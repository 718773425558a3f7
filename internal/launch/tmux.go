package launch

import (
	"context"
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-sketch/internal/system"
	"github.com/firefly-engineering/firefly-sketch/internal/terminal"
)

// Tmux opens the sketch in a horizontal split of the current tmux window.
type Tmux struct {
	deps Deps
}

func (t *Tmux) Surface() terminal.Surface { return terminal.SurfaceMultiplexer }

// SplitArgs returns the tmux arguments that run binaryPath in a new pane.
// tmux hands the command to a shell, so the path is quoted.
func (t *Tmux) SplitArgs(binaryPath string) []string {
	return []string{"split-window", "-h", shellquote.Join(binaryPath)}
}

func (t *Tmux) Launch(ctx context.Context, binaryPath string) (system.Process, error) {
	return tryEach(ctx, t.Surface(), binaryPath, []attempt{
		{name: "tmux split", run: t.split},
	})
}

func (t *Tmux) split(ctx context.Context, binaryPath string) (system.Process, error) {
	output, err := t.deps.Exec.Execute(ctx, "tmux", t.SplitArgs(binaryPath)...)
	if err != nil {
		if msg := strings.TrimSpace(string(output)); msg != "" {
			return nil, fmt.Errorf("tmux split-window failed: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("tmux split-window failed: %w", err)
	}
	return placeholder(t.deps.Spawner)
}
