package launch

import (
	"context"
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-sketch/internal/system"
	"github.com/firefly-engineering/firefly-sketch/internal/terminal"
)

// ITerm2 splits the current iTerm2 session vertically through AppleScript,
// falling back to a new window.
type ITerm2 struct {
	deps   Deps
	window *Window
}

func (i *ITerm2) Surface() terminal.Surface { return terminal.SurfaceITerm2 }

// SplitScript returns the AppleScript that runs binaryPath in a new split.
// exec replaces the pane's shell so the pane closes when the sketch exits.
func SplitScript(binaryPath string) string {
	command := "exec " + shellquote.Join(binaryPath)
	return fmt.Sprintf(`tell application "iTerm"
    tell current session of current window
        set newSession to (split vertically with default profile)
    end tell
    tell newSession
        write text "%s"
        select
    end tell
end tell
`, appleScriptEscape(command))
}

func appleScriptEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func (i *ITerm2) Launch(ctx context.Context, binaryPath string) (system.Process, error) {
	return tryEach(ctx, i.Surface(), binaryPath, []attempt{
		{name: "iTerm2 split", run: i.split},
		{name: "new window", run: i.window.open},
	})
}

func (i *ITerm2) split(ctx context.Context, binaryPath string) (system.Process, error) {
	output, err := i.deps.Exec.ExecuteWithStdin(ctx, SplitScript(binaryPath), "osascript", "-")
	if err != nil {
		return nil, fmt.Errorf("AppleScript execution failed: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return placeholder(i.deps.Spawner)
}
