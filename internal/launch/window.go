package launch

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-sketch/internal/system"
	"github.com/firefly-engineering/firefly-sketch/internal/terminal"
)

// ClosePrompt is printed after the sketch exits in a new window.
const ClosePrompt = "Press enter to close..."

// scriptPrefix names wrapper scripts in the temp directory.
const scriptPrefix = "claude-sketch-"

// emulator is a Linux terminal emulator and the flag that precedes the command.
type emulator struct {
	name string
	args []string
}

// LinuxEmulators are tried in order.
var LinuxEmulators = []emulator{
	{name: "gnome-terminal", args: []string{"--"}},
	{name: "konsole", args: []string{"-e"}},
	{name: "xterm", args: []string{"-e"}},
}

// Window opens a new window of the platform terminal.
type Window struct {
	deps Deps
}

func (w *Window) Surface() terminal.Surface { return terminal.SurfaceUnknown }

func (w *Window) Launch(ctx context.Context, binaryPath string) (system.Process, error) {
	return tryEach(ctx, w.Surface(), binaryPath, []attempt{
		{name: "new window", run: w.open},
	})
}

// WrapperScript returns a shell script that runs binaryPath, waits for
// enter and removes itself.
func WrapperScript(binaryPath string) string {
	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString(shellquote.Join(binaryPath) + "\n")
	fmt.Fprintf(&sb, "printf '%%s' %s\n", shellquote.Join(ClosePrompt))
	sb.WriteString("read _\n")
	sb.WriteString("rm -f -- \"$0\"\n")
	return sb.String()
}

func (w *Window) open(ctx context.Context, binaryPath string) (system.Process, error) {
	switch w.deps.GOOS {
	case "darwin", "linux":
	default:
		return nil, fmt.Errorf("unsupported environment: %s", w.deps.GOOS)
	}

	script, err := w.writeScript(binaryPath)
	if err != nil {
		return nil, err
	}

	if w.deps.GOOS == "darwin" {
		if output, err := w.deps.Exec.Execute(ctx, "open", "-a", "Terminal", script); err != nil {
			return nil, fmt.Errorf("failed to open Terminal.app: %s: %w", strings.TrimSpace(string(output)), err)
		}
		return placeholder(w.deps.Spawner)
	}

	var errs []error
	for _, emu := range LinuxEmulators {
		args := append(append([]string{}, emu.args...), script)
		proc, err := w.deps.Spawner.Spawn(emu.name, args...)
		if err == nil {
			return proc, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", emu.name, err))
	}
	return nil, fmt.Errorf("no supported terminal emulator found: %w", stderrors.Join(errs...))
}

func (w *Window) writeScript(binaryPath string) (string, error) {
	path := filepath.Join(w.deps.TempDir, scriptPrefix+uuid.NewString()+".sh")
	if err := w.deps.FS.WriteFile(path, []byte(WrapperScript(binaryPath)), 0755); err != nil {
		return "", fmt.Errorf("failed to write launch script: %w", err)
	}
	return path, nil
}
