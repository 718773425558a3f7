package sketch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-sketch/internal/audit"
	"github.com/firefly-engineering/firefly-sketch/internal/config"
	"github.com/firefly-engineering/firefly-sketch/internal/errors"
	"github.com/firefly-engineering/firefly-sketch/internal/logging"
	"github.com/firefly-engineering/firefly-sketch/internal/metrics"
	"github.com/firefly-engineering/firefly-sketch/internal/system"
)

// Compile builds the named sketch synchronously with the configured
// toolchain. A build that runs and fails is reported through the result;
// the error is reserved for a missing sketch or a toolchain that cannot be
// started.
func (m *Manager) Compile(ctx context.Context, name string) (*CompileResult, error) {
	dir, err := m.existingDir(name)
	if err != nil {
		return nil, err
	}
	return m.build(ctx, name, dir)
}

// ArtifactPath returns where a successful build leaves the executable.
func (m *Manager) ArtifactPath(name, dir string) string {
	return filepath.Join(dir, m.toolchain.ArtifactDir, name)
}

func (m *Manager) build(ctx context.Context, name, dir string) (*CompileResult, error) {
	tc := m.toolchain
	cmdline := shellquote.Join(append([]string{tc.Command}, tc.Args...)...)
	logging.Debug("building sketch", "name", name, "dir", dir, "command", cmdline)

	start := time.Now()
	stdout, stderr, runErr := m.exec.Run(ctx, dir, tc.Command, tc.Args...)
	elapsed := time.Since(start)

	exitCode, exited := 0, true
	if runErr != nil {
		exitCode, exited = system.ExitStatus(runErr)
	}
	if !exited {
		m.record(audit.EventError, name, "toolchain: "+runErr.Error())
		return nil, errors.ToolchainInvocation(fmt.Errorf("%s: %w", cmdline, runErr))
	}

	result := &CompileResult{
		Success:  runErr == nil,
		Stdout:   string(stdout),
		Stderr:   string(stderr),
		ExitCode: exitCode,
		Duration: elapsed,
	}
	if result.Success {
		result.BinaryPath = m.ArtifactPath(name, dir)
	}

	m.writeBuildLog(dir, cmdline, result)
	metrics.ObserveBuild(result.Success, elapsed.Seconds())
	m.record(audit.EventBuild, name, fmt.Sprintf("%s exit=%d duration=%s", result.Status(), exitCode, elapsed.Round(time.Millisecond)))
	logging.Debug("build finished", "name", name, "success", result.Success, "exit", exitCode, "duration", elapsed)

	return result, nil
}

// writeBuildLog appends the build transcript to the sketch's rotating build log.
func (m *Manager) writeBuildLog(dir, cmdline string, r *CompileResult) {
	w := m.buildLog(filepath.Join(dir, config.BuildLogFile))
	defer w.Close()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s %s (exit %d, %s)\n", time.Now().Format(time.RFC3339), cmdline, r.ExitCode, r.Duration.Round(time.Millisecond))
	sb.WriteString(r.Stdout)
	sb.WriteString(r.Stderr)
	if !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}

	if _, err := w.Write([]byte(sb.String())); err != nil {
		logging.Warn("failed to write build log", "dir", dir, "error", err)
	}
}
