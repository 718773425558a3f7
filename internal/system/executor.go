package system

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"sync"
)

// osExecutor implements CommandExecutor using real OS operations.
type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

func (e *osExecutor) ExecuteWithStdin(ctx context.Context, stdin string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	return cmd.CombinedOutput()
}

func (e *osExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	isolateProcessGroup(cmd)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// osSpawner implements ProcessSpawner with exec.Cmd.Start.
type osSpawner struct{}

func (s *osSpawner) Spawn(name string, args ...string) (Process, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &osProcess{cmd: cmd}, nil
}

// osProcess wraps a started command. Terminate is idempotent.
type osProcess struct {
	cmd  *exec.Cmd
	once sync.Once
	err  error
}

func (p *osProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *osProcess) Terminate() error {
	p.once.Do(func() {
		killErr := p.cmd.Process.Kill()
		// Wait reaps the child; its error after a kill is expected.
		_ = p.cmd.Wait()
		p.err = killErr
	})
	return p.err
}
