//go:build !windows

package system

import (
	"os/exec"
	"syscall"
)

// isolateProcessGroup starts cmd in its own process group so a terminal
// interrupt aimed at sketch-ctl does not reach it.
func isolateProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
