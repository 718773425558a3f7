//go:build windows

package system

import (
	"os/exec"
	"syscall"
)

const createNewProcessGroup = 0x00000200

// isolateProcessGroup starts cmd in its own process group so a console
// interrupt aimed at sketch-ctl does not reach it.
func isolateProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}
