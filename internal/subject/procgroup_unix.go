//go:build unix

package subject

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// killProcessGroup starts the child in its own process group and makes
// context cancellation kill the whole group, so helpers the subject
// spawned (cargo's compiled binary, a shell's background jobs) die with it.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
