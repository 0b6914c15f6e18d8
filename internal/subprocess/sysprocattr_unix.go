//go:build !windows

package subprocess

import (
	"os/exec"
	"time"

	"golang.org/x/sys/unix"
)

// configureCmdSysProcAttr places the child in a new session so that it leads
// its own process group (group id = child pid) and does not receive signals
// delivered to the caller's group. Context cancellation kills the whole
// group, not just the shell, so grandchildren cannot outlive the invocation.
func configureCmdSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &unix.SysProcAttr{Setsid: true}

	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = 3 * time.Second
}
