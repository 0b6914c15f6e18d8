//go:build !windows

package subprocess

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// terminateGroup sends SIGTERM to the entire process group of proc. The
// negative pid addresses the group, which the child leads because it was
// spawned as a session leader. ESRCH means the group already exited, which
// is not an error from the caller's perspective.
func terminateGroup(proc *os.Process) error {
	err := unix.Kill(-proc.Pid, unix.SIGTERM)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}
