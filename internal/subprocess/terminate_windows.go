//go:build windows

package subprocess

import (
	"errors"
	"os"
)

// terminateGroup signals only the direct child on Windows. Descendants of
// the child are best-effort; see the package documentation.
func terminateGroup(proc *os.Process) error {
	err := proc.Signal(os.Interrupt)
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	if killErr := proc.Kill(); killErr == nil || errors.Is(killErr, os.ErrProcessDone) {
		return nil
	}
	return err
}
