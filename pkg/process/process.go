package process

import (
	"os"
	"syscall"
)

// IsProcessAlive checks if a process with the given PID is still running.
// It uses a signal-sending method that works on Unix-like systems (macOS, Linux).
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	// os.FindProcess never fails on Unix, even for dead PIDs.
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Signal 0 probes for existence without delivering anything.
	// nil means alive; EPERM means alive but owned by another user.
	err = process.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}
