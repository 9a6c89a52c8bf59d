//go:build !windows

package system

import (
	"os"
	"syscall"
)

// resumeSignals are delivered when the process continues after being stopped.
func resumeSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}
