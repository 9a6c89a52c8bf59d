//go:build windows

package system

import "os"

func resumeSignals() []os.Signal {
	return nil
}
