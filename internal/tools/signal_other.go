//go:build !unix && !windows

package tools

import (
	"errors"
	"syscall"
)

func signalPID(int, syscall.Signal) error {
	return errors.New("signals are not supported on this platform")
}
