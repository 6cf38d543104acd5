//go:build unix

package tools

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func signalPID(pid int, sig syscall.Signal) error {
	return unix.Kill(pid, sig)
}
