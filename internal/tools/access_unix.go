//go:build unix && !linux && !darwin && !freebsd

package tools

import "golang.org/x/sys/unix"

func canExecute(path string) bool {
	return unix.Access(path, unix.X_OK) == nil
}
