//go:build linux || darwin || freebsd

package tools

import "golang.org/x/sys/unix"

// canExecute checks X_OK against the effective uid and gid.
func canExecute(path string) bool {
	return unix.Faccessat(unix.AT_FDCWD, path, unix.X_OK, unix.AT_EACCESS) == nil
}
