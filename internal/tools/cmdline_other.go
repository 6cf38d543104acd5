//go:build !windows

package tools

import "os/exec"

// Non-Windows hosts only build Windows commands in tests; argv stays as parsed.
func setVerbatimCmdLine(*exec.Cmd, string) {}
