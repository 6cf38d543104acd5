package tools

import (
	"os"
	"os/exec"
	"runtime"
	"sync"
)

// Platform isolates the OS specific parts of tool discovery and process control.
type Platform interface {
	Name() string
	// ExecutableSuffix is appended to tool names before searching.
	ExecutableSuffix() string
	QuoteChar() string
	DefaultSearchPaths() []string
	// AlternateNames lists fallback binary names checked in the same directory
	// when tool itself is absent.
	AlternateNames(tool string) []string
	// Command builds an unstarted command from a single command line.
	Command(line string) (*exec.Cmd, error)
	StopPID(pid int, force bool) error
	Terminate(proc *os.Process, force bool) error
}

var (
	platformOnce sync.Once
	current      Platform
)

// CurrentPlatform returns the adapter for the running OS.
func CurrentPlatform() Platform {
	platformOnce.Do(func() {
		current = PlatformFor(runtime.GOOS, ExecRunner{})
	})
	return current
}

// PlatformFor returns the adapter for goos. The runner is used by adapters that
// shell out for process control.
func PlatformFor(goos string, runner CommandRunner) Platform {
	if runner == nil {
		runner = ExecRunner{}
	}
	if goos == "windows" {
		return windowsPlatform{runner: runner}
	}
	return posixPlatform{}
}
