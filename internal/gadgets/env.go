package gadgets

import (
	"strings"

	"github.com/danmuck/dbgadgets/internal/tools"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 3306
)

// Env is the shared host context handed to gadget factories.
type Env struct {
	Runner     tools.CommandRunner
	Locator    tools.Locator
	Locate     tools.LocateOptions
	OptionDir  string
	ServerTool string
	Host       string
	Port       int
}

func (e Env) withDefaults() Env {
	if e.Runner == nil {
		e.Runner = tools.ExecRunner{}
	}
	if e.Locator.Platform == nil {
		e.Locator.Platform = tools.CurrentPlatform()
	}
	if strings.TrimSpace(e.Host) == "" {
		e.Host = DefaultHost
	}
	if e.Port <= 0 {
		e.Port = DefaultPort
	}
	return e
}
