package config

import (
	"github.com/danmuck/dbgadgets/internal/gadgets"
	"github.com/danmuck/dbgadgets/internal/tools"
)

// LocateOptions maps the search settings onto a tool search.
func (c Config) LocateOptions() tools.LocateOptions {
	return tools.LocateOptions{
		BaseDir:      c.BaseDir,
		SearchPATH:   c.SearchPath,
		DefaultPaths: append([]string(nil), c.DefaultPaths...),
	}
}

// GadgetEnv builds the shared gadget environment for the running host.
func (c Config) GadgetEnv() gadgets.Env {
	return gadgets.Env{
		Runner:     tools.ExecRunner{},
		Locator:    tools.NewLocator(),
		Locate:     c.LocateOptions(),
		OptionDir:  c.OptionDir,
		ServerTool: c.Server.Tool,
		Host:       c.Server.Host,
		Port:       c.Server.Port,
	}
}
