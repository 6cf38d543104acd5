package gadgets

import (
	"fmt"
	"strings"

	"github.com/danmuck/dbgadgets/internal/tools"
	"github.com/rs/zerolog/log"
)

// Tool exposes the generic discovery and path helpers for any distribution tool.
type Tool struct {
	env Env
}

// NewTool is the registry factory for the tool gadget.
func NewTool(env Env) (Gadget, error) {
	return Tool{env: env.withDefaults()}, nil
}

func (t Tool) Metadata() Metadata {
	return Metadata{
		ID:          "gadget.tool",
		Name:        "Distribution tools",
		Description: "Locate tools, check executability and resolve paths",
	}
}

func (t Tool) Operations() []OperationSpec {
	return []OperationSpec{
		{Name: "locate", Description: "find a tool by name", Idempotent: true},
		{Name: "check", Description: "report whether a path is executable", Idempotent: true},
		{Name: "abspath", Description: "resolve a path against a reference", Idempotent: true},
	}
}

func (t Tool) Execute(action string, args map[string]string) (Result, error) {
	act := strings.TrimSpace(action)
	log.Debug().Str("action", act).Msg("gadgets.Tool.Execute")
	switch act {
	case "locate":
		return t.locate(args)
	case "check":
		path, err := requireArg(args, "path")
		if err != nil {
			return errorResult(err, exitUsage), err
		}
		ok := tools.IsExecutable(path)
		res := okResult(fmt.Sprintf("path=%s executable=%t\n", path, ok))
		if !ok {
			res.ExitCode = exitFailure
		}
		return res, nil
	case "abspath":
		path, err := requireArg(args, "path")
		if err != nil {
			return errorResult(err, exitUsage), err
		}
		abs, err := tools.AbsPath(path, argString(args, "relative_to"))
		if err != nil {
			return errorResult(err, exitUsage), err
		}
		return okResult(abs + "\n"), nil
	default:
		log.Warn().Str("action", act).Msg("gadgets.Tool.Execute unknown action")
		return unknownAction(act)
	}
}

func (t Tool) locate(args map[string]string) (Result, error) {
	name, err := requireArg(args, "name")
	if err != nil {
		return errorResult(err, exitUsage), err
	}
	opts := t.env.Locate
	if base := argString(args, "base_dir"); base != "" {
		opts.BaseDir = base
	}
	for key, dst := range map[string]*bool{
		"search_path":  &opts.SearchPATH,
		"optional":     &opts.Optional,
		"quote":        &opts.Quote,
		"no_extension": &opts.NoExtension,
	} {
		v, err := argBool(args, key, *dst)
		if err != nil {
			return errorResult(err, exitUsage), err
		}
		*dst = v
	}
	if exe, err := argBool(args, "executable", false); err != nil {
		return errorResult(err, exitUsage), err
	} else if exe {
		opts.Check = tools.IsExecutable
	}

	path, err := t.env.Locator.ToolPath(name, opts)
	if err != nil {
		return errorResult(err, exitNotFound), err
	}
	if path == "" {
		res := okResult("")
		res.ExitCode = exitNotFound
		return res, nil
	}
	return okResult(path + "\n"), nil
}
