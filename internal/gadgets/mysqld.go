package gadgets

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/danmuck/dbgadgets/internal/tools"
	"github.com/rs/zerolog/log"
)

const (
	DefaultServerTool = "mysqld"
	optionArgPrefix   = "opt."
)

// Mysqld is a predefined gadget for locating and controlling mysqld.
// Servers it starts stay tracked so stop can reap them.
type Mysqld struct {
	env  Env
	tool string

	mu    sync.Mutex
	procs map[int]*tools.Process
}

// NewMysqld is the registry factory for the mysqld gadget.
func NewMysqld(env Env) (Gadget, error) {
	return NewMysqldGadget(env.ServerTool, env), nil
}

// NewMysqldGadget constructs a mysqld gadget for an explicit server binary name.
func NewMysqldGadget(tool string, env Env) *Mysqld {
	resolved := strings.TrimSpace(tool)
	if resolved == "" {
		resolved = DefaultServerTool
	}
	return &Mysqld{
		env:   env.withDefaults(),
		tool:  resolved,
		procs: make(map[int]*tools.Process),
	}
}

func (m *Mysqld) Metadata() Metadata {
	return Metadata{
		ID:          "gadget.mysqld",
		Name:        "MySQL server (mysqld)",
		Description: "Locate, start, probe and stop a local mysqld",
	}
}

func (m *Mysqld) Operations() []OperationSpec {
	return []OperationSpec{
		{Name: "locate", Description: "find the mysqld binary", Idempotent: true},
		{Name: "version", Description: "read mysqld binary version", Idempotent: true},
		{Name: "status", Description: "probe the server port and optional pid", Idempotent: true},
		{Name: "start", Description: "write an option file and spawn mysqld", Idempotent: false},
		{Name: "stop", Description: "terminate or kill a mysqld pid", Idempotent: false},
	}
}

// Execute dispatches one mysqld action.
func (m *Mysqld) Execute(action string, args map[string]string) (Result, error) {
	act := strings.TrimSpace(action)
	log.Debug().Str("action", act).Str("tool", m.tool).Msg("gadgets.Mysqld.Execute")
	switch act {
	case "locate":
		path, err := m.locate(args, false)
		if err != nil {
			return errorResult(err, exitNotFound), err
		}
		return okResult(path + "\n"), nil
	case "version":
		path, err := m.locate(args, false)
		if err != nil {
			return errorResult(err, exitNotFound), err
		}
		return m.exec(path, "--version")
	case "status":
		return m.status(args)
	case "start":
		return m.start(args)
	case "stop":
		return m.stop(args)
	default:
		log.Warn().Str("action", act).Msg("gadgets.Mysqld.Execute unknown action")
		return unknownAction(act)
	}
}

func (m *Mysqld) locate(args map[string]string, quote bool) (string, error) {
	opts := m.env.Locate
	if base := argString(args, "base_dir"); base != "" {
		opts.BaseDir = base
	}
	opts.Optional = false
	opts.Quote = quote
	opts.Check = tools.IsExecutable

	tool := m.tool
	if override := argString(args, "tool"); override != "" {
		tool = override
	}
	return m.env.Locator.ToolPath(tool, opts)
}

func (m *Mysqld) status(args map[string]string) (Result, error) {
	host := m.env.Host
	if override := argString(args, "host"); override != "" {
		host = override
	}
	port, err := argInt(args, "port", m.env.Port)
	if err != nil {
		return errorResult(err, exitUsage), err
	}

	listening := tools.IsListening(host, port)
	var out strings.Builder
	fmt.Fprintf(&out, "addr=%s:%d listening=%t\n", host, port, listening)
	active := listening

	if raw := argString(args, "pid"); raw != "" {
		pid, err := argInt(args, "pid", 0)
		if err != nil {
			return errorResult(err, exitUsage), err
		}
		running, err := tools.ProcessRunning(pid)
		if err != nil {
			log.Warn().Int("pid", pid).Err(err).Msg("gadgets.Mysqld.status process lookup failed")
		}
		fmt.Fprintf(&out, "pid=%d running=%t\n", pid, running)
		active = active || running
	}

	res := okResult(out.String())
	if !active {
		res.ExitCode = exitInactive
	}
	return res, nil
}

func (m *Mysqld) start(args map[string]string) (Result, error) {
	path, err := m.locate(args, true)
	if err != nil {
		return errorResult(err, exitNotFound), err
	}
	port, err := argInt(args, "port", m.env.Port)
	if err != nil {
		return errorResult(err, exitUsage), err
	}

	content := tools.NewOptionFile()
	sec := content.Section("mysqld")
	sec.Set("port", strconv.Itoa(port))
	for _, key := range []string{"datadir", "socket", "basedir"} {
		if v := argString(args, key); v != "" {
			sec.Set(key, v)
		}
	}
	for _, key := range sortedArgKeys(args, optionArgPrefix) {
		name := strings.TrimPrefix(key, optionArgPrefix)
		if v := argString(args, key); v != "" {
			sec.Set(name, v)
		} else {
			sec.SetFlag(name)
		}
	}

	dir := m.env.OptionDir
	if override := argString(args, "option_dir"); override != "" {
		dir = override
	}
	file, err := tools.CreateOptionFile(content, tools.OptionFileOptions{
		Name: argString(args, "option_file"),
		Dir:  dir,
	})
	if err != nil {
		return errorResult(err, exitFailure), err
	}

	platform := m.env.Locator.Platform
	q := platform.QuoteChar()
	command := fmt.Sprintf("%s --defaults-file=%s%s%s", path, q, file, q)
	proc, err := tools.SpawnWith(platform, command, tools.SpawnOptions{})
	if err != nil {
		log.Error().Str("command", command).Err(err).Msg("gadgets.Mysqld.start spawn failed")
		return errorResult(err, exitFailure), fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}

	m.mu.Lock()
	m.procs[proc.PID()] = proc
	m.mu.Unlock()

	log.Info().Int("pid", proc.PID()).Str("option_file", file).Msg("gadgets.Mysqld.start spawned")
	return okResult(fmt.Sprintf("pid=%d\noption_file=%s\n", proc.PID(), file)), nil
}

func (m *Mysqld) stop(args map[string]string) (Result, error) {
	raw, err := requireArg(args, "pid")
	if err != nil {
		return errorResult(err, exitUsage), err
	}
	pid, err := strconv.Atoi(raw)
	if err != nil {
		err = fmt.Errorf("%w: pid=%q", ErrInvalidArg, raw)
		return errorResult(err, exitUsage), err
	}
	force, err := argBool(args, "force", false)
	if err != nil {
		return errorResult(err, exitUsage), err
	}

	if err := m.env.Locator.Platform.StopPID(pid, force); err != nil {
		log.Error().Int("pid", pid).Bool("force", force).Err(err).Msg("gadgets.Mysqld.stop failed")
		return errorResult(err, exitFailure), err
	}

	m.mu.Lock()
	proc, tracked := m.procs[pid]
	delete(m.procs, pid)
	m.mu.Unlock()

	if !tracked {
		log.Info().Int("pid", pid).Bool("force", force).Msg("gadgets.Mysqld.stop signaled")
		return okResult(fmt.Sprintf("pid=%d stopped\n", pid)), nil
	}
	code, err := proc.Wait()
	if err != nil {
		return errorResult(err, exitFailure), err
	}
	log.Info().Int("pid", pid).Int("exit_code", code).Msg("gadgets.Mysqld.stop reaped")
	return okResult(fmt.Sprintf("pid=%d exit_code=%d\n", pid, code)), nil
}

// Close kills and reaps every server this gadget started.
func (m *Mysqld) Close() error {
	m.mu.Lock()
	procs := m.procs
	m.procs = make(map[int]*tools.Process)
	m.mu.Unlock()

	var errs []error
	for _, proc := range procs {
		if err := proc.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// exec runs one command and normalizes stdout/stderr/exit state.
func (m *Mysqld) exec(name string, args ...string) (Result, error) {
	res, err := m.env.Runner.Run(name, args...)
	if err != nil {
		log.Error().Str("cmd", name).Strs("args", args).Int("exit", res.ExitCode).Err(err).Msg("gadgets.Mysqld.exec command failed")
		stderr := res.Stderr
		if len(stderr) == 0 {
			stderr = []byte(err.Error() + "\n")
		}
		exitCode := res.ExitCode
		if exitCode == 0 {
			exitCode = exitFailure
		}
		return Result{
			Status:   "error",
			Stdout:   res.Stdout,
			Stderr:   stderr,
			ExitCode: exitCode,
		}, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}

	log.Info().Str("cmd", name).Strs("args", args).Msg("gadgets.Mysqld.exec ok")
	return Result{
		Status: "ok",
		Stdout: res.Stdout,
		Stderr: res.Stderr,
	}, nil
}

func sortedArgKeys(args map[string]string, prefix string) []string {
	var keys []string
	for k := range args {
		if strings.HasPrefix(k, prefix) && len(k) > len(prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
