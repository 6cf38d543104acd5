package tools

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

type windowsPlatform struct {
	runner CommandRunner
}

var windowsSearchPaths = []string{
	"C:/Program Files/MySQL/MySQL Server 5.7/bin",
	"C:/Program Files/MySQL/MySQL Server 8.0/bin",
}

func (windowsPlatform) Name() string             { return "windows" }
func (windowsPlatform) ExecutableSuffix() string { return ".exe" }
func (windowsPlatform) QuoteChar() string        { return `"` }

func (windowsPlatform) DefaultSearchPaths() []string {
	return append([]string(nil), windowsSearchPaths...)
}

// AlternateNames maps the server binary to its non-threaded build name.
func (windowsPlatform) AlternateNames(tool string) []string {
	if strings.EqualFold(tool, "mysqld.exe") {
		return []string{"mysqld-nt.exe"}
	}
	return nil
}

// Command passes line to the OS verbatim; only the program is parsed out.
func (windowsPlatform) Command(line string) (*exec.Cmd, error) {
	program := windowsProgram(line)
	if program == "" {
		return nil, newError(ErrSpawn, nil, "unable to parse command '%s': empty command", line)
	}
	cmd := exec.Command(program)
	setVerbatimCmdLine(cmd, line)
	return cmd, nil
}

// StopPID calls TerminateProcess on pid when not forced and runs
// "taskkill /PID <pid> /F" when forced.
func (p windowsPlatform) StopPID(pid int, force bool) error {
	action := "terminate"
	if force {
		action = "kill"
	}
	if pid <= 0 {
		return newError(ErrStopProcess, nil, "unable to %s process '%d': 'invalid pid'", action, pid)
	}
	if !force {
		return terminatePID(pid)
	}

	res, err := p.runner.Run("taskkill", "/PID", strconv.Itoa(pid), "/F")
	if err != nil {
		detail := strings.TrimSpace(string(res.Stderr))
		if detail == "" {
			detail = err.Error()
		}
		return newError(ErrStopProcess, err, "unable to %s process '%d': '%s'", action, pid, detail)
	}
	return nil
}

func (p windowsPlatform) Terminate(proc *os.Process, force bool) error {
	action := "terminate"
	if force {
		action = "kill"
	}
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return newError(ErrStopProcess, err, "unable to %s process '%d': '%v'", action, proc.Pid, err)
	}
	return nil
}

func terminatePID(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return newError(ErrStopProcess, err, "unable to terminate process '%d': '%v'", pid, err)
	}
	defer proc.Release()
	if err := proc.Kill(); err != nil {
		return newError(ErrStopProcess, err, "unable to terminate process '%d': '%v'", pid, err)
	}
	return nil
}

func windowsProgram(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	if line[0] == '"' {
		if end := strings.IndexByte(line[1:], '"'); end >= 0 {
			return line[1 : end+1]
		}
		return line[1:]
	}
	if end := strings.IndexAny(line, " \t"); end >= 0 {
		return line[:end]
	}
	return line
}
