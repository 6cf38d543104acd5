package tools

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"github.com/google/shlex"
)

type posixPlatform struct{}

var posixSearchPaths = []string{
	"/usr/sbin/",
	"/usr/local/mysql/bin/",
	"/usr/bin/",
	"/usr/local/bin/",
	"/usr/local/sbin/",
	"/opt/local/bin/",
	"/opt/local/sbin/",
}

func (posixPlatform) Name() string             { return "posix" }
func (posixPlatform) ExecutableSuffix() string { return "" }
func (posixPlatform) QuoteChar() string        { return "'" }

func (posixPlatform) DefaultSearchPaths() []string {
	return append([]string(nil), posixSearchPaths...)
}

func (posixPlatform) AlternateNames(string) []string {
	return nil
}

// Command splits line with shell quoting rules.
func (posixPlatform) Command(line string) (*exec.Cmd, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, newError(ErrSpawn, err, "unable to parse command '%s': %v", line, err)
	}
	if len(args) == 0 {
		return nil, newError(ErrSpawn, nil, "unable to parse command '%s': empty command", line)
	}
	return exec.Command(args[0], args[1:]...), nil
}

func (posixPlatform) StopPID(pid int, force bool) error {
	action, sig := stopAction(force)
	if pid <= 0 {
		return newError(ErrStopProcess, nil, "unable to %s process '%d': 'invalid pid'", action, pid)
	}
	if err := signalPID(pid, sig); err != nil {
		return newError(ErrStopProcess, err, "unable to %s process '%d': '%v'", action, pid, err)
	}
	return nil
}

func (posixPlatform) Terminate(proc *os.Process, force bool) error {
	action, sig := stopAction(force)
	var err error
	if force {
		err = proc.Kill()
	} else {
		err = proc.Signal(sig)
	}
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return newError(ErrStopProcess, err, "unable to %s process '%d': '%v'", action, proc.Pid, err)
	}
	return nil
}

func stopAction(force bool) (string, syscall.Signal) {
	if force {
		return "kill", syscall.SIGKILL
	}
	return "terminate", syscall.SIGTERM
}
