package tools

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// RunResult is the captured outcome of one synchronous command.
type RunResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner abstracts synchronous command execution for platform adapters
// and gadgets.
type CommandRunner interface {
	Run(name string, args ...string) (RunResult, error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

// Run executes name with args and waits for it. A non-zero exit is reported
// both in ExitCode and as an error; a missing binary reports exit code 127.
func (r ExecRunner) Run(name string, args ...string) (RunResult, error) {
	log.Debug().Str("cmd", name).Str("args", strings.Join(args, " ")).Msg("tools.ExecRunner.Run")
	cmd := exec.Command(name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := RunResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, err
	}

	res.ExitCode = 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		res.ExitCode = 127
	}
	return res, err
}
