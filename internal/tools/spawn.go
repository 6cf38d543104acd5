package tools

import (
	"bytes"
	"errors"
	"io"
	"os/exec"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
)

// SpawnOptions are passed through to the child process. CaptureOutput buffers
// stdout and stderr inside the handle and takes precedence over Stdout and
// Stderr.
type SpawnOptions struct {
	Dir           string
	Env           []string
	Stdin         io.Reader
	Stdout        io.Writer
	Stderr        io.Writer
	CaptureOutput bool
}

// Process is an owned handle to a started child. Callers must Wait or Close it
// to release the OS resources behind it.
type Process struct {
	cmd      *exec.Cmd
	platform Platform
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer

	waitOnce sync.Once
	waited   chan struct{}
	exitCode int
	waitErr  error
}

// Spawn starts command without waiting for it. On POSIX the command is split
// with shell quoting rules; on Windows it is handed to the OS verbatim.
func Spawn(command string, opts SpawnOptions) (*Process, error) {
	return SpawnWith(CurrentPlatform(), command, opts)
}

// SpawnWith starts command through platform.
func SpawnWith(platform Platform, command string, opts SpawnOptions) (*Process, error) {
	log.Debug().Str("command", command).Str("platform", platform.Name()).Msg("tools.Spawn spawning subprocess")
	cmd, err := platform.Command(command)
	if err != nil {
		return nil, err
	}
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env
	cmd.Stdin = opts.Stdin

	p := &Process{cmd: cmd, platform: platform, waited: make(chan struct{})}
	if opts.CaptureOutput {
		p.stdout = &bytes.Buffer{}
		p.stderr = &bytes.Buffer{}
		cmd.Stdout = p.stdout
		cmd.Stderr = p.stderr
	} else {
		cmd.Stdout = opts.Stdout
		cmd.Stderr = opts.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, newError(ErrSpawn, err, "unable to spawn '%s': %v", command, err)
	}
	log.Debug().Str("command", command).Int("pid", cmd.Process.Pid).Msg("tools.Spawn started")
	return p, nil
}

func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Wait blocks until the child exits and returns its exit code. A child killed
// by a signal reports the negated signal number. Repeated calls return the
// first result.
func (p *Process) Wait() (int, error) {
	p.waitOnce.Do(func() {
		defer close(p.waited)
		err := p.cmd.Wait()
		if err == nil {
			return
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			p.exitCode = -1
			p.waitErr = err
			return
		}
		p.exitCode = exitErr.ExitCode()
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			p.exitCode = -int(ws.Signal())
		}
	})
	return p.exitCode, p.waitErr
}

// Exited reports whether Wait has completed.
func (p *Process) Exited() bool {
	select {
	case <-p.waited:
		return true
	default:
		return false
	}
}

// Output waits for the child and returns the captured stdout and stderr.
// Without CaptureOutput both are nil.
func (p *Process) Output() ([]byte, []byte, error) {
	_, err := p.Wait()
	if p.stdout == nil {
		return nil, nil, err
	}
	return p.stdout.Bytes(), p.stderr.Bytes(), err
}

// Terminate asks the child to exit.
func (p *Process) Terminate() error {
	if p.Exited() {
		return nil
	}
	return p.platform.Terminate(p.cmd.Process, false)
}

// Kill stops the child immediately.
func (p *Process) Kill() error {
	if p.Exited() {
		return nil
	}
	return p.platform.Terminate(p.cmd.Process, true)
}

// Close kills a child that is still running and reaps it.
func (p *Process) Close() error {
	if !p.Exited() {
		if err := p.Kill(); err != nil {
			log.Warn().Int("pid", p.PID()).Err(err).Msg("tools.Process.Close kill failed")
		}
	}
	_, err := p.Wait()
	return err
}
