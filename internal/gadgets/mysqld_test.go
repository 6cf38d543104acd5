//go:build !windows

package gadgets

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"

	"github.com/danmuck/dbgadgets/internal/testutil/testlog"
	"github.com/danmuck/dbgadgets/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	result tools.RunResult
	err    error
	last   struct {
		name string
		args []string
	}
}

func (r *fakeRunner) Run(name string, args ...string) (tools.RunResult, error) {
	r.last.name = name
	r.last.args = append([]string(nil), args...)
	return r.result, r.err
}

// fakeServerDir installs an executable mysqld stand-in that sleeps until signaled.
func fakeServerDir(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mysqld")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexec sleep 30\n"), 0o755))
	return dir, path
}

func newTestMysqld(t *testing.T, runner tools.CommandRunner, dirs ...string) *Mysqld {
	t.Helper()
	m := NewMysqldGadget("", Env{
		Runner:    runner,
		Locator:   tools.Locator{Platform: tools.PlatformFor("linux", nil), Getenv: func(string) string { return "" }},
		Locate:    tools.LocateOptions{DefaultPaths: dirs},
		OptionDir: t.TempDir(),
	})
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func parseKV(t *testing.T, out []byte) map[string]string {
	t.Helper()
	kv := make(map[string]string)
	for _, field := range strings.Fields(string(out)) {
		k, v, ok := strings.Cut(field, "=")
		require.True(t, ok, "field %q", field)
		kv[k] = v
	}
	return kv
}

func TestMysqldMetadataAndOperations(t *testing.T) {
	testlog.Start(t)
	m := newTestMysqld(t, &fakeRunner{})

	meta := m.Metadata()
	assert.Equal(t, "gadget.mysqld", meta.ID)
	require.NoError(t, ValidateMetadata(meta))
	assert.NotEmpty(t, m.Operations())
}

func TestMysqldLocateAndVersion(t *testing.T) {
	testlog.Start(t)
	dir, path := fakeServerDir(t)
	r := &fakeRunner{result: tools.RunResult{Stdout: []byte("mysqld  Ver 8.0.36\n")}}
	m := newTestMysqld(t, r, dir)

	res, err := m.Execute("locate", nil)
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(string(res.Stdout)))

	res, err = m.Execute("version", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, path, r.last.name)
	assert.Equal(t, []string{"--version"}, r.last.args)
}

func TestMysqldLocateSkipsNonExecutable(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mysqld"), []byte("data"), 0o644))
	m := newTestMysqld(t, &fakeRunner{}, dir)

	res, err := m.Execute("locate", nil)
	assert.ErrorIs(t, err, tools.ErrToolNotFound)
	assert.Equal(t, exitNotFound, res.ExitCode)
}

func TestMysqldVersionCommandFailure(t *testing.T) {
	testlog.Start(t)
	dir, _ := fakeServerDir(t)
	r := &fakeRunner{
		result: tools.RunResult{Stderr: []byte("mysqld: broken\n"), ExitCode: 5},
		err:    errors.New("exit status 5"),
	}
	m := newTestMysqld(t, r, dir)

	res, err := m.Execute("version", nil)
	assert.ErrorIs(t, err, ErrCommandFailed)
	assert.Equal(t, "error", res.Status)
	assert.Equal(t, 5, res.ExitCode)
	assert.Equal(t, "mysqld: broken\n", string(res.Stderr))
}

func TestMysqldStatus(t *testing.T) {
	testlog.Start(t)
	m := newTestMysqld(t, &fakeRunner{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	res, err := m.Execute("status", map[string]string{"port": port})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "true", parseKV(t, res.Stdout)["listening"])

	require.NoError(t, ln.Close())
	res, err = m.Execute("status", map[string]string{"port": port})
	require.NoError(t, err)
	assert.Equal(t, exitInactive, res.ExitCode)

	res, err = m.Execute("status", map[string]string{"port": port, "pid": strconv.Itoa(os.Getpid())})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "true", parseKV(t, res.Stdout)["running"])

	_, err = m.Execute("status", map[string]string{"port": "http"})
	assert.ErrorIs(t, err, ErrInvalidArg)
}

func TestMysqldStartAndStop(t *testing.T) {
	testlog.Start(t)
	dir, _ := fakeServerDir(t)
	m := newTestMysqld(t, &fakeRunner{}, dir)

	res, err := m.Execute("start", map[string]string{
		"port":                  "3310",
		"datadir":               "/var/lib/mysql-3310",
		"opt.skip-networking":   "",
		"opt.innodb_log_buffer": "16M",
	})
	require.NoError(t, err)
	kv := parseKV(t, res.Stdout)
	pid, err := strconv.Atoi(kv["pid"])
	require.NoError(t, err)

	content, err := tools.ReadOptionFile(kv["option_file"])
	require.NoError(t, err)
	sec, ok := content.Lookup("mysqld")
	require.True(t, ok)
	var keys []string
	for _, opt := range sec.Options() {
		keys = append(keys, opt.Key)
	}
	assert.Equal(t, []string{"port", "datadir", "innodb_log_buffer", "skip-networking"}, keys)
	port, _ := sec.Get("port")
	assert.Equal(t, "3310", port.Value)

	running, err := tools.ProcessRunning(pid)
	require.NoError(t, err)
	assert.True(t, running)

	res, err = m.Execute("stop", map[string]string{"pid": kv["pid"]})
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(-int(syscall.SIGTERM)), parseKV(t, res.Stdout)["exit_code"])
}

func TestMysqldStartExclusiveOptionFile(t *testing.T) {
	testlog.Start(t)
	dir, _ := fakeServerDir(t)
	m := newTestMysqld(t, &fakeRunner{}, dir)
	args := map[string]string{"option_file": "sandbox.cnf", "option_dir": t.TempDir()}

	_, err := m.Execute("start", args)
	require.NoError(t, err)
	_, err = m.Execute("start", args)
	assert.ErrorIs(t, err, tools.ErrOptionFileExists)
}

func TestMysqldStopArguments(t *testing.T) {
	testlog.Start(t)
	m := newTestMysqld(t, &fakeRunner{})

	_, err := m.Execute("stop", nil)
	assert.ErrorIs(t, err, ErrMissingArg)
	_, err = m.Execute("stop", map[string]string{"pid": "abc"})
	assert.ErrorIs(t, err, ErrInvalidArg)
	_, err = m.Execute("stop", map[string]string{"pid": "1", "force": "sometimes"})
	assert.ErrorIs(t, err, ErrInvalidArg)
}

func TestMysqldForceStopUntracked(t *testing.T) {
	testlog.Start(t)
	m := newTestMysqld(t, &fakeRunner{})
	p, err := tools.Spawn("sleep 30", tools.SpawnOptions{})
	require.NoError(t, err)
	defer p.Close()

	res, err := m.Execute("stop", map[string]string{"pid": strconv.Itoa(p.PID()), "force": "true"})
	require.NoError(t, err)
	assert.Contains(t, string(res.Stdout), "stopped")
	code, err := p.Wait()
	require.NoError(t, err)
	assert.Equal(t, -int(syscall.SIGKILL), code)
}

func TestMysqldUnknownAction(t *testing.T) {
	testlog.Start(t)
	m := newTestMysqld(t, &fakeRunner{})
	res, err := m.Execute("invalid", nil)
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, "error", res.Status)
	assert.NotZero(t, res.ExitCode)
}
