//go:build !windows

package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/dbgadgets/internal/testutil/testlog"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsPathKeepsAbsoluteInput(t *testing.T) {
	testlog.Start(t)
	abs := filepath.Join(t.TempDir(), "a", "b")

	got, err := AbsPath(abs, "")
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	got, err = AbsPath(abs, "relative/dir")
	require.NoError(t, err)
	assert.Equal(t, abs, got)
}

func TestAbsPathRequiresAbsoluteReference(t *testing.T) {
	testlog.Start(t)
	_, err := AbsPath("data", "relative/dir")
	require.ErrorIs(t, err, ErrNotAbsolute)
	assert.Contains(t, err.Error(), "relative/dir is not a valid absolute path")

	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, ErrNotAbsolute, toolErr.Kind)

	_, err = AbsPath("data", "")
	assert.ErrorIs(t, err, ErrNotAbsolute)
}

func TestAbsPathJoinsAgainstDirectory(t *testing.T) {
	testlog.Start(t)
	base := t.TempDir()

	got, err := AbsPath(filepath.Join("..", "x", ".", "y"), filepath.Join(base, "conf"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "x", "y"), got)
	assert.True(t, filepath.IsAbs(got))
}

func TestAbsPathUsesDirectoryOfFileReference(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	ref := filepath.Join(dir, "my.cnf")
	require.NoError(t, os.WriteFile(ref, []byte("[mysqld]\n"), 0o600))

	got, err := AbsPath("other.cnf", ref)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "other.cnf"), got)
}

func TestAbsPathExpandsHome(t *testing.T) {
	testlog.Start(t)
	home, err := homedir.Dir()
	require.NoError(t, err)

	got, err := AbsPath("~/sandbox/3310", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "sandbox", "3310"), got)
}
