package pidfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/chime/errors"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "hub.pid")

	require.NoError(t, Acquire(path))

	pid, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	running, pid, err := IsRunning(path)
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, Release(path))
	running, _, err = IsRunning(path)
	require.NoError(t, err)
	assert.False(t, running)
}

func TestAcquireRefusesWhenOwnerIsAlive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.pid")
	require.NoError(t, Acquire(path))

	// The recorded PID is this test process, which is certainly alive.
	err := Acquire(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeHubAlreadyRunning))
}

func TestAcquireReplacesGarbagePidfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid\n"), 0644))

	require.NoError(t, Acquire(path))

	pid, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestIsRunningWithoutFile(t *testing.T) {
	running, pid, err := IsRunning(filepath.Join(t.TempDir(), "absent.pid"))
	require.NoError(t, err)
	assert.False(t, running)
	assert.Zero(t, pid)
}
