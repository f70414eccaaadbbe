// Package testutil provides shared helpers for chime tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempHome points CHIME_HOME at a fresh directory so a test's sockets,
// state, and history never touch the real user paths. Desktop display
// env is cleared so notification channels stay headless under test.
func TempHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("CHIME_HOME", home)
	t.Setenv("CHIME_CONFIG", "")
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	return home
}

// WriteConfig writes a chime.yml with the given content and points
// CHIME_CONFIG at it.
func WriteConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chime.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("CHIME_CONFIG", path)
	return path
}
