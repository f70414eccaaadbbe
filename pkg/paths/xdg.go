// Package paths provides XDG-compliant path resolution for Chime.
//
// Resolution order:
// 1. CHIME_HOME (portable root) → $CHIME_HOME/{config,data,state,cache}
// 2. XDG env vars → $XDG_*_HOME/chime
// 3. Platform defaults → ~/.config/chime, ~/.local/share/chime, etc.
package paths

import (
	"os"
	"path/filepath"
)

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if chimeHome := os.Getenv("CHIME_HOME"); chimeHome != "" {
		return filepath.Join(chimeHome, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getDataHome returns the base data home directory.
func getDataHome() string {
	if chimeHome := os.Getenv("CHIME_HOME"); chimeHome != "" {
		return filepath.Join(chimeHome, "data")
	}
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return xdgDataHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "share")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if chimeHome := os.Getenv("CHIME_HOME"); chimeHome != "" {
		return filepath.Join(chimeHome, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// getCacheHome returns the base cache home directory.
func getCacheHome() string {
	if chimeHome := os.Getenv("CHIME_HOME"); chimeHome != "" {
		return filepath.Join(chimeHome, "cache")
	}
	if xdgCacheHome := os.Getenv("XDG_CACHE_HOME"); xdgCacheHome != "" {
		return xdgCacheHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".cache")
	}
	return ""
}

// ConfigDir returns the Chime configuration directory.
// Used for chime.yml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "chime")
}

// ConfigFile returns the default path of the chime.yml configuration file.
// The CHIME_CONFIG environment variable overrides it.
func ConfigFile() string {
	if path := os.Getenv("CHIME_CONFIG"); path != "" {
		return path
	}
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "chime.yml")
}

// DataDir returns the Chime data directory.
// Used for the notification history database.
func DataDir() string {
	base := getDataHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "chime")
}

// StateDir returns the Chime state directory.
// Used for runtime state: pidfile and logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "chime")
}

// CacheDir returns the Chime cache directory.
// Used for regenerable data such as the rendered notification icon.
func CacheDir() string {
	base := getCacheHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "chime")
}

// LogDir returns the directory where component log files are written.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// LogFile returns the path of the shared hub log file. Every component
// appends here; entries carry a component field for filtering.
func LogFile() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "hub.log")
}

// RuntimeDir returns the Chime runtime directory for sockets.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir (macOS).
func RuntimeDir() string {
	if chimeHome := os.Getenv("CHIME_HOME"); chimeHome != "" {
		return filepath.Join(chimeHome, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "chime")
	}
	// Fallback: use state dir for socket on systems without XDG_RUNTIME_DIR
	return StateDir()
}

// SocketPath returns the path to the hub unix socket.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "hub.sock")
}

// PidFilePath returns the path to the hub PID file.
func PidFilePath() string {
	return filepath.Join(StateDir(), "hub.pid")
}

// HistoryDBPath returns the path of the notification history database.
func HistoryDBPath() string {
	return filepath.Join(DataDir(), "history.db")
}

// EnsureDirs creates all Chime directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		DataDir(),
		StateDir(),
		CacheDir(),
		LogDir(),
		RuntimeDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
