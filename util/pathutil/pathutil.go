// Package pathutil expands user-supplied paths from config files and
// flags, where ~ and environment variables arrive unexpanded.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Expand resolves a leading ~, expands environment variables, and
// returns an absolute path.
func Expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	path = os.ExpandEnv(path)
	return filepath.Abs(path)
}
