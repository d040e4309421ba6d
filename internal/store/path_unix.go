//go:build !windows

package store

import (
	"errors"
	"os"
	"path/filepath"
)

// DefaultPath returns $XDG_CONFIG_HOME/envhub/config.json, falling
// back to ~/.config/envhub/config.json.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "envhub", "config.json"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("resolving state file path: no home directory: " + err.Error())
	}
	return filepath.Join(home, ".config", "envhub", "config.json"), nil
}
