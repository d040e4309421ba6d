//go:build windows

package store

import (
	"errors"
	"os"
	"path/filepath"
)

// DefaultPath returns %APPDATA%\EnvHub\config.json.
func DefaultPath() (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		return "", errors.New("resolving state file path: APPDATA is not set")
	}
	return filepath.Join(appData, "EnvHub", "config.json"), nil
}
