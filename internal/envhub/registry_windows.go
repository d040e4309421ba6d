//go:build windows

package envhub

import (
	"strings"

	"golang.org/x/sys/windows/registry"
)

// addToUserPath appends dir to the user-scope PATH environment value
// in the registry, the step required after a Windows-user
// InstallLauncher. It's idempotent: dir already present is a no-op.
func addToUserPath(dir string) error {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer key.Close()

	current, _, err := key.GetStringValue("Path")
	if err != nil && err != registry.ErrNotExist {
		return err
	}

	for _, entry := range strings.Split(current, ";") {
		if strings.EqualFold(strings.TrimSpace(entry), dir) {
			return nil
		}
	}

	updated := current
	if updated != "" && !strings.HasSuffix(updated, ";") {
		updated += ";"
	}
	updated += dir

	return key.SetStringValue("Path", updated)
}
