//go:build !windows

package shim

import "os"

// createAt creates a symbolic link at path pointing to launcherPath.
// The launcher discovers its invocation name through argv[0], which
// survives being reached via a symlink, so the shim never needs to be
// a copy of the binary.
func createAt(path, launcherPath string) error {
	return os.Symlink(launcherPath, path)
}
