//go:build windows

package shim

import (
	"io"
	"os"
)

// createAt writes a byte-identical copy of the launcher binary at
// path. Symlinks on Windows require elevated privileges and have
// historically inconsistent behavior, so the shim is a copy instead.
func createAt(path, launcherPath string) error {
	src, err := os.Open(launcherPath)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	return dst.Close()
}
