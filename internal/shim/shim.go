// Package shim implements the anti-loop shim installation strategy:
// POSIX symlinks, Windows binary copies, and the PATH inspection that
// feeds the PathNotOnPath/shadow-warning behavior of the library
// API's InstallShim operation.
package shim

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/envhub/envhub/internal/pathutil"
)

// ErrAlreadyExists is returned by CreateTemp and Install, when force is
// not set, if any file already occupies the shim's path.
var ErrAlreadyExists = errors.New("a file already exists at the shim path")

// Plan reports what creating a shim for alias in installDir would
// interact with on PATH.
type Plan struct {
	// ShadowedBy is the path of an existing executable named alias
	// that PATH would resolve before installDir, if any.
	ShadowedBy string
	// OnPath reports whether installDir itself appears in PATH.
	OnPath bool
}

// Inspect walks the current process's PATH looking for a pre-existing
// "alias" ahead of installDir, and checks whether installDir is on
// PATH at all.
func Inspect(alias, installDir string) *Plan {
	plan := &Plan{}
	cleanInstallDir := filepath.Clean(installDir)

	for _, dir := range pathutil.Dirs() {
		if filepath.Clean(dir) == cleanInstallDir {
			plan.OnPath = true
			break
		}
		if plan.ShadowedBy != "" {
			continue
		}
		for _, name := range pathutil.CandidateNames(alias) {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				plan.ShadowedBy = candidate
				break
			}
		}
	}

	return plan
}

// FinalPath returns the path a shim for alias lives at within
// installDir, including the platform-appropriate suffix.
func FinalPath(installDir, alias string) string {
	return filepath.Join(installDir, alias+pathutil.ExeSuffix)
}

func stagingPath(installDir, alias string) string {
	return filepath.Join(installDir, "."+alias+".envhub-installing"+pathutil.ExeSuffix)
}

// CreateTemp is step (a) of the prepare-then-commit sequence: it
// writes the shim under a temporary name, so the caller can write
// its updated state (step (b)) before Finalize (step (c)) makes the
// shim visible under its real alias name. A crash between (b) and (c)
// leaves state referring to a not-yet-installed alias, which the
// caller's Installed flag records.
//
// Unless force is set, CreateTemp refuses with ErrAlreadyExists if
// anything already occupies the final path. Callers pass force=true
// only when their own state already records this alias as installed
// at this exact directory, i.e. when they're reinstalling a shim they
// themselves manage.
func CreateTemp(alias, installDir, launcherPath string, force bool) (string, error) {
	final := FinalPath(installDir, alias)

	if !force {
		if _, err := os.Lstat(final); err == nil {
			return "", ErrAlreadyExists
		} else if !os.IsNotExist(err) {
			return "", err
		}
	}

	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return "", err
	}

	tmp := stagingPath(installDir, alias)
	os.Remove(tmp)
	if err := createAt(tmp, launcherPath); err != nil {
		return "", err
	}

	return tmp, nil
}

// Finalize is step (c) of the prepare-then-commit sequence: it
// renames a shim staged by CreateTemp into its final, alias-named
// path.
func Finalize(tempPath, installDir, alias string) error {
	if err := os.Rename(tempPath, FinalPath(installDir, alias)); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

// Install performs CreateTemp followed immediately by Finalize, for
// callers that don't need a state write to happen in between (e.g.
// InstallShim against an already-registered alias).
func Install(alias, installDir, launcherPath string, force bool) error {
	tmp, err := CreateTemp(alias, installDir, launcherPath, force)
	if err != nil {
		return err
	}
	return Finalize(tmp, installDir, alias)
}

// Remove deletes the shim for alias in installDir. A missing shim is
// not an error; UnregisterApp must succeed even when the shim file
// was already gone.
func Remove(alias, installDir string) error {
	err := os.Remove(FinalPath(installDir, alias))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
