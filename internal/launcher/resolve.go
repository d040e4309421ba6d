package launcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/envhub/envhub/internal/pathutil"
)

// ErrTargetNotFound is returned by ResolveTarget when no surviving
// PATH candidate exists.
type ErrTargetNotFound struct {
	Target string
}

func (e *ErrTargetNotFound) Error() string {
	return "target not found: " + e.Target
}

// Alias extracts the invocation name from argv0: the final path
// component, with a trailing ".exe" stripped on Windows.
func Alias(argv0 string) string {
	name := filepath.Base(argv0)
	if pathutil.ExeSuffix != "" && strings.EqualFold(filepath.Ext(name), pathutil.ExeSuffix) {
		name = strings.TrimSuffix(name, name[len(name)-len(pathutil.ExeSuffix):])
	}
	return name
}

// ResolveTarget finds the binary to hand off to via an anti-loop PATH
// search. launcherExe is the currently running launcher's own
// executable path, used to exclude any candidate that is (or resolves
// to) the launcher itself.
func ResolveTarget(targetBinary, launcherExe string) (string, error) {
	if filepath.IsAbs(targetBinary) {
		return targetBinary, nil
	}

	launcherCanonical, err := filepath.EvalSymlinks(launcherExe)
	if err != nil {
		launcherCanonical = launcherExe
	}
	launcherInfo, launcherStatErr := os.Stat(launcherExe)

	for _, dir := range pathutil.Dirs() {
		for _, name := range pathutil.CandidateNames(targetBinary) {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err != nil || info.IsDir() {
				continue
			}

			if isLauncher(candidate, info, launcherCanonical, launcherInfo, launcherStatErr) {
				continue
			}

			return candidate, nil
		}
	}

	return "", &ErrTargetNotFound{Target: targetBinary}
}

// isLauncher reports whether candidate is the launcher executable
// itself, by either canonical path equality or POSIX inode/device
// equality. Together these also catch a symlink whose ultimate
// target is the launcher.
func isLauncher(candidate string, candidateInfo os.FileInfo, launcherCanonical string, launcherInfo os.FileInfo, launcherStatErr error) bool {
	if canonical, err := filepath.EvalSymlinks(candidate); err == nil && canonical == launcherCanonical {
		return true
	}
	if launcherStatErr == nil && os.SameFile(candidateInfo, launcherInfo) {
		return true
	}
	return false
}
