//go:build !windows

package pathutil

// CandidateNames returns the single POSIX filename to try for name.
// POSIX has no PATHEXT-style extension resolution.
func CandidateNames(name string) []string {
	return []string{name}
}

// ExeSuffix is appended to shim/launcher filenames on this platform.
const ExeSuffix = ""
