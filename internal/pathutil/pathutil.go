// Package pathutil provides the PATH-walking primitives shared by shim
// installation (internal/shim) and launcher target resolution
// (internal/launcher): splitting $PATH, and enumerating the
// platform-appropriate candidate filenames for a bare command name.
package pathutil

import (
	"os"
	"path/filepath"
)

// Dirs splits the current process's PATH into its component
// directories, left to right, the order PATH resolution walks in.
func Dirs() []string {
	return filepath.SplitList(os.Getenv("PATH"))
}

// Candidates returns the full paths to try for name across dirs, in
// walk order: for each directory, every platform-appropriate extension
// variant of name (see CandidateNames) before moving to the next
// directory.
func Candidates(dirs []string, name string) []string {
	names := CandidateNames(name)
	out := make([]string, 0, len(dirs)*len(names))
	for _, dir := range dirs {
		for _, n := range names {
			out = append(out, filepath.Join(dir, n))
		}
	}
	return out
}
