//go:build windows

package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExeSuffix is appended to shim/launcher filenames on this platform.
const ExeSuffix = ".exe"

// CandidateNames returns the filenames to try for name, consulting
// PATHEXT the way cmd.exe and os/exec's LookPath do: if name already
// carries one of PATHEXT's extensions it's tried as-is; otherwise each
// PATHEXT extension is tried in order.
func CandidateNames(name string) []string {
	exts := pathext()

	if hasPathExt(name, exts) {
		return []string{name}
	}

	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, name+ext)
	}
	return out
}

func pathext() []string {
	x := os.Getenv("PATHEXT")
	if x == "" {
		return []string{".com", ".exe", ".bat", ".cmd"}
	}
	var exts []string
	for _, e := range strings.Split(x, ";") {
		if e == "" {
			continue
		}
		exts = append(exts, strings.ToLower(e))
	}
	return exts
}

func hasPathExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
