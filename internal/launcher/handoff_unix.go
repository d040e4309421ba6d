//go:build !windows

package launcher

import "syscall"

// handoff replaces the current process image with target. PID,
// controlling terminal, standard streams, process group, and signal
// delivery all pass through naturally; on success this never returns.
func handoff(target string, argv, env []string) error {
	return syscall.Exec(target, argv, env)
}
