//go:build windows

package launcher

import (
	"os"
	"os/exec"

	"golang.org/x/sys/windows"
)

// handoff spawns target as a child inheriting all three standard
// handles and env, installs a console-control handler so Ctrl+C/break
// reaches the child instead of killing the launcher, waits for it,
// and exits with its exit code untranslated.
func handoff(target string, argv, env []string) error {
	cmd := &exec.Cmd{
		Path:   target,
		Args:   argv,
		Env:    env,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	// Ignore Ctrl+C/Break in the launcher itself; both processes share
	// the console, so Windows delivers the same signal to the child,
	// which is where it should be handled.
	handler := windows.NewCallback(func(ctrlType uint32) uintptr { return 1 })
	_ = windows.SetConsoleCtrlHandler(handler, true)

	err := cmd.Wait()
	if exitErr, ok := err.(*exec.ExitError); ok {
		os.Exit(exitErr.ExitCode())
	}
	if err != nil {
		return err
	}
	os.Exit(cmd.ProcessState.ExitCode())
	return nil
}
