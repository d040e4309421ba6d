//go:build windows

package envhub

// addUserPathEntry appends dir to the user-scope PATH registry value,
// the step required after a Windows "user" InstallLauncher.
func addUserPathEntry(dir string) error {
	return addToUserPath(dir)
}
