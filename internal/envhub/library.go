// Package envhub is the library API: the operations a UI collaborator
// uses to register aliases, manage profiles, and install the launcher
// and its shims. It owns all writes to the state store; the launcher
// (internal/launcher) reads the same store directly and never calls
// through here.
package envhub

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/envhub/envhub/internal/shim"
	"github.com/envhub/envhub/internal/store"
)

// Library is the entry point for every register/profile/install
// operation. The zero value is not usable; construct with New.
type Library struct {
	store *store.Store
	mu    sync.Mutex

	// globalInstallDir, userInstallDir, and launcherPath default to the
	// platform's real directories and os.Executable, and are swapped
	// out in tests so InstallLauncher/RegisterApp/InstallShim don't
	// depend on actually writing under /usr/local/bin or os.Args[0].
	globalInstallDir func() (string, error)
	userInstallDir   func() (string, error)
	launcherPath     func() (string, error)
}

// New returns a Library backed by s.
func New(s *store.Store) *Library {
	return &Library{
		store:            s,
		globalInstallDir: GlobalInstallDir,
		userInstallDir:   UserInstallDir,
		launcherPath:     os.Executable,
	}
}

// Mode selects where InstallLauncher places the launcher binary.
type Mode int

const (
	ModeGlobal Mode = iota
	ModeUser
)

func (l *Library) load() (*store.State, error) {
	st, err := l.store.Load()
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return st, nil
}

func (l *Library) save(st *store.State) error {
	if err := l.store.Save(st); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func wrapStoreErr(err error) error {
	switch e := err.(type) {
	case *store.ParseError:
		return parseErr(e)
	case *store.PermissionError:
		return permission(e.Path, e)
	case *store.IoError:
		return ioErr("%v", e)
	default:
		return err
	}
}

func translateShimErr(err error, installDir string) error {
	if err == shim.ErrAlreadyExists {
		return alreadyExists("a file already occupies the shim path in %s", installDir)
	}
	if os.IsPermission(err) {
		return permission(installDir, err)
	}
	return ioErr("creating shim: %v", err)
}

// installTarget resolves where shims and the launcher live for mode,
// and the absolute path to the launcher binary shims should point at.
func (l *Library) installTarget(mode Mode) (installDir, launcherPath string, err error) {
	switch mode {
	case ModeUser:
		installDir, err = l.userInstallDir()
	default:
		installDir, err = l.globalInstallDir()
	}
	if err != nil {
		return "", "", ioErr("resolving install directory: %v", err)
	}

	exe, err := l.launcherPath()
	if err != nil {
		return "", "", ioErr("resolving launcher path: %v", err)
	}
	return installDir, exe, nil
}

// RegisterApp adds a new App for alias pointing at targetBinary, with
// one empty "default" profile set active, and installs its shim under
// mode's install directory. If staging the shim or the first state
// write fails, nothing is left behind. If the final rename of the
// staged shim fails after that write, the App stays registered with
// Installed false, and InstallShim can complete it later.
//
// The returned Plan reports anti-loop findings: shadowing an existing
// PATH entry is a permitted warning, but a shim installed into a
// directory absent from PATH entirely is reported as a PathNotOnPath
// error even though registration itself has already completed.
func (l *Library) RegisterApp(alias, targetBinary string, mode Mode) (*shim.Plan, error) {
	if targetBinary == "" {
		return nil, fmt.Errorf("target binary must not be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.load()
	if err != nil {
		return nil, err
	}
	if _, exists := st.Apps[alias]; exists {
		return nil, alreadyExists("alias %q is already registered", alias)
	}

	installDir, launcherPath, err := l.installTarget(mode)
	if err != nil {
		return nil, err
	}
	plan := shim.Inspect(alias, installDir)

	tmp, err := shim.CreateTemp(alias, installDir, launcherPath, false)
	if err != nil {
		return nil, translateShimErr(err, installDir)
	}

	app := store.NewApp(targetBinary)
	installed := false
	app.Installed = &installed
	app.InstallPath = installDir
	st.Apps[alias] = app

	if err := l.save(st); err != nil {
		os.Remove(tmp)
		return nil, err
	}

	if err := shim.Finalize(tmp, installDir, alias); err != nil {
		// State already says installed=false; InstallShim can retry later.
		return nil, ioErr("finalizing shim: %v", err)
	}

	installedTrue := true
	app.Installed = &installedTrue
	if err := l.save(st); err != nil {
		return nil, err
	}

	if !plan.OnPath {
		return plan, pathNotOnPath(installDir)
	}
	return plan, nil
}

// UnregisterApp removes alias's App and its shim file. A shim that's
// already missing is not a failure; the state mutation still
// proceeds.
func (l *Library) UnregisterApp(alias string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.load()
	if err != nil {
		return err
	}
	app, exists := st.Apps[alias]
	if !exists {
		return notFound("alias %q is not registered", alias)
	}

	if app.InstallPath != "" {
		if err := shim.Remove(alias, app.InstallPath); err != nil {
			fmt.Printf("Warning: failed to remove shim for %s: %v\n", alias, err)
		}
	}

	delete(st.Apps, alias)
	return l.save(st)
}

// InstallShim (re)installs alias's shim at its recorded install
// directory, for recovery after a RegisterApp that left Installed
// false, or after the shim file was deleted out from under EnvHub.
func (l *Library) InstallShim(alias string) (*shim.Plan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.load()
	if err != nil {
		return nil, err
	}
	app, exists := st.Apps[alias]
	if !exists {
		return nil, notFound("alias %q is not registered", alias)
	}
	if app.InstallPath == "" {
		return nil, fmt.Errorf("alias %q has no recorded install directory", alias)
	}

	launcherPath, err := l.launcherPath()
	if err != nil {
		return nil, ioErr("resolving launcher path: %v", err)
	}

	plan := shim.Inspect(alias, app.InstallPath)

	force := app.Installed != nil && *app.Installed
	if err := shim.Install(alias, app.InstallPath, launcherPath, force); err != nil {
		return nil, translateShimErr(err, app.InstallPath)
	}

	installed := true
	app.Installed = &installed
	if err := l.save(st); err != nil {
		return nil, err
	}

	if !plan.OnPath {
		return plan, pathNotOnPath(app.InstallPath)
	}
	return plan, nil
}

// InstallLauncher copies the running launcher binary into mode's
// install directory and, for ModeUser on Windows, appends that
// directory to the user-scope PATH registry value.
func (l *Library) InstallLauncher(mode Mode) (string, error) {
	installDir, launcherPath, err := l.installTarget(mode)
	if err != nil {
		return "", err
	}

	dest := FinalLauncherPath(installDir)
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return "", ioErr("creating install directory: %v", err)
	}
	if err := copyExecutable(launcherPath, dest); err != nil {
		return "", ioErr("installing launcher: %v", err)
	}

	if mode == ModeUser {
		if err := addUserPathEntry(installDir); err != nil {
			return dest, ioErr("updating PATH: %v", err)
		}
	}

	return dest, nil
}

// FinalLauncherPath returns where InstallLauncher places the launcher
// binary within installDir.
func FinalLauncherPath(installDir string) string {
	return filepath.Join(installDir, LauncherFilename)
}

// AddProfile creates a new profile for alias, optionally deep-cloned
// from copyFrom. It fails with AlreadyExists on a duplicate name.
func (l *Library) AddProfile(alias, name, copyFrom string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.load()
	if err != nil {
		return err
	}
	app, exists := st.Apps[alias]
	if !exists {
		return notFound("alias %q is not registered", alias)
	}
	if _, exists := app.Profiles[name]; exists {
		return alreadyExists("profile %q already exists for %q", name, alias)
	}

	var profile *store.Profile
	if copyFrom != "" {
		source, exists := app.Profiles[copyFrom]
		if !exists {
			return notFound("profile %q not found for %q", copyFrom, alias)
		}
		profile = source.Clone()
	} else {
		profile = store.NewProfile()
	}

	app.Profiles[name] = profile
	return l.save(st)
}

// DeleteProfile removes a profile from alias. Deleting the active
// profile clears ActiveProfile eagerly at this boundary.
func (l *Library) DeleteProfile(alias, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.load()
	if err != nil {
		return err
	}
	app, exists := st.Apps[alias]
	if !exists {
		return notFound("alias %q is not registered", alias)
	}
	if _, exists := app.Profiles[name]; !exists {
		return notFound("profile %q not found for %q", name, alias)
	}

	delete(app.Profiles, name)
	if app.ActiveProfile == name {
		app.ActiveProfile = ""
	}
	return l.save(st)
}

// RenameProfile renames a profile in place, keeping ActiveProfile
// pointed at it if it was active.
func (l *Library) RenameProfile(alias, oldName, newName string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.load()
	if err != nil {
		return err
	}
	app, exists := st.Apps[alias]
	if !exists {
		return notFound("alias %q is not registered", alias)
	}
	profile, exists := app.Profiles[oldName]
	if !exists {
		return notFound("profile %q not found for %q", oldName, alias)
	}
	if _, exists := app.Profiles[newName]; exists {
		return alreadyExists("profile %q already exists for %q", newName, alias)
	}

	delete(app.Profiles, oldName)
	app.Profiles[newName] = profile
	if app.ActiveProfile == oldName {
		app.ActiveProfile = newName
	}
	return l.save(st)
}

// SetActiveProfile makes profile the active one for alias and stamps
// its last-used bookkeeping.
func (l *Library) SetActiveProfile(alias, profile string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, p, err := l.lookupProfile(alias, profile)
	if err != nil {
		return err
	}

	st.Apps[alias].ActiveProfile = profile
	touchUsage(p)
	return l.save(st)
}

// usageStats is the supplemented last_used/usage_count bookkeeping
// kept under Profile.Extra rather than as a first-class field, so
// documents written by a build without this feature still round-trip.
type usageStats struct {
	LastUsed   time.Time `json:"last_used"`
	UsageCount int       `json:"usage_count"`
}

func touchUsage(p *store.Profile) {
	stats := usageStats{}
	if raw, ok := p.Extra["usage"]; ok {
		_ = json.Unmarshal(raw, &stats)
	}
	stats.LastUsed = time.Now().UTC()
	stats.UsageCount++

	encoded, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if p.Extra == nil {
		p.Extra = map[string]json.RawMessage{}
	}
	p.Extra["usage"] = encoded
}

// SetVariable sets key=value in alias's profile.
func (l *Library) SetVariable(alias, profile, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, p, err := l.lookupProfile(alias, profile)
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("variable name must not be empty")
	}

	p.Variables[key] = value
	return l.save(st)
}

// DeleteVariable removes key from alias's profile, if present.
func (l *Library) DeleteVariable(alias, profile, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, p, err := l.lookupProfile(alias, profile)
	if err != nil {
		return err
	}

	delete(p.Variables, key)
	return l.save(st)
}

func (l *Library) lookupProfile(alias, profile string) (*store.State, *store.Profile, error) {
	st, err := l.load()
	if err != nil {
		return nil, nil, err
	}
	app, exists := st.Apps[alias]
	if !exists {
		return nil, nil, notFound("alias %q is not registered", alias)
	}
	p, exists := app.Profiles[profile]
	if !exists {
		return nil, nil, notFound("profile %q not found for %q", profile, alias)
	}
	return st, p, nil
}

// ListApps returns every registered alias, in sorted order.
func (l *Library) ListApps() ([]string, error) {
	st, err := l.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(st.Apps))
	for alias := range st.Apps {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names, nil
}

// ListProfiles returns every profile name registered for alias, in
// sorted order.
func (l *Library) ListProfiles(alias string) ([]string, error) {
	st, err := l.load()
	if err != nil {
		return nil, err
	}
	app, exists := st.Apps[alias]
	if !exists {
		return nil, notFound("alias %q is not registered", alias)
	}
	names := make([]string, 0, len(app.Profiles))
	for name := range app.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetApp returns a snapshot of alias's App, for read-only display.
func (l *Library) GetApp(alias string) (*store.App, error) {
	st, err := l.load()
	if err != nil {
		return nil, err
	}
	app, exists := st.Apps[alias]
	if !exists {
		return nil, notFound("alias %q is not registered", alias)
	}
	return app, nil
}
