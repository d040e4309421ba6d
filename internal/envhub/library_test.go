package envhub

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/envhub/envhub/internal/shim"
	"github.com/envhub/envhub/internal/store"
)

func newTestLibrary(t *testing.T) (*Library, string) {
	t.Helper()

	installDir := t.TempDir()
	launcher := filepath.Join(t.TempDir(), "envhub-launcher")
	if err := os.WriteFile(launcher, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("seeding fake launcher: %v", err)
	}

	s := store.New(afero.NewMemMapFs(), "/home/user/.config/envhub/config.json")
	lib := New(s)
	lib.globalInstallDir = func() (string, error) { return installDir, nil }
	lib.userInstallDir = func() (string, error) { return installDir, nil }
	lib.launcherPath = func() (string, error) { return launcher, nil }

	return lib, installDir
}

func TestRegisterAppCreatesShimAndMarksInstalled(t *testing.T) {
	lib, installDir := newTestLibrary(t)

	if _, err := lib.RegisterApp("iclaude", "claude", ModeGlobal); err != nil {
		if ehErr, ok := err.(*Error); !ok || ehErr.Code != CodePathNotOnPath {
			t.Fatalf("RegisterApp() error = %v", err)
		}
	}

	app, err := lib.GetApp("iclaude")
	if err != nil {
		t.Fatalf("GetApp() error = %v", err)
	}
	if app.Installed == nil || !*app.Installed {
		t.Errorf("Installed = %v, want true", app.Installed)
	}
	if _, exists := app.Profiles["default"]; !exists {
		t.Errorf("Profiles = %v, want a default profile", app.Profiles)
	}

	if _, err := os.Lstat(filepath.Join(installDir, "iclaude")); err != nil {
		t.Errorf("shim was not created: %v", err)
	}
}

func TestRegisterAppRejectsDuplicateAlias(t *testing.T) {
	lib, _ := newTestLibrary(t)

	if _, err := lib.RegisterApp("iclaude", "claude", ModeGlobal); err != nil {
		if ehErr, ok := err.(*Error); !ok || ehErr.Code != CodePathNotOnPath {
			t.Fatalf("first RegisterApp() error = %v", err)
		}
	}

	_, err := lib.RegisterApp("iclaude", "claude", ModeGlobal)
	ehErr, ok := err.(*Error)
	if !ok || ehErr.Code != CodeAlreadyExists {
		t.Fatalf("RegisterApp() error = %v, want AlreadyExists", err)
	}
}

func TestRegisterAppRollsBackStateWhenShimCreationFails(t *testing.T) {
	lib, installDir := newTestLibrary(t)

	foreign := shim.FinalPath(installDir, "iclaude")
	if err := os.WriteFile(foreign, []byte("not a shim"), 0o644); err != nil {
		t.Fatalf("seeding foreign file: %v", err)
	}

	if _, err := lib.RegisterApp("iclaude", "claude", ModeGlobal); err == nil {
		t.Fatal("RegisterApp() error = nil, want a shim-creation failure")
	}

	if _, err := lib.GetApp("iclaude"); err == nil {
		t.Error("GetApp() after failed RegisterApp = nil error, want NotFound")
	} else if ehErr, ok := err.(*Error); !ok || ehErr.Code != CodeNotFound {
		t.Errorf("GetApp() error = %v, want NotFound", err)
	}

	contents, err := os.ReadFile(foreign)
	if err != nil {
		t.Fatalf("reading foreign file: %v", err)
	}
	if string(contents) != "not a shim" {
		t.Errorf("foreign file contents = %q, want untouched", contents)
	}
}

func TestUnregisterAppRemovesShimAndState(t *testing.T) {
	lib, installDir := newTestLibrary(t)
	mustRegister(t, lib, "iclaude", "claude")

	if err := lib.UnregisterApp("iclaude"); err != nil {
		t.Fatalf("UnregisterApp() error = %v", err)
	}

	if _, err := lib.GetApp("iclaude"); err == nil {
		t.Error("GetApp() after unregister = nil error, want NotFound")
	}
	if _, err := os.Lstat(filepath.Join(installDir, "iclaude")); !os.IsNotExist(err) {
		t.Errorf("shim still present after unregister: %v", err)
	}
}

func TestUnregisterAppNotFound(t *testing.T) {
	lib, _ := newTestLibrary(t)

	err := lib.UnregisterApp("missing")
	ehErr, ok := err.(*Error)
	if !ok || ehErr.Code != CodeNotFound {
		t.Fatalf("UnregisterApp() error = %v, want NotFound", err)
	}
}

func TestAddProfileClonesFromSource(t *testing.T) {
	lib, _ := newTestLibrary(t)
	mustRegister(t, lib, "iclaude", "claude")

	if err := lib.SetVariable("iclaude", "default", "API_KEY", "abc"); err != nil {
		t.Fatalf("SetVariable() error = %v", err)
	}
	if err := lib.AddProfile("iclaude", "work", "default"); err != nil {
		t.Fatalf("AddProfile() error = %v", err)
	}

	app, err := lib.GetApp("iclaude")
	if err != nil {
		t.Fatalf("GetApp() error = %v", err)
	}
	work, exists := app.Profiles["work"]
	if !exists {
		t.Fatalf("Profiles = %v, want work profile", app.Profiles)
	}
	if work.Variables["API_KEY"] != "abc" {
		t.Errorf("work.Variables[API_KEY] = %q, want abc", work.Variables["API_KEY"])
	}

	// Mutating a clone must not affect the source.
	clone := app.Profiles["default"].Clone()
	clone.Variables["API_KEY"] = "mutated"
	if app.Profiles["default"].Variables["API_KEY"] != "abc" {
		t.Error("Clone shares storage with its source profile")
	}
}

func TestAddProfileRejectsDuplicateName(t *testing.T) {
	lib, _ := newTestLibrary(t)
	mustRegister(t, lib, "iclaude", "claude")

	err := lib.AddProfile("iclaude", "default", "")
	ehErr, ok := err.(*Error)
	if !ok || ehErr.Code != CodeAlreadyExists {
		t.Fatalf("AddProfile() error = %v, want AlreadyExists", err)
	}
}

func TestDeleteProfileClearsActiveProfile(t *testing.T) {
	lib, _ := newTestLibrary(t)
	mustRegister(t, lib, "iclaude", "claude")

	if err := lib.DeleteProfile("iclaude", "default"); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}

	app, err := lib.GetApp("iclaude")
	if err != nil {
		t.Fatalf("GetApp() error = %v", err)
	}
	if app.ActiveProfile != "" {
		t.Errorf("ActiveProfile = %q, want empty after deleting active profile", app.ActiveProfile)
	}
}

func TestRenameProfileKeepsActiveProfilePointer(t *testing.T) {
	lib, _ := newTestLibrary(t)
	mustRegister(t, lib, "iclaude", "claude")

	if err := lib.RenameProfile("iclaude", "default", "primary"); err != nil {
		t.Fatalf("RenameProfile() error = %v", err)
	}

	app, err := lib.GetApp("iclaude")
	if err != nil {
		t.Fatalf("GetApp() error = %v", err)
	}
	if app.ActiveProfile != "primary" {
		t.Errorf("ActiveProfile = %q, want primary", app.ActiveProfile)
	}
	if _, exists := app.Profiles["default"]; exists {
		t.Error("old profile name still present after rename")
	}
}

func TestSetActiveProfileStampsUsage(t *testing.T) {
	lib, _ := newTestLibrary(t)
	mustRegister(t, lib, "iclaude", "claude")

	if err := lib.SetActiveProfile("iclaude", "default"); err != nil {
		t.Fatalf("SetActiveProfile() error = %v", err)
	}
	if err := lib.SetActiveProfile("iclaude", "default"); err != nil {
		t.Fatalf("second SetActiveProfile() error = %v", err)
	}

	app, err := lib.GetApp("iclaude")
	if err != nil {
		t.Fatalf("GetApp() error = %v", err)
	}
	if _, exists := app.Profiles["default"].Extra["usage"]; !exists {
		t.Error("usage bookkeeping was not recorded in Extra")
	}
}

func TestSetAndDeleteVariable(t *testing.T) {
	lib, _ := newTestLibrary(t)
	mustRegister(t, lib, "iclaude", "claude")

	if err := lib.SetVariable("iclaude", "default", "FOO", "bar"); err != nil {
		t.Fatalf("SetVariable() error = %v", err)
	}
	if err := lib.DeleteVariable("iclaude", "default", "FOO"); err != nil {
		t.Fatalf("DeleteVariable() error = %v", err)
	}

	app, err := lib.GetApp("iclaude")
	if err != nil {
		t.Fatalf("GetApp() error = %v", err)
	}
	if _, exists := app.Profiles["default"].Variables["FOO"]; exists {
		t.Error("variable still present after DeleteVariable")
	}
}

func TestListAppsAndProfilesAreSorted(t *testing.T) {
	lib, _ := newTestLibrary(t)
	mustRegister(t, lib, "zeta", "zeta")
	mustRegister(t, lib, "alpha", "alpha")
	if err := lib.AddProfile("alpha", "zzz", ""); err != nil {
		t.Fatalf("AddProfile() error = %v", err)
	}
	if err := lib.AddProfile("alpha", "aaa", ""); err != nil {
		t.Fatalf("AddProfile() error = %v", err)
	}

	apps, err := lib.ListApps()
	if err != nil {
		t.Fatalf("ListApps() error = %v", err)
	}
	if len(apps) != 2 || apps[0] != "alpha" || apps[1] != "zeta" {
		t.Errorf("ListApps() = %v, want [alpha zeta]", apps)
	}

	profiles, err := lib.ListProfiles("alpha")
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	want := []string{"aaa", "default", "zzz"}
	if len(profiles) != len(want) {
		t.Fatalf("ListProfiles() = %v, want %v", profiles, want)
	}
	for i := range want {
		if profiles[i] != want[i] {
			t.Errorf("ListProfiles()[%d] = %q, want %q", i, profiles[i], want[i])
		}
	}
}

func TestDescribeAppProducesYAML(t *testing.T) {
	lib, _ := newTestLibrary(t)
	mustRegister(t, lib, "iclaude", "claude")
	if err := lib.SetVariable("iclaude", "default", "FOO", "bar"); err != nil {
		t.Fatalf("SetVariable() error = %v", err)
	}

	out, err := lib.DescribeApp("iclaude")
	if err != nil {
		t.Fatalf("DescribeApp() error = %v", err)
	}
	if len(out) == 0 {
		t.Error("DescribeApp() returned empty output")
	}
}

func mustRegister(t *testing.T, lib *Library, alias, target string) {
	t.Helper()
	if _, err := lib.RegisterApp(alias, target, ModeGlobal); err != nil {
		if ehErr, ok := err.(*Error); !ok || ehErr.Code != CodePathNotOnPath {
			t.Fatalf("RegisterApp(%q) error = %v", alias, err)
		}
	}
}
