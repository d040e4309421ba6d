package launcher

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/envhub/envhub/internal/store"
)

func TestMergeEnvOverlaysWithoutRemoving(t *testing.T) {
	base := []string{"HOME=/home/user", "API=base"}
	profile := &store.Profile{Variables: map[string]string{"API": "overlaid", "NEW": "added"}}

	got := mergeEnv(base, profile)

	want := map[string]string{"HOME": "/home/user", "API": "overlaid", "NEW": "added"}
	gotMap := map[string]string{}
	for _, kv := range got {
		k, v, _ := splitEnv(kv)
		gotMap[k] = v
	}
	if !reflect.DeepEqual(gotMap, want) {
		t.Errorf("mergeEnv() = %v, want %v", gotMap, want)
	}
}

func TestMergeEnvEmptyProfileReturnsBaseUnchanged(t *testing.T) {
	base := []string{"HOME=/home/user"}
	got := mergeEnv(base, &store.Profile{})
	if !reflect.DeepEqual(got, base) {
		t.Errorf("mergeEnv() = %v, want unchanged %v", got, base)
	}
}

func TestBuildArgvPrependsCommandArgs(t *testing.T) {
	profile := &store.Profile{CommandArgs: []string{"--flag", "v"}}
	got := buildArgv("/usr/bin/echo", profile, []string{"extra"})
	want := []string{"/usr/bin/echo", "--flag", "v", "extra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildArgv() = %v, want %v", got, want)
	}
}

func TestLookupFallsBackToAliasOnMissingApp(t *testing.T) {
	st := store.NewState()
	target, profile := lookup(st, "echo")
	if target != "echo" {
		t.Errorf("lookup() target = %q, want echo", target)
	}
	if len(profile.Variables) != 0 {
		t.Errorf("lookup() profile = %v, want empty", profile.Variables)
	}
}

func TestLookupPrefersActiveProfile(t *testing.T) {
	st := store.NewState()
	app := store.NewApp("/usr/bin/echo")
	app.Profiles["work"] = &store.Profile{Variables: map[string]string{"API": "W"}}
	app.Profiles["home"] = &store.Profile{Variables: map[string]string{"API": "H"}}
	app.ActiveProfile = "home"
	st.Apps["iclaude"] = app

	target, profile := lookup(st, "iclaude")
	if target != "/usr/bin/echo" {
		t.Errorf("lookup() target = %q, want /usr/bin/echo", target)
	}
	if profile.Variables["API"] != "H" {
		t.Errorf("lookup() profile API = %q, want H", profile.Variables["API"])
	}
}

func TestLookupFallsBackToFirstProfileWhenActiveMissing(t *testing.T) {
	st := store.NewState()
	app := store.NewApp("/usr/bin/echo")
	delete(app.Profiles, "default")
	app.Profiles["b"] = &store.Profile{Variables: map[string]string{"API": "B"}}
	app.Profiles["a"] = &store.Profile{Variables: map[string]string{"API": "A"}}
	app.ActiveProfile = "" // cleared after deleting the active profile
	st.Apps["iclaude"] = app

	_, profile := lookup(st, "iclaude")
	if profile.Variables["API"] != "A" {
		t.Errorf("lookup() profile API = %q, want A (lexicographically first)", profile.Variables["API"])
	}
}

func TestRunDetectsDirectInvocation(t *testing.T) {
	s := store.New(afero.NewMemMapFs(), "/home/user/.config/envhub/config.json")
	code := Run([]string{"/usr/local/bin/envhub-launcher"}, "envhub-launcher", s)
	if code != ExitSelfInvoked {
		t.Errorf("Run() = %d, want ExitSelfInvoked", code)
	}
}

func TestRunReportsParseError(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/user/.config/envhub/config.json"
	if err := afero.WriteFile(fs, path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seeding malformed file: %v", err)
	}
	s := store.New(fs, path)

	code := Run([]string{"/usr/local/bin/iclaude"}, "envhub-launcher", s)
	if code != ExitParseError {
		t.Errorf("Run() = %d, want ExitParseError", code)
	}
}

func TestRunReportsTargetNotFound(t *testing.T) {
	s := store.New(afero.NewMemMapFs(), "/home/user/.config/envhub/config.json")
	t.Setenv("PATH", t.TempDir())

	code := Run([]string{"/usr/local/bin/definitely-not-a-real-binary"}, "envhub-launcher", s)
	if code != ExitTargetNotFound {
		t.Errorf("Run() = %d, want ExitTargetNotFound", code)
	}
}

func TestExplainRendersScriptWithoutExecuting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "echoer")
	writeExecutable(t, target)
	t.Setenv("PATH", dir)

	fs := afero.NewMemMapFs()
	s := store.New(fs, "/home/user/.config/envhub/config.json")
	st := store.NewState()
	app := store.NewApp("echoer")
	app.Profiles["default"].Variables["API"] = "W"
	app.ActiveProfile = "default"
	st.Apps["iclaude"] = app
	if err := s.Save(st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	script, err := Explain("iclaude", []string{"hello"}, s, "/some/other/launcher")
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if !strings.Contains(script, target) {
		t.Errorf("Explain() script = %q, want to mention resolved target %q", script, target)
	}
	if !strings.Contains(script, "API") {
		t.Errorf("Explain() script = %q, want to export profile variable API", script)
	}
	if !strings.Contains(script, "hello") {
		t.Errorf("Explain() script = %q, want trailing arg hello", script)
	}
}

func TestExplainReportsParseError(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/user/.config/envhub/config.json"
	if err := afero.WriteFile(fs, path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seeding malformed file: %v", err)
	}
	s := store.New(fs, path)

	_, err := Explain("iclaude", nil, s, "/some/launcher")
	if _, ok := err.(*store.ParseError); !ok {
		t.Errorf("Explain() error = %T, want *store.ParseError", err)
	}
}

func TestRunDispatchesExplainOnDirectInvocation(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "echoer")
	writeExecutable(t, target)
	t.Setenv("PATH", dir)

	fs := afero.NewMemMapFs()
	s := store.New(fs, "/home/user/.config/envhub/config.json")
	st := store.NewState()
	st.Apps["iclaude"] = store.NewApp("echoer")
	if err := s.Save(st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	oldStdout := os.Stdout
	os.Stdout = w
	code := Run([]string{"/usr/local/bin/envhub-launcher", "--explain", "iclaude"}, "envhub-launcher", s)
	os.Stdout = oldStdout
	w.Close()

	var out strings.Builder
	buf := make([]byte, 4096)
	for {
		n, readErr := r.Read(buf)
		out.Write(buf[:n])
		if readErr != nil {
			break
		}
	}

	if code != 0 {
		t.Errorf("Run() = %d, want 0", code)
	}
	if !strings.Contains(out.String(), target) {
		t.Errorf("Run() --explain output = %q, want to mention resolved target %q", out.String(), target)
	}
}
