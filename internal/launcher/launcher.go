// Package launcher implements the shim-side half of EnvHub: the
// polymorphic executable that resolves its own invocation name to a
// registered alias, merges in the selected profile's environment, and
// hands off to the resolved target. It reads the state store directly
// and never calls through internal/envhub's library API; the two
// sides of the system share a schema, not an RPC boundary.
package launcher

import (
	"fmt"
	"os"
	"sort"

	"github.com/envhub/envhub/internal/store"
)

// Run executes the full launch protocol for one invocation. argv is
// the launcher's own argv (argv[0] is the invocation name used
// for self-identification; argv[1:] is forwarded to the target).
// canonicalName is the launcher's own name when invoked directly
// (e.g. "envhub-launcher"), used to detect direct invocation.
//
// On success, Run never returns on POSIX (the process image is
// replaced); on Windows it calls os.Exit with the target's exit code.
// It only returns when it fails before handoff, in which case the
// caller should os.Exit with the returned code.
func Run(argv []string, canonicalName string, s *store.Store) int {
	if len(argv) == 0 {
		fmt.Fprintln(os.Stderr, "envhub: missing argv[0]")
		return ExitSelfInvoked
	}

	alias := Alias(argv[0])
	if alias == canonicalName {
		if len(argv) >= 3 && argv[1] == "--explain" {
			return runExplain(argv[2], argv[3:], s)
		}
		fmt.Fprintf(os.Stderr, "envhub: %s was invoked directly; install it as a shim for another command instead\n", canonicalName)
		return ExitSelfInvoked
	}

	st, err := s.Load()
	if err != nil {
		if pe, ok := err.(*store.ParseError); ok {
			fmt.Fprintf(os.Stderr, "envhub: failed to parse config at %s: %v\n", pe.Path, pe.Err)
			return ExitParseError
		}
		// A missing or empty file loads as an empty State and takes the
		// passthrough fallback; any other read failure is fatal.
		fmt.Fprintf(os.Stderr, "envhub: failed to read config at %s: %v\n", s.Path(), err)
		return ExitStateError
	}

	targetBinary, profile := lookup(st, alias)

	launcherExe, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "envhub: failed to resolve launcher path: %v\n", err)
		return ExitStateError
	}

	target, err := ResolveTarget(targetBinary, launcherExe)
	if err != nil {
		fmt.Fprintf(os.Stderr, "envhub: target not found: %s\n", targetBinary)
		return ExitTargetNotFound
	}

	args := buildArgv(target, profile, argv[1:])
	env := mergeEnv(os.Environ(), profile)

	if err := handoff(target, args, env); err != nil {
		fmt.Fprintf(os.Stderr, "envhub: failed to run %s: %v\n", target, err)
		return ExitHandoffFailed
	}
	return 0
}

// runExplain implements the "envhub-launcher --explain <alias> [args...]"
// direct-invocation path: it resolves alias exactly as Run would, but
// prints the shell script that invocation would have run instead of
// performing the handoff.
func runExplain(alias string, trailingArgs []string, s *store.Store) int {
	launcherExe, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "envhub: failed to resolve launcher path: %v\n", err)
		return ExitStateError
	}

	script, err := Explain(alias, trailingArgs, s, launcherExe)
	if err != nil {
		if pe, ok := err.(*store.ParseError); ok {
			fmt.Fprintf(os.Stderr, "envhub: failed to parse config at %s: %v\n", pe.Path, pe.Err)
			return ExitParseError
		}
		fmt.Fprintf(os.Stderr, "envhub: target not found for %s\n", alias)
		return ExitTargetNotFound
	}

	fmt.Print(script)
	return 0
}

// Explain resolves alias the same way Run would (active profile,
// lexicographic fallback, anti-loop target search) and renders the
// shell script that invocation would run, without executing it. This
// is the non-handoff half of "envhub-launcher --explain", and is also
// usable directly by a UI collaborator that wants to show a user what
// an alias would do before running it.
func Explain(alias string, trailingArgs []string, s *store.Store, launcherExe string) (string, error) {
	st, err := s.Load()
	if err != nil {
		if _, ok := err.(*store.ParseError); ok {
			return "", err
		}
		st = store.NewState()
	}

	targetBinary, profile := lookup(st, alias)

	target, err := ResolveTarget(targetBinary, launcherExe)
	if err != nil {
		return "", err
	}

	return WriteDebugScript(alias, target, profile, trailingArgs), nil
}

// lookup finds alias's App and selects its active profile. If no App
// is registered, it falls back to treating the alias itself as the
// target binary with an empty profile.
//
// "First profile by insertion order" is realized as the
// lexicographically first profile name: every document this store
// writes serializes its "profiles" object via encoding/json's map
// marshaling, which is always sorted by key (see
// internal/store/extra.go), so a file's on-disk insertion order and
// its alphabetical order coincide for any state this library saved.
func lookup(st *store.State, alias string) (targetBinary string, profile *store.Profile) {
	app, exists := st.Apps[alias]
	if !exists {
		return alias, store.NewProfile()
	}

	if p, ok := app.Profiles[app.ActiveProfile]; ok {
		return app.TargetBinary, p
	}
	if name := firstProfileName(app); name != "" {
		return app.TargetBinary, app.Profiles[name]
	}
	return app.TargetBinary, store.NewProfile()
}

func firstProfileName(app *store.App) string {
	if len(app.Profiles) == 0 {
		return ""
	}
	names := make([]string, 0, len(app.Profiles))
	for name := range app.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0]
}

// buildArgv constructs the target's argument vector: the resolved
// target path as argv[0], the selected profile's command_args, then
// the launcher's own trailing arguments.
func buildArgv(target string, profile *store.Profile, trailing []string) []string {
	args := make([]string, 0, 1+len(profile.CommandArgs)+len(trailing))
	args = append(args, target)
	args = append(args, profile.CommandArgs...)
	args = append(args, trailing...)
	return args
}

// mergeEnv overlays profile's variables onto base, preserving every
// base variable the profile doesn't mention and never removing one.
func mergeEnv(base []string, profile *store.Profile) []string {
	if len(profile.Variables) == 0 {
		return base
	}

	envMap := make(map[string]string, len(base)+len(profile.Variables))
	order := make([]string, 0, len(base)+len(profile.Variables))
	for _, kv := range base {
		key, value, ok := splitEnv(kv)
		if !ok {
			continue
		}
		if _, exists := envMap[key]; !exists {
			order = append(order, key)
		}
		envMap[key] = value
	}
	for k, v := range profile.Variables {
		if _, exists := envMap[k]; !exists {
			order = append(order, k)
		}
		envMap[k] = v
	}

	merged := make([]string, 0, len(order))
	for _, k := range order {
		merged = append(merged, k+"="+envMap[k])
	}
	return merged
}

func splitEnv(kv string) (key, value string, ok bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}
