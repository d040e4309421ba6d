package launcher

import (
	"fmt"
	"strings"

	"github.com/envhub/envhub/internal/store"
)

// WriteDebugScript renders a standalone shell script that reproduces
// one invocation's resolved target, argv, and environment overlay,
// without executing it. Useful for a UI's "show me what this alias
// would actually run" affordance.
func WriteDebugScript(alias, target string, profile *store.Profile, trailingArgs []string) string {
	script := &strings.Builder{}

	fmt.Fprintf(script, "#!/bin/sh\n")
	fmt.Fprintf(script, "# Generated by envhub for alias %q\n", alias)
	fmt.Fprintf(script, "# Resolved target: %s\n\n", target)

	if len(profile.Variables) > 0 {
		fmt.Fprintf(script, "# Profile environment\n")
		for k, v := range profile.Variables {
			fmt.Fprintf(script, "export %s='%s'\n", k, strings.ReplaceAll(v, "'", `'"'"'`))
		}
		fmt.Fprintln(script)
	}

	args := buildArgv(target, profile, trailingArgs)
	fmt.Fprintf(script, "exec")
	for _, a := range args {
		fmt.Fprintf(script, " '%s'", strings.ReplaceAll(a, "'", `'"'"'`))
	}
	fmt.Fprintln(script)

	return script.String()
}
