// Command envhub-launcher is the polymorphic shim executable: it
// behaves according to whatever name it was invoked as (argv[0]), per
// the protocol in internal/launcher. It takes no flags of its own
// when invoked under a shim name; every argument is forwarded to the
// resolved target. Invoked directly under its own canonical name, it
// recognizes a single diagnostic form: "envhub-launcher --explain
// <alias> [args...]", which prints the shell script that invoking
// alias would run instead of running it.
package main

import "os"

// argv0 is captured during this package's variable initialization,
// before main runs. Imported packages are initialized before it; none
// of them modifies os.Args.
var argv0 = os.Args[0]

func main() {
	os.Exit(run())
}
