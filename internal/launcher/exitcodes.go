package launcher

// Exit codes the launcher uses for its own failures, distinct from
// any exit code the target program might return. 0 is reserved for
// the target; on successful POSIX handoff the launcher has no exit
// code of its own at all, since it is replaced.
const (
	// ExitSelfInvoked means the launcher was invoked directly under its
	// own canonical name rather than via a shim.
	ExitSelfInvoked = 120
	// ExitParseError means the state file exists but could not be parsed.
	ExitParseError = 121
	// ExitStateError means the state file could not be read for a
	// reason other than a parse failure (e.g. permission denied), its
	// path could not be resolved, or the launcher could not resolve its
	// own executable path.
	ExitStateError = 122
	// ExitTargetNotFound means target resolution found no surviving
	// candidate, or passthrough fallback found nothing on PATH.
	ExitTargetNotFound = 123
	// ExitHandoffFailed means the target was found but the process
	// replacement or child spawn itself failed.
	ExitHandoffFailed = 124
)
