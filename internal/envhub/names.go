package envhub

// CanonicalName is the launcher's invocation name with any
// platform-specific executable extension stripped. The launcher
// compares the self-identified alias against it to detect a direct
// invocation. LauncherFilename (declared per-platform) is the actual
// file name used on disk, including ".exe" on Windows.
const CanonicalName = "envhub-launcher"
