// Package version reports the build version, set with -ldflags at release.
package version

//nolint:gochecknoglobals // Set by the linker.
var (
	version = "dev"
	commit  = "none"
)

// GetVersion returns the release version, or "dev".
func GetVersion() string { return version }

// GetCommit returns the build commit, or "none".
func GetCommit() string { return commit }

// String renders the version and commit for --version.
func String() string { return version + " (" + commit + ")" }
