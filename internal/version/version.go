// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build stamp as "version (commit, date)".
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
