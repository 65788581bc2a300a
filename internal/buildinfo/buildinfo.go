// Package buildinfo carries the version stamp injected at build time via
// ldflags. The defaults identify a non-release build.
package buildinfo

import "fmt"

var (
	// Version is the release version, e.g. "0.3.0".
	Version = "dev"
	// Commit is the short git hash the binary was built from.
	Commit = "none"
	// BuildDate is the UTC build timestamp.
	BuildDate = "unknown"
)

// Summary renders the one-line version string printed by the version
// command.
func Summary() string {
	return fmt.Sprintf("relkit %s (commit %s, built %s)", Version, Commit, BuildDate)
}
