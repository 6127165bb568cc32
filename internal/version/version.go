package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Name is the binary name shown in version output.
	Name = "tpms-monitor"
	// Version is the semantic version, set at build time.
	Version = "dev"
	// Commit is the short git SHA, set at build time.
	Commit = "none"
	// BuildTime is the UTC build timestamp, set at build time.
	BuildTime = "unknown"
)

// Short returns the semantic version, falling back to the module version
// recorded by `go install` when ldflags were not used.
func Short() string {
	if Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return Version
}

// Full returns the name, version, commit and build time on one line.
func Full() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", Name, Short(), Commit, BuildTime)
}
