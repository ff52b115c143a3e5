// Package version holds build metadata stamped in with ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Overridden at build time:
// go build -ldflags "-X lifesuite/internal/version.Version=1.3.0 -X lifesuite/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "1.2.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Build describes the running binary.
type Build struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// Get snapshots the current build metadata.
func Get() Build {
	return Build{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// Short returns the version with an abbreviated commit when one was stamped.
func (b Build) Short() string {
	if b.Commit != "unknown" && len(b.Commit) > 7 {
		return b.Version + " (" + b.Commit[:7] + ")"
	}
	return b.Version
}

func (b Build) String() string {
	return fmt.Sprintf("lifesuite version %s\nCommit: %s\nBuilt: %s\nGo: %s",
		b.Version, b.Commit, b.BuildDate, b.GoVersion)
}
