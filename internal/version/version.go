// Package version holds build metadata set via ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/docsflow/internal/version.Version=v1.0.0"
package version

import "fmt"

// Version is the released version of docsflow.
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("docsflow %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
