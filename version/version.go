// Package version holds build metadata injected at link time.
package version

// Populated via -ldflags at build time, e.g.:
//
//	-X github.com/sruthykbenni/kelly/version.GitRelease=v0.2.0
var (
	GitRelease = "dev"
	GitCommit  = "unknown"
)
