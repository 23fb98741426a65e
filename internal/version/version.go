// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for the version subcommand.
func String() string {
	return fmt.Sprintf("docsearch %s (commit %s, built %s)", Version, Commit, Date)
}

// UserAgent returns the User-Agent sent to the backend for product.
func UserAgent(product string) string {
	return product + "/" + Version
}
