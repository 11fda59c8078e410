// Package version provides version information for the dddmaker CLI.
//
// Usage:
//
//	version.GetVersionString()
package version

import (
	"fmt"
	"runtime"
)

// Version is the CLI version. Overridden with -ldflags during release builds.
var Version = "v0.1.0-dev"

// Commit is the git commit hash.
var Commit = "unknown"

// BuildTime is the build timestamp in RFC3339 format.
var BuildTime = "unknown"

// GetVersionString returns the version string in the format:
// dddmaker version v0.1.0 (commit 4a9b2c1, built 2025-10-31T12:10:00Z)
func GetVersionString() string {
	return fmt.Sprintf("dddmaker version %s (commit %s, built %s)", Version, Commit, BuildTime)
}

// GetFullVersionInfo returns detailed version information including the Go runtime.
//
// Returns:
//   - string: Multi-line version information
func GetFullVersionInfo() string {
	return fmt.Sprintf("%s\ngo version %s (%s/%s)",
		GetVersionString(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
