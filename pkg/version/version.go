// Package version exposes build metadata for the src2html binary.
package version

// Populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
