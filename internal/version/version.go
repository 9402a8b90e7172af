// Package version holds build-time metadata injected via -ldflags.
package version

var (
	// Version is the semantic version of the binary.
	Version = "0.1.0"
	// Commit is the VCS revision the binary was built from.
	Commit = ""
	// BuildDate is when the binary was built.
	BuildDate = ""
)
