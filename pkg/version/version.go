// Package version holds the build version string.
package version

// Version is the current release. Overridden at build time via
// -ldflags "-X mapposter/pkg/version.Version=...".
var Version = "0.1.0-dev"
