// Package version holds build information injected at link time.
package version

// Version is set by goreleaser
var Version = "dev"
