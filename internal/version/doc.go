// Package version exposes build metadata of the p1-alert binaries.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
package version
