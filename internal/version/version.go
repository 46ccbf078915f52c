// Package version carries the build version, overridden at link time with
// -ldflags "-X github.com/ndewijer/Investment-Portfolio-Dashboard/internal/version.Version=...".
package version

var Version = "dev"
