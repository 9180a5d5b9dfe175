// Package version provides centralized version information for ovirtctl.
// All versions follow semantic versioning (semver) conventions.
package version

// Version holds the current ovirtctl version.
// Format: major.minor.patch[-prerelease][+build]
const Version = "0.1.0-dev"
