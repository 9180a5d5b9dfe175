// Package config provides configuration management for the ovirtctl CLI.
package config

import "github.com/ovirt-tools/ovirtctl/internal/version"

const (
	// DefaultTimeout is the engine HTTP timeout in seconds.
	DefaultTimeout = 30
)

// Version is the ovirtctl version from the centralized version package.
var Version = version.Version

// Global holds the global CLI configuration bound to persistent flags.
var Global struct {
	LogLevel string // Log level for CLI operations
	Insecure bool   // Skip engine TLS certificate verification
	Timeout  int    // Engine HTTP timeout in seconds
	SaveFile string // Config save file (default ~/ovirtlcli.json)
	History  string // Readline history file
}

// MockEngine holds the mock-engine command configuration.
var MockEngine struct {
	Listen         string // Listen address for the mock engine
	Username       string // Basic auth username (empty disables auth)
	Password       string // Basic auth password
	ProvisionPolls int    // Status fetches a new host reports "installing"
}
