// Package main provides the entry point for the ovirtctl shell.
//
// Invocation modes:
//   - no arguments: interactive shell (readline REPL over the node tree)
//   - arguments: run them as a single shell command line, exit 0 on
//     success or 1 on error
//   - -h/--help and -v/--version: usage/version to stderr, nonzero exit
package main

import (
	"fmt"
	"os"

	"github.com/ovirt-tools/ovirtctl/cmd/ovirtctl/commands"
	"github.com/ovirt-tools/ovirtctl/cmd/ovirtctl/config"
)

// helpVersionMode reports whether args ask for usage or version output.
// Only the first argument counts, so a literal -h later in a command line
// (a password, say) passes through to the shell untouched.
func helpVersionMode(args []string) string {
	if len(args) == 0 {
		return ""
	}
	switch args[0] {
	case "-h", "--help":
		return "help"
	case "-v", "--version":
		return "version"
	}
	return ""
}

func main() {
	// Help and version print to stderr and exit nonzero, before cobra gets
	// a chance to treat them as its own flags.
	switch helpVersionMode(os.Args[1:]) {
	case "help":
		rootCmd := commands.RootCmd
		fmt.Fprintln(os.Stderr, rootCmd.Long)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:", rootCmd.Use)
		os.Exit(1)
	case "version":
		fmt.Fprintf(os.Stderr, "ovirtctl version %s\n", config.Version)
		os.Exit(1)
	}

	rootCmd := commands.RootCmd
	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	commands.SetupCommands()
	commands.SetupGlobalFlags(rootCmd)
	commands.SetupMockEngineFlags()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
