// Package commands provides the command tree for ovirtctl.
//
// ovirtctl has one primary surface: the hierarchical engine shell. With no
// arguments the root command starts the interactive REPL; with arguments
// it runs them as a single shell command line and exits. The mock-engine
// subcommand runs an in-process fake engine for local development.
package commands

import (
	"strings"
	"time"

	"github.com/ovirt-tools/ovirtctl/cmd/ovirtctl/config"
	"github.com/ovirt-tools/ovirtctl/internal/enginemock"
	"github.com/ovirt-tools/ovirtctl/internal/logging"
	"github.com/ovirt-tools/ovirtctl/internal/prefs"
	"github.com/ovirt-tools/ovirtctl/internal/shell"
	"github.com/ovirt-tools/ovirtctl/internal/tree"
	"github.com/spf13/cobra"
)

// RootCmd is the ovirtctl root command.
var RootCmd = &cobra.Command{
	Use:   "ovirtctl [command line]",
	Short: "Interactive hierarchical shell for administering an oVirt engine",
	Long: `ovirtctl is a command-line shell for administering a virtualization
management engine: data centers, clusters, hosts, storage domains,
templates and virtual machines are navigated as a tree of nodes, each
exposing lifecycle commands that map to engine REST API calls.

Run without arguments for the interactive shell; pass a command line to
run a single command and exit.`,
	SilenceUsage: true,
	Args:         cobra.ArbitraryArgs,
	RunE:         runRoot,
	Example: `  # Start the interactive shell
  ovirtctl

  # Run a single command
  ovirtctl connect admin secret engine.example.com

  # Run a command against a node path
  ovirtctl "/Hosts" status

  # Start a local mock engine for development
  ovirtctl mock-engine --listen 127.0.0.1:8443`,
}

var mockEngineCmd = &cobra.Command{
	Use:   "mock-engine",
	Short: "Run an in-process mock engine serving the consumed API subset",
	Long: `mock-engine starts an HTTPS server with a self-signed certificate that
implements the slice of the engine REST API this shell consumes, seeded
with a small default inventory. Point the shell at it with:

  ovirtctl connect admin secret 127.0.0.1:8443`,
	RunE: runMockEngine,
}

// SetupCommands attaches subcommands to the root.
func SetupCommands() {
	RootCmd.AddCommand(mockEngineCmd)
}

// SetupGlobalFlags configures the persistent flags bound to config.Global.
func SetupGlobalFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&config.Global.LogLevel, "log-level", "INFO",
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().BoolVar(&config.Global.Insecure, "insecure", true,
		"Skip engine TLS certificate verification")
	rootCmd.PersistentFlags().IntVar(&config.Global.Timeout, "timeout", config.DefaultTimeout,
		"Engine HTTP timeout in seconds")
	rootCmd.PersistentFlags().StringVar(&config.Global.SaveFile, "savefile", prefs.DefaultSaveFile,
		"Configuration save file")
	rootCmd.PersistentFlags().StringVar(&config.Global.History, "history", shell.DefaultHistoryFile,
		"Readline history file")
}

// SetupMockEngineFlags configures the mock-engine command flags.
func SetupMockEngineFlags() {
	mockEngineCmd.Flags().StringVar(&config.MockEngine.Listen, "listen", "127.0.0.1:8443",
		"Listen address")
	mockEngineCmd.Flags().StringVar(&config.MockEngine.Username, "username", "",
		"Require basic auth with this username (empty disables auth)")
	mockEngineCmd.Flags().StringVar(&config.MockEngine.Password, "password", "",
		"Basic auth password")
	mockEngineCmd.Flags().IntVar(&config.MockEngine.ProvisionPolls, "provision-polls", 2,
		"Status fetches a newly added host reports 'installing' before coming up")
}

// runRoot builds the shell over a live engine dialer and either starts the
// REPL (no args) or executes the args as one command line.
func runRoot(cmd *cobra.Command, args []string) error {
	store := prefs.NewStore(config.Global.SaveFile)

	p := prefs.Default()
	if cfg, path, err := store.RestoreOver(p, ""); err == nil {
		p = cfg.Prefs
		logging.Debug("Loaded configuration from %s", path)
	}

	root := tree.NewRoot(tree.EngineDialer(
		config.Global.Insecure,
		time.Duration(config.Global.Timeout)*time.Second,
	))

	sh, err := shell.New(shell.Options{
		Root:        root,
		Prefs:       &p,
		Store:       store,
		HistoryFile: config.Global.History,
	})
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return sh.Run()
	}

	if err := sh.Execute(strings.Join(args, " ")); err != nil && !shell.IsExit(err) {
		return err
	}
	return nil
}

// runMockEngine seeds and serves the mock engine until the process is
// killed.
func runMockEngine(cmd *cobra.Command, args []string) error {
	srv := enginemock.New(enginemock.Options{
		ProvisionPolls: config.MockEngine.ProvisionPolls,
		Username:       config.MockEngine.Username,
		Password:       config.MockEngine.Password,
	})
	srv.Seed()
	return srv.Run(config.MockEngine.Listen)
}
