package shell

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ovirt-tools/ovirtctl/internal/logging"
	"github.com/ovirt-tools/ovirtctl/internal/prefs"
	"github.com/ovirt-tools/ovirtctl/internal/tree"
	"github.com/ovirt-tools/ovirtctl/internal/version"
)

// command is one entry of the explicit dispatch table. Commands receive
// the target node (the current node, or the node a path prefix resolved
// to) and the remaining argument tokens.
type command struct {
	name  string
	usage string
	help  string
	run   func(s *Shell, target tree.Node, args []string) error
}

// registry is the validated command table.
type registry struct {
	commands map[string]*command
	names    []string
}

// newRegistry builds and validates the dispatch table. Validation happens
// once at startup: every command needs a unique name and a handler.
func newRegistry() (*registry, error) {
	table := []*command{
		{
			name:  "connect",
			usage: "connect <username> <password> <address>",
			help:  "Connect to the engine at https://<address>/ovirt-engine/api.",
			run:   runConnect,
		},
		{
			name:  "disconnect",
			usage: "disconnect",
			help:  "Close the engine session. Safe to repeat.",
			run:   runDisconnect,
		},
		{
			name:  "cd",
			usage: "cd [path]",
			help:  "Change the current node. Supports /, .., and relative paths.",
			run:   runCd,
		},
		{
			name:  "ls",
			usage: "ls [path]",
			help:  "Render the tree below a node with per-node summaries.",
			run:   runLs,
		},
		{
			name:  "pwd",
			usage: "pwd",
			help:  "Print the current node path.",
			run:   runPwd,
		},
		{
			name:  "status",
			usage: "status",
			help:  "Print the target node's one-line status summary.",
			run:   runStatus,
		},
		{
			name:  "refresh",
			usage: "refresh",
			help:  "Re-fetch the target node's children from the engine.",
			run:   runRefresh,
		},
		{
			name:  "create",
			usage: "create <args> (see 'help create')",
			help: "Create a resource in the target collection.\n" +
				"  On /Datacenters: create <name> [description] [local]\n" +
				"  On /Hosts:       create <name> <address> <password> <cluster> [description]\n" +
				"Arguments may also be given as key=value pairs.",
			run: runCreate,
		},
		{
			name:  "delete",
			usage: "delete [name]",
			help:  "Delete a resource: by name on a collection, argument-free on an entry.",
			run:   runDelete,
		},
		{
			name:  "activate",
			usage: "activate [name]",
			help:  "Bring a host out of maintenance. No-op when already up.",
			run:   runActivate,
		},
		{
			name:  "deactivate",
			usage: "deactivate [name]",
			help:  "Put a host into maintenance. No-op when already there.",
			run:   runDeactivate,
		},
		{
			name:  "get",
			usage: "get [preference]",
			help:  "Show one preference, or all of them.",
			run:   runGet,
		},
		{
			name:  "set",
			usage: "set <preference> <value>",
			help:  "Change a preference for this session (persisted by saveconfig).",
			run:   runSet,
		},
		{
			name:  "saveconfig",
			usage: "saveconfig [file]",
			help:  "Save preferences and connection info. The default location keeps rotated backups.",
			run:   runSaveConfig,
		},
		{
			name:  "restoreconfig",
			usage: "restoreconfig [file] [clear_existing]",
			help:  "Load a saved configuration. clear_existing resets preferences first.",
			run:   runRestoreConfig,
		},
		{
			name:  "version",
			usage: "version",
			help:  "Print the shell version.",
			run:   runVersion,
		},
		{
			name:  "help",
			usage: "help [command]",
			help:  "List commands, or show details for one.",
			run:   runHelp,
		},
		{
			name:  "exit",
			usage: "exit",
			help:  "Leave the shell, disconnecting and auto-saving if configured.",
			run:   runExit,
		},
		{
			name:  "quit",
			usage: "quit",
			help:  "Same as exit.",
			run:   runExit,
		},
	}

	reg := &registry{commands: make(map[string]*command, len(table))}
	for _, cmd := range table {
		if cmd.name == "" || cmd.run == nil {
			return nil, fmt.Errorf("invalid command table entry: %+v", cmd)
		}
		if _, dup := reg.commands[cmd.name]; dup {
			return nil, fmt.Errorf("duplicate command name: %s", cmd.name)
		}
		reg.commands[cmd.name] = cmd
		reg.names = append(reg.names, cmd.name)
	}
	sort.Strings(reg.names)
	return reg, nil
}

func (r *registry) lookup(name string) *command {
	return r.commands[name]
}

// splitArgs separates positional tokens from key=value tokens.
func splitArgs(args []string) ([]string, map[string]string) {
	var pos []string
	kv := make(map[string]string)
	for _, a := range args {
		if idx := strings.Index(a, "="); idx > 0 {
			kv[a[:idx]] = a[idx+1:]
			continue
		}
		pos = append(pos, a)
	}
	return pos, kv
}

// arg resolves one parameter from the key=value map, falling back to the
// next positional token.
func arg(kv map[string]string, key string, pos []string, idx int) string {
	if v, ok := kv[key]; ok {
		return v
	}
	if idx < len(pos) {
		return pos[idx]
	}
	return ""
}

func runConnect(s *Shell, _ tree.Node, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: connect <username> <password> <address>")
	}
	username, password, address := args[0], args[1], args[2]
	if err := s.root.Connect(username, password, address); err != nil {
		return err
	}
	s.prefs.Username = username
	return nil
}

func runDisconnect(s *Shell, _ tree.Node, _ []string) error {
	return s.root.Disconnect()
}

func runCd(s *Shell, target tree.Node, args []string) error {
	if len(args) == 0 {
		s.cur = s.root
		return nil
	}
	n, ok := tree.Resolve(target, args[0])
	if !ok {
		return fmt.Errorf("no such path: %s", args[0])
	}
	s.cur = n
	return nil
}

func runLs(s *Shell, target tree.Node, args []string) error {
	n := target
	if len(args) > 0 {
		resolved, ok := tree.Resolve(target, args[0])
		if !ok {
			return fmt.Errorf("no such path: %s", args[0])
		}
		n = resolved
	}
	renderTree(s.out, n, s.prefs.ColorMode)
	return nil
}

func runPwd(s *Shell, target tree.Node, _ []string) error {
	fmt.Fprintln(s.out, tree.Path(target))
	return nil
}

func runStatus(s *Shell, target tree.Node, _ []string) error {
	desc, ok := target.Summary()
	fmt.Fprintf(s.out, "%s: %s\n", tree.Path(target), renderSummary(desc, ok, s.prefs.ColorMode))
	return nil
}

func runRefresh(s *Shell, target tree.Node, _ []string) error {
	return target.Refresh()
}

func runCreate(s *Shell, target tree.Node, args []string) error {
	pos, kv := splitArgs(args)

	switch coll := target.(type) {
	case *tree.DataCenters:
		name := arg(kv, "name", pos, 0)
		description := arg(kv, "description", pos, 1)
		local := false
		if v := arg(kv, "local", pos, 2); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("local wants true or false, got '%s'", v)
			}
			local = b
		}
		if err := coll.Create(name, description, local); err != nil {
			return err
		}
		s.autoCd(coll, name)
		return nil

	case *tree.Hosts:
		name := arg(kv, "name", pos, 0)
		address := arg(kv, "address", pos, 1)
		password := arg(kv, "password", pos, 2)
		cluster := arg(kv, "cluster", pos, 3)
		description := arg(kv, "description", pos, 4)
		if err := coll.Create(name, address, password, cluster, description); err != nil {
			return err
		}
		s.autoCd(coll, name)
		return nil

	default:
		return fmt.Errorf("create is not available at %s", tree.Path(target))
	}
}

// autoCd moves into a freshly created entry when the preference asks for
// it. The entry may legitimately be absent (host creation that timed out),
// in which case the current node stays put.
func (s *Shell) autoCd(coll tree.Node, name string) {
	if !s.prefs.AutoCDAfterCreate {
		return
	}
	if child := tree.Child(coll, name); child != nil {
		s.cur = child
	}
}

func runDelete(s *Shell, target tree.Node, args []string) error {
	switch n := target.(type) {
	case *tree.DataCenters:
		if len(args) != 1 {
			return fmt.Errorf("usage: delete <name>")
		}
		return n.Delete(args[0])
	case *tree.Hosts:
		if len(args) != 1 {
			return fmt.Errorf("usage: delete <name>")
		}
		return n.Delete(args[0])
	case *tree.DataCenterEntry:
		return n.Delete()
	case *tree.HostEntry:
		return n.Delete()
	default:
		return fmt.Errorf("delete is not available at %s", tree.Path(target))
	}
}

func runActivate(s *Shell, target tree.Node, args []string) error {
	switch n := target.(type) {
	case *tree.Hosts:
		if len(args) != 1 {
			return fmt.Errorf("usage: activate <name>")
		}
		return n.Activate(args[0])
	case *tree.HostEntry:
		return n.Activate()
	default:
		return fmt.Errorf("activate is not available at %s", tree.Path(target))
	}
}

func runDeactivate(s *Shell, target tree.Node, args []string) error {
	switch n := target.(type) {
	case *tree.Hosts:
		if len(args) != 1 {
			return fmt.Errorf("usage: deactivate <name>")
		}
		return n.Deactivate(args[0])
	case *tree.HostEntry:
		return n.Deactivate()
	default:
		return fmt.Errorf("deactivate is not available at %s", tree.Path(target))
	}
}

func runGet(s *Shell, _ tree.Node, args []string) error {
	if len(args) > 0 {
		v, err := s.prefs.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s=%s\n", args[0], v)
		return nil
	}
	for _, name := range s.prefs.Names() {
		v, _ := s.prefs.Get(name)
		fmt.Fprintf(s.out, "%s=%s\n", name, v)
	}
	return nil
}

func runSet(s *Shell, _ tree.Node, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: set <preference> <value>")
	}
	return s.prefs.Set(args[0], args[1])
}

func runSaveConfig(s *Shell, _ tree.Node, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}

	cfg := prefs.SavedConfig{Prefs: *s.prefs}
	if session := s.root.Session(); session != nil {
		cfg.Address = session.Address
		cfg.Username = session.Username
	}

	saved, err := s.store.Save(cfg, path)
	if err != nil {
		return err
	}
	logging.Success("Configuration saved to %s.", saved)
	return nil
}

func runRestoreConfig(s *Shell, _ tree.Node, args []string) error {
	var path string
	clearExisting := false
	if len(args) > 0 {
		path = args[0]
	}
	if len(args) > 1 {
		b, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("clear_existing wants true or false, got '%s'", args[1])
		}
		clearExisting = b
	}

	// Without clear_existing, settings absent from the file keep their
	// current value; with it, the restore starts from the defaults.
	base := *s.prefs
	if clearExisting {
		base = prefs.Default()
	}

	cfg, resolved, err := s.store.RestoreOver(base, path)
	if err != nil {
		return fmt.Errorf("failed to restore configuration: %w", err)
	}
	*s.prefs = cfg.Prefs
	logging.Success("Configuration restored from %s.", resolved)
	return nil
}

func runVersion(s *Shell, _ tree.Node, _ []string) error {
	fmt.Fprintf(s.out, "ovirtctl version %s\n", version.Version)
	return nil
}

func runHelp(s *Shell, _ tree.Node, args []string) error {
	if len(args) > 0 {
		cmd := s.reg.lookup(args[0])
		if cmd == nil {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(s.out, "%s\n  %s\n", cmd.usage, strings.ReplaceAll(cmd.help, "\n", "\n  "))
		return nil
	}

	fmt.Fprintln(s.out, "Commands (prefix any command with a node path to run it there):")
	for _, name := range s.reg.names {
		cmd := s.reg.commands[name]
		first, _, _ := strings.Cut(cmd.help, "\n")
		fmt.Fprintf(s.out, "  %-14s %s\n", cmd.name, first)
	}
	return nil
}

func runExit(_ *Shell, _ tree.Node, _ []string) error {
	return errExit
}
