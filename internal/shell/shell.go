// Package shell implements the interactive hierarchical shell: a readline
// REPL over the node tree, an explicit command registry, tab completion,
// and the preference surface.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ovirt-tools/ovirtctl/internal/logging"
	"github.com/ovirt-tools/ovirtctl/internal/prefs"
	"github.com/ovirt-tools/ovirtctl/internal/tree"
)

// DefaultHistoryFile is where the REPL keeps readline history unless
// overridden with --history.
const DefaultHistoryFile = "~/.ovirtctl_history"

// errExit is the sentinel the exit/quit commands return to stop the REPL.
var errExit = errors.New("exit")

// IsExit reports whether an Execute error is the exit request rather than
// a failure. Single-command callers treat it as a clean stop.
func IsExit(err error) bool {
	return errors.Is(err, errExit)
}

// Options carries the collaborators a shell is built from.
type Options struct {
	Root  *tree.Root
	Prefs *prefs.Prefs
	Store *prefs.Store

	// Out receives command output (ls trees, pwd, help). Defaults to
	// stdout; tests substitute a buffer.
	Out io.Writer

	// HistoryFile is the readline history location, tilde expanded.
	// Empty means DefaultHistoryFile.
	HistoryFile string
}

// Shell is the interactive shell state: the tree, the current node, the
// preferences, and the command registry.
type Shell struct {
	root  *tree.Root
	prefs *prefs.Prefs
	store *prefs.Store
	out   io.Writer
	reg   *registry

	cur         tree.Node
	historyFile string
}

// New builds a shell and validates the command registry up front, so a
// malformed command table fails at startup instead of at dispatch time.
func New(opts Options) (*Shell, error) {
	if opts.Root == nil {
		return nil, errors.New("shell requires a tree root")
	}

	reg, err := newRegistry()
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	p := opts.Prefs
	if p == nil {
		def := prefs.Default()
		p = &def
	}
	store := opts.Store
	if store == nil {
		store = prefs.NewStore("")
	}
	history := opts.HistoryFile
	if history == "" {
		history = DefaultHistoryFile
	}

	return &Shell{
		root:        opts.Root,
		prefs:       p,
		store:       store,
		out:         out,
		reg:         reg,
		cur:         opts.Root,
		historyFile: prefs.ExpandUser(history),
	}, nil
}

// Run drives the interactive REPL until exit/quit or EOF. On the way out
// the session is disconnected and, when auto_save_on_exit is set, the
// configuration is saved.
func (s *Shell) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     s.historyFile,
		AutoComplete:    &completer{shell: s},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(s.out, "Welcome to the oVirt shell. Type 'help' for a list of commands.")

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				break
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.Execute(line); err != nil {
			if errors.Is(err, errExit) {
				break
			}
			logging.Error("%v", err)
		}
		rl.SetPrompt(s.prompt())
	}

	return s.Close()
}

// Execute parses and runs one command line against the tree. The first
// token may be a node path, in which case the command runs against that
// node without changing the current directory.
func (s *Shell) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	target := s.cur
	if isPath(fields[0]) {
		n, ok := tree.Resolve(s.cur, fields[0])
		if !ok {
			return fmt.Errorf("no such path: %s", fields[0])
		}
		target = n
		fields = fields[1:]
		if len(fields) == 0 {
			return fmt.Errorf("path %s given without a command", tree.Path(n))
		}
	}

	cmd := s.reg.lookup(fields[0])
	if cmd == nil {
		return fmt.Errorf("unknown command: %s (try 'help')", fields[0])
	}

	err := cmd.run(s, target, fields[1:])
	if errors.Is(err, errExit) {
		return err
	}
	s.revalidate()
	return err
}

// Close disconnects the session and, when auto_save_on_exit is set, saves
// the configuration to the default location.
func (s *Shell) Close() error {
	var savedAddr, savedUser string
	if session := s.root.Session(); session != nil {
		savedAddr = session.Address
		savedUser = session.Username
	}
	if err := s.root.Disconnect(); err != nil {
		logging.Warn("Error while disconnecting: %v", err)
	}
	s.cur = s.root

	if s.prefs.AutoSaveOnExit {
		path, err := s.store.Save(prefs.SavedConfig{
			Address:  savedAddr,
			Username: savedUser,
			Prefs:    *s.prefs,
		}, "")
		if err != nil {
			return fmt.Errorf("failed to save configuration on exit: %w", err)
		}
		logging.Info("Configuration saved to %s.", path)
	}
	return nil
}

// Current returns the shell's current node.
func (s *Shell) Current() tree.Node {
	return s.cur
}

// prompt renders the readline prompt from the current path.
func (s *Shell) prompt() string {
	return fmt.Sprintf("%s> ", tree.Path(s.cur))
}

// revalidate re-resolves the current node by path after a command ran.
// Refresh rebuilds children wholesale, so the node the shell was standing
// on may have been replaced or may no longer exist; fall back toward the
// root until a resolvable path is found.
func (s *Shell) revalidate() {
	path := tree.Path(s.cur)
	for {
		if n, ok := tree.Resolve(s.root, path); ok {
			s.cur = n
			return
		}
		idx := strings.LastIndex(path, "/")
		if idx <= 0 {
			s.cur = s.root
			return
		}
		path = path[:idx]
	}
}

// isPath reports whether a token addresses a node rather than naming a
// command.
func isPath(tok string) bool {
	return strings.HasPrefix(tok, "/") || tok == "." || tok == ".." ||
		strings.HasPrefix(tok, "./") || strings.HasPrefix(tok, "../")
}
