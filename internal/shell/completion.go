package shell

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ovirt-tools/ovirtctl/internal/prefs"
	"github.com/ovirt-tools/ovirtctl/internal/tree"
)

// completer implements readline.AutoCompleter over the live tree: command
// names at the first position, node paths for navigation commands, entry
// names for lifecycle commands, preference names for get/set, and file
// paths for saveconfig/restoreconfig.
type completer struct {
	shell *Shell
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	partial := ""
	words := strings.Fields(text)
	if len(words) > 0 && !strings.HasSuffix(text, " ") {
		partial = words[len(words)-1]
		words = words[:len(words)-1]
	}

	candidates := c.candidates(words, partial)
	sort.Strings(candidates)

	var suggestions [][]rune
	for _, cand := range candidates {
		if strings.HasPrefix(cand, partial) && cand != partial {
			suggestions = append(suggestions, []rune(cand[len(partial):]))
		}
	}
	return suggestions, len([]rune(partial))
}

// candidates picks the completion set from the completed words so far.
func (c *completer) candidates(words []string, partial string) []string {
	target := c.shell.cur

	// A leading path token shifts the command position and moves the
	// target the remaining words complete against.
	if len(words) > 0 && isPath(words[0]) {
		if n, ok := tree.Resolve(c.shell.cur, words[0]); ok {
			target = n
		}
		words = words[1:]
	}

	if len(words) == 0 {
		if isPath(partial) || strings.Contains(partial, "/") {
			return c.pathCandidates(partial)
		}
		return append(c.shell.reg.names[:len(c.shell.reg.names):len(c.shell.reg.names)],
			c.pathCandidates(partial)...)
	}

	switch words[0] {
	case "cd", "ls":
		if len(words) == 1 {
			return c.pathCandidates(partial)
		}
	case "help":
		if len(words) == 1 {
			return c.shell.reg.names
		}
	case "get", "set":
		if len(words) == 1 {
			return c.shell.prefs.Names()
		}
	case "saveconfig", "restoreconfig":
		if len(words) == 1 {
			return fileCandidates(partial)
		}
	case "delete", "activate", "deactivate":
		if len(words) == 1 {
			return childNames(target)
		}
	case "create":
		return createKeys(target)
	}
	return nil
}

// pathCandidates completes a node path: the directory part of the partial
// is resolved against the current node, the base part matches child names.
func (c *completer) pathCandidates(partial string) []string {
	dir, _ := splitPath(partial)
	base := c.shell.cur
	if dir != "" {
		n, ok := tree.Resolve(c.shell.cur, dir)
		if !ok {
			return nil
		}
		base = n
	}

	var out []string
	for _, child := range base.Children() {
		out = append(out, dir+child.Name())
	}
	return out
}

// splitPath splits a partial path into the resolvable directory prefix
// (including its trailing slash) and the name fragment being completed.
func splitPath(partial string) (dir, frag string) {
	idx := strings.LastIndex(partial, "/")
	if idx < 0 {
		return "", partial
	}
	return partial[:idx+1], partial[idx+1:]
}

// childNames lists the target's direct children, for name-keyed commands.
func childNames(n tree.Node) []string {
	var out []string
	for _, child := range n.Children() {
		out = append(out, child.Name())
	}
	return out
}

// createKeys offers the key=value parameter names create accepts at the
// target collection.
func createKeys(n tree.Node) []string {
	switch n.(type) {
	case *tree.DataCenters:
		return []string{"name=", "description=", "local="}
	case *tree.Hosts:
		return []string{"name=", "address=", "password=", "cluster=", "description="}
	default:
		return nil
	}
}

// fileCandidates completes filesystem paths for the config file commands.
func fileCandidates(partial string) []string {
	expanded := prefs.ExpandUser(partial)
	dir := filepath.Dir(expanded)
	if expanded == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	// Keep the prefix the user actually typed (pre-expansion) intact.
	typedDir, _ := splitPath(partial)
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		out = append(out, typedDir+name)
	}
	return out
}
