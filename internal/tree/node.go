// Package tree implements the node hierarchy the shell navigates.
//
// The tree mirrors the engine's resource inventory: the root owns the
// session, one collection node per resource category hangs off the root,
// and each collection owns one entry node per remote object. Consistency
// with the engine is maintained by explicit, on-demand refresh: a refresh
// discards a node's children wholesale and rebuilds them from a fresh
// fetch. There is no incremental diffing, so any reference to an entry
// taken before a refresh is stale afterwards.
//
// Command execution is strictly sequential. The shell invokes one
// operation at a time and every operation completes (or times out) before
// control returns, so nodes carry no locking.
package tree

import (
	"strings"
)

// Node is one element of the shell hierarchy.
type Node interface {
	// Name is the path component of this node.
	Name() string

	// Parent returns the containing node, or nil for the root.
	Parent() Node

	// Children returns the current child snapshot. The returned slice is
	// invalidated by the next Refresh.
	Children() []Node

	// Refresh discards the child snapshot and rebuilds it from the engine.
	// Entry nodes have no children and refresh to themselves.
	Refresh() error

	// Summary returns a one-line status description and an optional health
	// flag: nil when health does not apply, otherwise good/bad.
	Summary() (string, *bool)
}

// base carries the name/parent/children bookkeeping shared by every node.
type base struct {
	name     string
	parent   Node
	children []Node
}

func (b *base) Name() string     { return b.name }
func (b *base) Parent() Node     { return b.parent }
func (b *base) Children() []Node { return b.children }

// setChildren replaces the child snapshot wholesale.
func (b *base) setChildren(children []Node) {
	b.children = children
}

// healthy converts a bool into the optional health flag form.
func healthy(ok bool) *bool {
	return &ok
}

// Path returns the absolute slash-separated path of a node.
func Path(n Node) string {
	if n.Parent() == nil {
		return "/"
	}
	var parts []string
	for cur := n; cur != nil && cur.Parent() != nil; cur = cur.Parent() {
		parts = append(parts, cur.Name())
	}
	// parts were collected leaf-first
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

// Child returns the direct child with the given name, or nil.
func Child(n Node, name string) Node {
	for _, c := range n.Children() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Resolve walks a path expression relative to cur. Supported forms are the
// ones the shell accepts: absolute paths, ".", "..", and relative child
// names separated by slashes.
func Resolve(cur Node, path string) (Node, bool) {
	n := cur
	if strings.HasPrefix(path, "/") {
		for n.Parent() != nil {
			n = n.Parent()
		}
	}
	for _, part := range strings.Split(path, "/") {
		switch part {
		case "", ".":
		case "..":
			if n.Parent() != nil {
				n = n.Parent()
			}
		default:
			child := Child(n, part)
			if child == nil {
				return nil, false
			}
			n = child
		}
	}
	return n, true
}
