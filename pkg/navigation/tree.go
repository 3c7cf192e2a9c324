package navigation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyTitle     = errors.New("navigation: node title is required")
	ErrDuplicateTitle = errors.New("navigation: duplicate title")
	ErrEmptyGroup     = errors.New("navigation: group has no children")
	ErrUnknownGroup   = errors.New("navigation: unknown group")
)

// KeySeparator joins ancestor titles into a group key.
const KeySeparator = "/"

// Tree is an immutable menu definition. Groups are addressed by key: the
// titles from the root down to the group joined with KeySeparator.
type Tree struct {
	roots  []Node
	groups map[string]Group
	keys   []string
}

// NewTree validates nodes and indexes every group.
func NewTree(nodes ...Node) (*Tree, error) {
	t := &Tree{groups: map[string]Group{}}
	if err := t.index(nodes, ""); err != nil {
		return nil, err
	}
	t.roots = append([]Node(nil), nodes...)
	return t, nil
}

// MustTree is NewTree for static definitions.
func MustTree(nodes ...Node) *Tree {
	t, err := NewTree(nodes...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tree) index(nodes []Node, prefix string) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		item := ItemOf(n)
		title := strings.TrimSpace(item.Title)
		if title == "" {
			return fmt.Errorf("%w (under %q)", ErrEmptyTitle, prefix)
		}
		if _, dup := seen[title]; dup {
			return fmt.Errorf("%w: %q under %q", ErrDuplicateTitle, title, prefix)
		}
		seen[title] = struct{}{}

		group, ok := n.(Group)
		if !ok {
			continue
		}
		key := joinKey(prefix, title)
		if len(group.Children) == 0 {
			return fmt.Errorf("%w: %q", ErrEmptyGroup, key)
		}
		if _, dup := t.groups[key]; dup {
			return fmt.Errorf("%w: key %q", ErrDuplicateTitle, key)
		}
		t.groups[key] = group
		t.keys = append(t.keys, key)
		if err := t.index(group.Children, key); err != nil {
			return err
		}
	}
	return nil
}

func joinKey(prefix, title string) string {
	if prefix == "" {
		return title
	}
	return prefix + KeySeparator + title
}

// Nodes returns the top-level nodes.
func (t *Tree) Nodes() []Node {
	if t == nil {
		return nil
	}
	return append([]Node(nil), t.roots...)
}

// GroupKeys lists every group key in definition order.
func (t *Tree) GroupKeys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// HasGroup reports whether key names a group.
func (t *Tree) HasGroup(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.groups[key]
	return ok
}

// Group looks up a group by key.
func (t *Tree) Group(key string) (Group, error) {
	if t != nil {
		if g, ok := t.groups[key]; ok {
			return g, nil
		}
	}
	return Group{}, fmt.Errorf("%w: %q", ErrUnknownGroup, key)
}

// Find returns the node with the longest active path for current. Ties go to
// the node visited last, so a child wins over a parent sharing its path.
func (t *Tree) Find(current string) (Node, bool) {
	var (
		best    Node
		bestLen = -1
	)
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			item := ItemOf(n)
			if IsActive(item.Path, current) && len(item.Path) >= bestLen {
				best, bestLen = n, len(item.Path)
			}
			if g, ok := n.(Group); ok {
				walk(g.Children)
			}
		}
	}
	if t != nil {
		walk(t.roots)
	}
	return best, best != nil
}

// Breadcrumbs returns the titles from the root to the active node.
func (t *Tree) Breadcrumbs(current string) []string {
	target, ok := t.Find(current)
	if !ok {
		return nil
	}
	var trail []string
	var walk func(nodes []Node, path []string) bool
	walk = func(nodes []Node, path []string) bool {
		for _, n := range nodes {
			next := append(append([]string(nil), path...), ItemOf(n).Title)
			if sameNode(n, target) {
				trail = next
				return true
			}
			if g, ok := n.(Group); ok && walk(g.Children, next) {
				return true
			}
		}
		return false
	}
	walk(t.roots, nil)
	return trail
}

func sameNode(a, b Node) bool {
	ai, bi := ItemOf(a), ItemOf(b)
	_, ag := a.(Group)
	_, bg := b.(Group)
	return ai.Title == bi.Title && ai.Path == bi.Path && ag == bg
}

// IsActive matches a node path against the current location. The root path
// only matches itself; any other path matches by prefix.
func IsActive(path, current string) bool {
	if path == "/" {
		return current == "/"
	}
	if path == "" {
		return false
	}
	return strings.HasPrefix(current, path)
}

// NodeActive reports whether n or any of its descendants is active.
func NodeActive(n Node, current string) bool {
	if IsActive(ItemOf(n).Path, current) {
		return true
	}
	if g, ok := n.(Group); ok {
		for _, child := range g.Children {
			if NodeActive(child, current) {
				return true
			}
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// HasPath reports whether any node links to path.
func (t *Tree) HasPath(path string) bool {
	found := false
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if ItemOf(n).Path == path {
				found = true
				return
			}
			if g, ok := n.(Group); ok {
				walk(g.Children)
			}
		}
	}
	if t != nil {
		walk(t.roots)
	}
	return found
}

// Insert returns a new tree with n added at position among the top-level
// nodes. Out of range positions append.
func (t *Tree) Insert(position int, n Node) (*Tree, error) {
	nodes := t.Nodes()
	if position < 0 || position > len(nodes) {
		position = len(nodes)
	}
	nodes = append(nodes[:position], append([]Node{n}, nodes[position:]...)...)
	return NewTree(nodes...)
}
