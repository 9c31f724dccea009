package project

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGraph is returned by Restore when the dumped arena is
// inconsistent.
var ErrInvalidGraph = errors.New("invalid graph")

// Restore rebuilds a frozen graph from a flat dump, as produced by reading
// back [Graph.Units], [Graph.Namespaces] and [Graph.Issues]. Declaration
// order is taken as given. The arena is validated: ids must equal their
// index, parent and child links must agree and stay within one unit, every
// id is listed once, and qualified names must be unique within each unit
// and spell out the path from the top-level namespace.
func Restore(name, root string, units []Unit, namespaces []Namespace, issues []Issue) (*Graph, error) {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidGraph, fmt.Sprintf(format, args...))
	}

	roots := make(map[string]bool, len(units))
	for i, u := range units {
		if u.Name == "" {
			return nil, invalid("unit %d has no name", i)
		}
		if roots[u.Root] {
			return nil, invalid("duplicate unit root %q", u.Root)
		}
		roots[u.Root] = true
		if dup, ok := duplicateID(u.Roots); ok {
			return nil, invalid("unit %q lists namespace %d twice", u.Name, dup)
		}
		for _, id := range u.Roots {
			if !validID(id, namespaces) || namespaces[id].Parent != NoNamespace || namespaces[id].Unit != i {
				return nil, invalid("unit %q lists bad top-level namespace %d", u.Name, id)
			}
		}
	}

	seen := make(map[nsKey]bool, len(namespaces))
	for i, ns := range namespaces {
		if ns.ID != NamespaceID(i) {
			return nil, invalid("namespace at %d has id %d", i, ns.ID)
		}
		if ns.Unit < 0 || ns.Unit >= len(units) {
			return nil, invalid("namespace %q references unit %d", ns.QualifiedName, ns.Unit)
		}
		if ns.Name == "" || strings.Contains(ns.Name, Separator) {
			return nil, invalid("namespace %d has bad name %q", i, ns.Name)
		}
		key := nsKey{unit: ns.Unit, qualified: ns.QualifiedName}
		if seen[key] {
			return nil, invalid("duplicate namespace %q", ns.QualifiedName)
		}
		seen[key] = true
		want := ns.Name
		if ns.Parent != NoNamespace {
			if !validID(ns.Parent, namespaces) || !containsID(namespaces[ns.Parent].Children, ns.ID) {
				return nil, invalid("namespace %q has inconsistent parent", ns.QualifiedName)
			}
			parent := namespaces[ns.Parent]
			if parent.Unit != ns.Unit {
				return nil, invalid("namespace %q belongs to unit %d, its parent to unit %d", ns.QualifiedName, ns.Unit, parent.Unit)
			}
			want = parent.QualifiedName + Separator + ns.Name
		} else if !containsID(units[ns.Unit].Roots, ns.ID) {
			return nil, invalid("top-level namespace %q is not listed by its unit", ns.QualifiedName)
		}
		if ns.QualifiedName != want {
			return nil, invalid("namespace %q should be qualified as %q", ns.QualifiedName, want)
		}
		if dup, ok := duplicateID(ns.Children); ok {
			return nil, invalid("namespace %q lists child %d twice", ns.QualifiedName, dup)
		}
		for _, c := range ns.Children {
			if !validID(c, namespaces) || namespaces[c].Parent != ns.ID {
				return nil, invalid("namespace %q has inconsistent child %d", ns.QualifiedName, c)
			}
		}
		for _, d := range ns.Decls {
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidGraph, ns.QualifiedName, err)
			}
		}
	}

	return &Graph{
		name:       name,
		root:       root,
		units:      units,
		namespaces: namespaces,
		issues:     issues,
	}, nil
}

func validID(id NamespaceID, arena []Namespace) bool {
	return id >= 0 && int(id) < len(arena)
}

func containsID(ids []NamespaceID, id NamespaceID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func duplicateID(ids []NamespaceID) (NamespaceID, bool) {
	seen := make(map[NamespaceID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id, true
		}
		seen[id] = true
	}
	return 0, false
}
