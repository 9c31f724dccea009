package project

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
)

var (
	// ErrFrozen is returned by every Assembler method after Freeze.
	ErrFrozen = errors.New("graph is frozen")

	// ErrEmptyUnitName is returned by AddUnit for units without a name.
	ErrEmptyUnitName = errors.New("unit name must not be empty")

	// ErrDuplicateUnitRoot is returned when two units share a root path.
	ErrDuplicateUnitRoot = errors.New("duplicate unit root")

	// ErrUnknownUnit is returned for out-of-range unit indices.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrUnknownNamespace is returned for out-of-range namespace ids.
	ErrUnknownNamespace = errors.New("unknown namespace")

	// ErrEmptyNamespacePath is returned when a namespace path has no
	// segments or contains an empty segment.
	ErrEmptyNamespacePath = errors.New("namespace path must not be empty")
)

type nsKey struct {
	unit      int
	qualified string
}

// Assembler builds a [Graph]. It is not safe for concurrent use; the
// builder drives it from a single collector goroutine.
type Assembler struct {
	g      *Graph
	index  map[nsKey]NamespaceID
	roots  map[string]int
	frozen bool
}

// NewAssembler starts an empty graph for the named project rooted at root.
func NewAssembler(name, root string) *Assembler {
	return &Assembler{
		g:     &Graph{name: name, root: root},
		index: make(map[nsKey]NamespaceID),
		roots: make(map[string]int),
	}
}

// AddUnit registers a unit and returns its index. Unit.Roots is ignored;
// top-level namespaces are recorded as they are created.
func (a *Assembler) AddUnit(u Unit) (int, error) {
	if a.frozen {
		return 0, ErrFrozen
	}
	if u.Name == "" {
		return 0, ErrEmptyUnitName
	}
	root := cleanRoot(u.Root)
	if _, ok := a.roots[root]; ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateUnitRoot, root)
	}
	u.Root = root
	u.Roots = nil
	idx := len(a.g.units)
	a.g.units = append(a.g.units, u)
	a.roots[root] = idx
	return idx, nil
}

// Namespace returns the namespace of unit u at path, creating it and any
// missing ancestors.
func (a *Assembler) Namespace(u int, segments []string) (NamespaceID, error) {
	if a.frozen {
		return 0, ErrFrozen
	}
	if u < 0 || u >= len(a.g.units) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownUnit, u)
	}
	if len(segments) == 0 {
		return 0, ErrEmptyNamespacePath
	}

	parent := NoNamespace
	for i, name := range segments {
		if name == "" {
			return 0, ErrEmptyNamespacePath
		}
		qualified := strings.Join(segments[:i+1], Separator)
		key := nsKey{unit: u, qualified: qualified}
		if id, ok := a.index[key]; ok {
			parent = id
			continue
		}
		id := NamespaceID(len(a.g.namespaces))
		a.g.namespaces = append(a.g.namespaces, Namespace{
			ID:            id,
			Unit:          u,
			Name:          name,
			QualifiedName: qualified,
			Parent:        parent,
		})
		a.index[key] = id
		if parent == NoNamespace {
			a.g.units[u].Roots = append(a.g.units[u].Roots, id)
		} else {
			a.g.namespaces[parent].Children = append(a.g.namespaces[parent].Children, id)
		}
		parent = id
	}
	return parent, nil
}

// AddFile records a contributing source file. Adding the same path twice is
// a no-op.
func (a *Assembler) AddFile(id NamespaceID, f SourceFile) error {
	ns, err := a.ns(id)
	if err != nil {
		return err
	}
	for _, existing := range ns.Files {
		if existing.Path == f.Path {
			return nil
		}
	}
	ns.Files = append(ns.Files, f)
	return nil
}

// AddDeclarations attaches declarations to a namespace after validating
// each of them.
func (a *Assembler) AddDeclarations(id NamespaceID, decls ...Declaration) error {
	ns, err := a.ns(id)
	if err != nil {
		return err
	}
	for _, d := range decls {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	for _, d := range decls {
		ns.Decls = append(ns.Decls, d.Clone())
	}
	return nil
}

// MarkUnparsed flags a namespace as (partially) unanalyzed and records why.
func (a *Assembler) MarkUnparsed(id NamespaceID, issue Issue) error {
	ns, err := a.ns(id)
	if err != nil {
		return err
	}
	ns.Unparsed = true
	ns.Issues = append(ns.Issues, issue)
	return nil
}

// AddIssue records a graph-level issue.
func (a *Assembler) AddIssue(issue Issue) error {
	if a.frozen {
		return ErrFrozen
	}
	a.g.issues = append(a.g.issues, issue)
	return nil
}

// Freeze finalizes declaration order and returns the read-only graph. The
// Assembler rejects all further writes.
func (a *Assembler) Freeze() *Graph {
	if !a.frozen {
		for i := range a.g.namespaces {
			sortDecls(&a.g.namespaces[i])
		}
		a.frozen = true
	}
	return a.g
}

func (a *Assembler) ns(id NamespaceID) (*Namespace, error) {
	if a.frozen {
		return nil, ErrFrozen
	}
	if id < 0 || int(id) >= len(a.g.namespaces) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNamespace, id)
	}
	return &a.g.namespaces[id], nil
}

// sortDecls orders declarations by file (in attachment order) and then by
// start line. The sort is stable so equal lines keep extraction order.
func sortDecls(ns *Namespace) {
	rank := make(map[string]int, len(ns.Files))
	for i, f := range ns.Files {
		rank[f.Path] = i
	}
	fileRank := func(p string) int {
		if r, ok := rank[p]; ok {
			return r
		}
		return len(ns.Files)
	}
	slices.SortStableFunc(ns.Decls, func(x, y Declaration) int {
		if rx, ry := fileRank(x.Loc.File), fileRank(y.Loc.File); rx != ry {
			return rx - ry
		}
		return x.Loc.StartLine - y.Loc.StartLine
	})
}

func cleanRoot(root string) string {
	if root == "" {
		return "."
	}
	return path.Clean(strings.ReplaceAll(root, "\\", "/"))
}
