package project

import (
	"slices"
	"strings"
)

// Separator joins namespace names into qualified names.
const Separator = "::"

// RootNamespace is the name of a crate's root module.
const RootNamespace = "crate"

// NamespaceID indexes the namespace arena of a [Graph].
type NamespaceID int

// NoNamespace marks the absent parent of a top-level namespace.
const NoNamespace NamespaceID = -1

// IssueKind classifies a recorded, non-fatal problem.
type IssueKind string

const (
	// IssueIO records an unreadable file or directory.
	IssueIO IssueKind = "io"
	// IssueExtraction records a file whose declarations could not be derived.
	IssueExtraction IssueKind = "extraction"
	// IssueManifest records an unreadable or malformed Cargo.toml.
	IssueManifest IssueKind = "manifest"
)

// Issue is a problem that was recorded instead of aborting the build.
// Path is relative to the unit root for namespace issues and to the
// project root for graph-level issues.
type Issue struct {
	Kind    IssueKind
	Path    string
	Message string
}

// SourceFile is one file contributing declarations to a namespace.
type SourceFile struct {
	Path string // relative to the unit root, forward slashes
	Hash string // blake3 of the content, hex; empty when unreadable
}

// Unit is one compilable component (a Cargo package).
type Unit struct {
	Name     string
	Version  string
	Root     string // relative to the project root, "." for the root itself
	Manifest string // relative to the project root
	Roots    []NamespaceID
}

// Namespace is one module. Top-level namespaces have Parent == NoNamespace.
type Namespace struct {
	ID            NamespaceID
	Unit          int
	Name          string
	QualifiedName string
	Files         []SourceFile
	Parent        NamespaceID
	Children      []NamespaceID
	Decls         []Declaration

	// Unparsed marks namespaces where at least one contributing file could
	// not be read or extracted. Issues carries the error text.
	Unparsed bool
	Issues   []Issue
}

func (u Unit) clone() Unit {
	u.Roots = slices.Clone(u.Roots)
	return u
}

func (n Namespace) clone() Namespace {
	n.Files = slices.Clone(n.Files)
	n.Children = slices.Clone(n.Children)
	n.Issues = slices.Clone(n.Issues)
	if n.Decls != nil {
		decls := make([]Declaration, len(n.Decls))
		for i, d := range n.Decls {
			decls[i] = d.Clone()
		}
		n.Decls = decls
	}
	return n
}

// IsTopLevel reports whether the namespace has no parent.
func (n Namespace) IsTopLevel() bool { return n.Parent == NoNamespace }

// Path returns the qualified name split into its segments.
func (n Namespace) Path() []string { return strings.Split(n.QualifiedName, Separator) }

// ErrorText joins the messages of all recorded issues.
func (n Namespace) ErrorText() string {
	msgs := make([]string, len(n.Issues))
	for i, is := range n.Issues {
		msgs[i] = is.Message
	}
	return strings.Join(msgs, "; ")
}

// Graph is the frozen semantic graph of a project. The zero value is an
// empty graph; use an [Assembler] to build populated ones.
type Graph struct {
	name       string
	root       string
	units      []Unit
	namespaces []Namespace
	issues     []Issue
}

// Name returns the project or workspace identifier.
func (g *Graph) Name() string { return g.name }

// Root returns the project root path the graph was built from.
func (g *Graph) Root() string { return g.root }

// Empty reports whether the graph has no units. A build that found
// manifests but no packages yields an explicitly empty graph.
func (g *Graph) Empty() bool { return len(g.units) == 0 }

// Accessors hand out deep copies, so callers can never reach the arena.

// Units returns the units in discovery order.
func (g *Graph) Units() []Unit {
	out := make([]Unit, len(g.units))
	for i, u := range g.units {
		out[i] = u.clone()
	}
	return out
}

// Unit returns the unit at index i.
func (g *Graph) Unit(i int) Unit { return g.units[i].clone() }

// UnitCount returns the number of units.
func (g *Graph) UnitCount() int { return len(g.units) }

// Namespaces returns the whole arena in creation order.
func (g *Graph) Namespaces() []Namespace {
	out := make([]Namespace, len(g.namespaces))
	for i, ns := range g.namespaces {
		out[i] = ns.clone()
	}
	return out
}

// Namespace returns the namespace with the given id.
func (g *Graph) Namespace(id NamespaceID) Namespace { return g.namespaces[id].clone() }

// NamespaceCount returns the size of the arena.
func (g *Graph) NamespaceCount() int { return len(g.namespaces) }

// Issues returns graph-level issues (unreadable directories, bad manifests).
func (g *Graph) Issues() []Issue { return slices.Clone(g.issues) }

// Lookup finds a namespace of unit u by qualified name.
func (g *Graph) Lookup(u int, qualified string) (Namespace, bool) {
	for _, ns := range g.namespaces {
		if ns.Unit == u && ns.QualifiedName == qualified {
			return ns.clone(), true
		}
	}
	return Namespace{}, false
}

// Children returns the direct children of a namespace.
func (g *Graph) Children(id NamespaceID) []Namespace {
	ns := g.namespaces[id]
	out := make([]Namespace, len(ns.Children))
	for i, c := range ns.Children {
		out[i] = g.namespaces[c].clone()
	}
	return out
}

// WalkFunc is called for each namespace in depth-first pre-order. Returning
// false skips the namespace's children.
type WalkFunc func(u Unit, ns Namespace, depth int) bool

// Walk visits every namespace of every unit in rendering order: units in
// discovery order, then each unit's namespace tree depth-first.
func (g *Graph) Walk(fn WalkFunc) {
	for _, u := range g.units {
		for _, id := range u.Roots {
			g.walk(u.clone(), id, 0, fn)
		}
	}
}

// WalkFrom visits the subtree rooted at id.
func (g *Graph) WalkFrom(id NamespaceID, fn WalkFunc) {
	ns := g.namespaces[id]
	g.walk(g.units[ns.Unit].clone(), id, 0, fn)
}

func (g *Graph) walk(u Unit, id NamespaceID, depth int, fn WalkFunc) {
	ns := g.namespaces[id]
	if !fn(u, ns.clone(), depth) {
		return
	}
	for _, c := range ns.Children {
		g.walk(u, c, depth+1, fn)
	}
}

// Counts summarizes a graph.
type Counts struct {
	Units        int
	Namespaces   int
	Files        int
	Declarations int
	Unparsed     int
	ByKind       map[Kind]int
}

// Counts tallies units, namespaces, files and declarations.
func (g *Graph) Counts() Counts {
	c := Counts{
		Units:      len(g.units),
		Namespaces: len(g.namespaces),
		ByKind:     make(map[Kind]int, len(kindNames)),
	}
	for _, ns := range g.namespaces {
		c.Files += len(ns.Files)
		c.Declarations += len(ns.Decls)
		if ns.Unparsed {
			c.Unparsed++
		}
		for _, d := range ns.Decls {
			c.ByKind[d.Kind]++
		}
	}
	return c
}
