package io

import (
	"github.com/matzehuels/furnace/pkg/project"
)

// FormatVersion is written into every document and checked on read.
const FormatVersion = 1

// document is the serialized form of a frozen graph. The arena is dumped
// as-is so ids, parent links and declaration order survive a round trip.
type document struct {
	Version    int         `json:"version" yaml:"version"`
	Name       string      `json:"name" yaml:"name"`
	Root       string      `json:"root" yaml:"root"`
	Units      []unit      `json:"units" yaml:"units"`
	Namespaces []namespace `json:"namespaces" yaml:"namespaces"`
	Issues     []issue     `json:"issues,omitempty" yaml:"issues,omitempty"`
}

type unit struct {
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
	Root     string `json:"root" yaml:"root"`
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	Roots    []int  `json:"roots,omitempty" yaml:"roots,omitempty,flow"`
}

type namespace struct {
	ID            int     `json:"id" yaml:"id"`
	Unit          int     `json:"unit" yaml:"unit"`
	Name          string  `json:"name" yaml:"name"`
	QualifiedName string  `json:"qualified_name" yaml:"qualified_name"`
	Parent        int     `json:"parent" yaml:"parent"`
	Children      []int   `json:"children,omitempty" yaml:"children,omitempty,flow"`
	Files         []file  `json:"files,omitempty" yaml:"files,omitempty"`
	Decls         []decl  `json:"declarations,omitempty" yaml:"declarations,omitempty"`
	Unparsed      bool    `json:"unparsed,omitempty" yaml:"unparsed,omitempty"`
	Issues        []issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

type file struct {
	Path string `json:"path" yaml:"path"`
	Hash string `json:"hash,omitempty" yaml:"hash,omitempty"`
}

type issue struct {
	Kind    string `json:"kind" yaml:"kind"`
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

type variable struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Const bool   `json:"const,omitempty" yaml:"const,omitempty"`
}

type method struct {
	Name  string `json:"name" yaml:"name"`
	Arity int    `json:"arity" yaml:"arity"`
}

// decl flattens the tagged payload; only the fields of the declaration's
// kind are set.
type decl struct {
	Name  string `json:"name" yaml:"name"`
	Kind  string `json:"kind" yaml:"kind"`
	File  string `json:"file" yaml:"file"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`

	Params     []string   `json:"params,omitempty" yaml:"params,omitempty,flow"`
	Variables  []variable `json:"variables,omitempty" yaml:"variables,omitempty"`
	Public     bool       `json:"public,omitempty" yaml:"public,omitempty"`
	Lines      int        `json:"lines,omitempty" yaml:"lines,omitempty"`
	Fields     []string   `json:"fields,omitempty" yaml:"fields,omitempty,flow"`
	Cases      []string   `json:"cases,omitempty" yaml:"cases,omitempty,flow"`
	Methods    []string   `json:"methods,omitempty" yaml:"methods,omitempty,flow"`
	Signatures []method   `json:"signatures,omitempty" yaml:"signatures,omitempty"`
}

func toDocument(g *project.Graph) document {
	doc := document{
		Version: FormatVersion,
		Name:    g.Name(),
		Root:    g.Root(),
		Issues:  toIssues(g.Issues()),
	}
	for _, u := range g.Units() {
		doc.Units = append(doc.Units, unit{
			Name:     u.Name,
			Version:  u.Version,
			Root:     u.Root,
			Manifest: u.Manifest,
			Roots:    ids(u.Roots),
		})
	}
	for _, ns := range g.Namespaces() {
		out := namespace{
			ID:            int(ns.ID),
			Unit:          ns.Unit,
			Name:          ns.Name,
			QualifiedName: ns.QualifiedName,
			Parent:        int(ns.Parent),
			Children:      ids(ns.Children),
			Unparsed:      ns.Unparsed,
			Issues:        toIssues(ns.Issues),
		}
		for _, f := range ns.Files {
			out.Files = append(out.Files, file{Path: f.Path, Hash: f.Hash})
		}
		for _, d := range ns.Decls {
			out.Decls = append(out.Decls, toDecl(d))
		}
		doc.Namespaces = append(doc.Namespaces, out)
	}
	return doc
}

func toDecl(d project.Declaration) decl {
	out := decl{
		Name:  d.Name,
		Kind:  d.Kind.String(),
		File:  d.Loc.File,
		Start: d.Loc.StartLine,
		End:   d.Loc.EndLine,
	}
	switch {
	case d.Function != nil:
		out.Params = d.Function.Params
		for _, v := range d.Function.Variables {
			out.Variables = append(out.Variables, variable{Name: v.Name, Type: v.Type, Const: v.Const})
		}
		out.Public = d.Function.Public
		out.Lines = d.Function.Lines
	case d.Aggregate != nil:
		out.Fields = d.Aggregate.Fields
		out.Methods = d.Aggregate.Methods
	case d.Contract != nil:
		for _, m := range d.Contract.Methods {
			out.Signatures = append(out.Signatures, method{Name: m.Name, Arity: m.Arity})
		}
	case d.Variant != nil:
		out.Cases = d.Variant.Cases
		out.Methods = d.Variant.Methods
	}
	return out
}

func toIssues(in []project.Issue) []issue {
	var out []issue
	for _, is := range in {
		out = append(out, issue{Kind: string(is.Kind), Path: is.Path, Message: is.Message})
	}
	return out
}

func ids(in []project.NamespaceID) []int {
	var out []int
	for _, id := range in {
		out = append(out, int(id))
	}
	return out
}

// graph rebuilds and validates the frozen graph.
func (doc document) graph() (*project.Graph, error) {
	units := make([]project.Unit, len(doc.Units))
	for i, u := range doc.Units {
		units[i] = project.Unit{
			Name:     u.Name,
			Version:  u.Version,
			Root:     u.Root,
			Manifest: u.Manifest,
			Roots:    nsIDs(u.Roots),
		}
	}

	namespaces := make([]project.Namespace, len(doc.Namespaces))
	for i, ns := range doc.Namespaces {
		out := project.Namespace{
			ID:            project.NamespaceID(ns.ID),
			Unit:          ns.Unit,
			Name:          ns.Name,
			QualifiedName: ns.QualifiedName,
			Parent:        project.NamespaceID(ns.Parent),
			Children:      nsIDs(ns.Children),
			Unparsed:      ns.Unparsed,
			Issues:        fromIssues(ns.Issues),
		}
		for _, f := range ns.Files {
			out.Files = append(out.Files, project.SourceFile{Path: f.Path, Hash: f.Hash})
		}
		for _, d := range ns.Decls {
			pd, err := fromDecl(d)
			if err != nil {
				return nil, err
			}
			out.Decls = append(out.Decls, pd)
		}
		namespaces[i] = out
	}

	return project.Restore(doc.Name, doc.Root, units, namespaces, fromIssues(doc.Issues))
}

func fromDecl(d decl) (project.Declaration, error) {
	kind, err := project.ParseKind(d.Kind)
	if err != nil {
		return project.Declaration{}, err
	}
	out := project.Declaration{
		Name: d.Name,
		Kind: kind,
		Loc:  project.Location{File: d.File, StartLine: d.Start, EndLine: d.End},
	}
	switch kind {
	case project.KindFunction:
		f := &project.Function{Params: d.Params, Public: d.Public, Lines: d.Lines}
		for _, v := range d.Variables {
			f.Variables = append(f.Variables, project.Variable{Name: v.Name, Type: v.Type, Const: v.Const})
		}
		out.Function = f
	case project.KindAggregate:
		out.Aggregate = &project.Aggregate{Fields: d.Fields, Methods: d.Methods}
	case project.KindContract:
		c := &project.Contract{}
		for _, m := range d.Signatures {
			c.Methods = append(c.Methods, project.Method{Name: m.Name, Arity: m.Arity})
		}
		out.Contract = c
	case project.KindVariant:
		out.Variant = &project.Variant{Cases: d.Cases, Methods: d.Methods}
	}
	return out, nil
}

func fromIssues(in []issue) []project.Issue {
	var out []project.Issue
	for _, is := range in {
		out = append(out, project.Issue{Kind: project.IssueKind(is.Kind), Path: is.Path, Message: is.Message})
	}
	return out
}

func nsIDs(in []int) []project.NamespaceID {
	var out []project.NamespaceID
	for _, id := range in {
		out = append(out, project.NamespaceID(id))
	}
	return out
}
