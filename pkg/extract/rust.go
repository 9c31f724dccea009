package extract

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/matzehuels/furnace/pkg/project"
)

// Rust extracts declarations from Rust source using tree-sitter.
//
// Functions, structs, unions, enums and traits are collected at file scope
// and inside inline `mod` blocks. Methods from `impl` blocks are attached
// to the struct or enum of the same scope they target. Items nested inside
// function bodies are ignored. A file whose syntax tree contains an error
// node fails as a whole with an [*Error] pointing at the first one.
type Rust struct{}

// NewRust returns the Rust extractor.
func NewRust() *Rust { return &Rust{} }

// Extract parses src and returns its declarations. A fresh parser is used
// per call, so one Rust value may be shared between goroutines.
func (r *Rust) Extract(ctx context.Context, path string, src []byte) (*Result, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return &Result{}, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &Error{Path: path, Msg: "parse failed: " + err.Error()}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(path, root, src)
	}

	decls, mods := r.scope(root, src, path)
	return &Result{Decls: decls, Modules: mods}, nil
}

func (r *Rust) scope(node *sitter.Node, src []byte, path string) ([]project.Declaration, []Module) {
	var (
		decls []project.Declaration
		mods  []Module
		impls = make(map[string][]string)
	)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_item":
			name := fieldContent(child, "name", src)
			if name == "" {
				continue
			}
			fn := project.NewFunction(name, location(child, path), params(child, src), hasVisibility(child))
			fn.Function.Variables = variables(child, src)
			decls = append(decls, fn)
		case "struct_item", "union_item":
			name := fieldContent(child, "name", src)
			if name == "" {
				continue
			}
			decls = append(decls, project.NewAggregate(name, location(child, path), fields(child, src)))
		case "enum_item":
			name := fieldContent(child, "name", src)
			if name == "" {
				continue
			}
			decls = append(decls, project.NewVariant(name, location(child, path), cases(child, src)))
		case "trait_item":
			name := fieldContent(child, "name", src)
			if name == "" {
				continue
			}
			decls = append(decls, project.NewContract(name, location(child, path), signatures(child, src)))
		case "impl_item":
			target := implTarget(child.ChildByFieldName("type"), src)
			if target == "" {
				continue
			}
			impls[target] = append(impls[target], implMethods(child, src)...)
		case "mod_item":
			body := child.ChildByFieldName("body")
			name := fieldContent(child, "name", src)
			if body == nil || name == "" {
				// `mod name;` declares a file module, which the builder finds on disk.
				continue
			}
			d, m := r.scope(body, src, path)
			mods = append(mods, Module{Name: name, Decls: d, Modules: m})
		}
	}

	for i := range decls {
		methods := impls[decls[i].Name]
		if len(methods) == 0 {
			continue
		}
		switch {
		case decls[i].Aggregate != nil:
			decls[i].Aggregate.Methods = append(decls[i].Aggregate.Methods, methods...)
		case decls[i].Variant != nil:
			decls[i].Variant.Methods = append(decls[i].Variant.Methods, methods...)
		}
	}
	return decls, mods
}

func location(n *sitter.Node, path string) project.Location {
	return project.Location{
		File:      path,
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
	}
}

func fieldContent(n *sitter.Node, field string, src []byte) string {
	c := n.ChildByFieldName(field)
	if c == nil {
		return ""
	}
	return c.Content(src)
}

func hasVisibility(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "visibility_modifier" {
			return true
		}
	}
	return false
}

// params returns the parameter names of a function item or signature.
// Receivers are skipped.
func params(fn *sitter.Node, src []byte) []string {
	list := fn.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		if p.Type() != "parameter" {
			continue
		}
		name := strings.TrimPrefix(fieldContent(p, "pattern", src), "mut ")
		if name == "" {
			name = "_"
		}
		out = append(out, name)
	}
	return out
}

// variables returns the bindings at the top level of a function body:
// `let` statements binding a single identifier, and local const and static
// items. Destructuring patterns and nested blocks are skipped.
func variables(fn *sitter.Node, src []byte) []project.Variable {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []project.Variable
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		switch stmt.Type() {
		case "let_declaration":
			name := bindingName(stmt.ChildByFieldName("pattern"), src)
			if name == "" {
				continue
			}
			out = append(out, project.Variable{Name: name, Type: fieldContent(stmt, "type", src)})
		case "const_item", "static_item":
			name := fieldContent(stmt, "name", src)
			if name == "" {
				continue
			}
			out = append(out, project.Variable{Name: name, Type: fieldContent(stmt, "type", src), Const: true})
		}
	}
	return out
}

// bindingName unwraps `mut x`, `ref x` and `ref mut x` down to the
// identifier. Other patterns bind no single name.
func bindingName(pat *sitter.Node, src []byte) string {
	for pat != nil {
		switch pat.Type() {
		case "identifier":
			return pat.Content(src)
		case "mut_pattern", "ref_pattern":
			if pat.NamedChildCount() == 0 {
				return ""
			}
			pat = pat.NamedChild(int(pat.NamedChildCount()) - 1)
		default:
			return ""
		}
	}
	return ""
}

func fields(item *sitter.Node, src []byte) []string {
	body := item.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []string
	switch body.Type() {
	case "field_declaration_list":
		for i := 0; i < int(body.NamedChildCount()); i++ {
			f := body.NamedChild(i)
			if f.Type() != "field_declaration" {
				continue
			}
			if name := fieldContent(f, "name", src); name != "" {
				out = append(out, name)
			}
		}
	case "ordered_field_declaration_list":
		for i := 0; i < int(body.NamedChildCount()); i++ {
			switch body.NamedChild(i).Type() {
			case "visibility_modifier", "attribute_item":
				continue
			}
			out = append(out, strconv.Itoa(len(out)))
		}
	}
	return out
}

func cases(item *sitter.Node, src []byte) []string {
	body := item.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(body.NamedChildCount()); i++ {
		v := body.NamedChild(i)
		if v.Type() != "enum_variant" {
			continue
		}
		if name := fieldContent(v, "name", src); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func signatures(item *sitter.Node, src []byte) []project.Method {
	body := item.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []project.Method
	for i := 0; i < int(body.NamedChildCount()); i++ {
		m := body.NamedChild(i)
		switch m.Type() {
		case "function_signature_item", "function_item":
			name := fieldContent(m, "name", src)
			if name == "" {
				continue
			}
			out = append(out, project.Method{Name: name, Arity: len(params(m, src))})
		}
	}
	return out
}

func implMethods(item *sitter.Node, src []byte) []string {
	body := item.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(body.NamedChildCount()); i++ {
		m := body.NamedChild(i)
		if m.Type() != "function_item" {
			continue
		}
		if name := fieldContent(m, "name", src); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// implTarget resolves the bare type name an impl block targets:
// `Foo`, `Foo<T>` and `a::b::Foo` all yield "Foo".
func implTarget(t *sitter.Node, src []byte) string {
	if t == nil {
		return ""
	}
	switch t.Type() {
	case "type_identifier":
		return t.Content(src)
	case "generic_type":
		return implTarget(t.ChildByFieldName("type"), src)
	case "scoped_type_identifier":
		return implTarget(t.ChildByFieldName("name"), src)
	}
	return ""
}

func syntaxError(path string, root *sitter.Node, src []byte) *Error {
	n := firstErrorNode(root, 0)
	if n == nil {
		return &Error{Path: path, Msg: "syntax error"}
	}
	msg := "syntax error"
	if n.IsMissing() {
		msg = "missing " + n.Type()
	} else if text := strings.TrimSpace(n.Content(src)); text != "" && len(text) <= 40 {
		msg = "unexpected " + strconv.Quote(text)
	}
	p := n.StartPoint()
	return &Error{Path: path, Line: int(p.Row) + 1, Column: int(p.Column) + 1, Msg: msg}
}

func firstErrorNode(n *sitter.Node, depth int) *sitter.Node {
	if n == nil || depth > 1000 {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstErrorNode(n.Child(i), depth+1); found != nil {
			return found
		}
	}
	return nil
}
