package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/furnace/pkg/project"
	"github.com/matzehuels/furnace/pkg/style"
)

// Renderer renders graphs for one selection. It holds no per-graph state
// and may be shared between goroutines.
type Renderer struct {
	sel   style.Selection
	paint painter
	glyph glyphs
}

// New returns a renderer for sel.
func New(sel style.Selection) *Renderer {
	return &Renderer{
		sel:   sel,
		paint: newPainter(sel.Color),
		glyph: glyphsFor(sel.Symbols),
	}
}

// Render renders the whole graph with sel.
func Render(g *project.Graph, sel style.Selection) []byte {
	return New(sel).Graph(g)
}

// Selection returns the selection the renderer was built for.
func (r *Renderer) Selection() style.Selection { return r.sel }

// scope is one unit and the namespace roots to render below it.
type scope struct {
	unit  project.Unit
	roots []project.NamespaceID
}

// Graph renders every unit of g.
func (r *Renderer) Graph(g *project.Graph) []byte {
	var b bytes.Buffer
	if g.Empty() {
		fmt.Fprintf(&b, "%s %s\n", r.paint.unit(g.Name()), r.paint.dim("(no units)"))
	} else {
		scopes := make([]scope, 0, g.UnitCount())
		for _, u := range g.Units() {
			scopes = append(scopes, scope{unit: u, roots: u.Roots})
		}
		r.layout(&b, g, scopes)
	}
	r.issues(&b, g.Issues())
	return b.Bytes()
}

// Namespace renders the subtree rooted at id below its unit header.
func (r *Renderer) Namespace(g *project.Graph, id project.NamespaceID) []byte {
	var b bytes.Buffer
	ns := g.Namespace(id)
	r.layout(&b, g, []scope{{unit: g.Unit(ns.Unit), roots: []project.NamespaceID{id}}})
	return b.Bytes()
}

func (r *Renderer) layout(b *bytes.Buffer, g *project.Graph, scopes []scope) {
	switch r.sel.Layout {
	case style.LayoutPlain:
		r.plain(b, g, scopes)
	case style.LayoutTree:
		r.tree(b, g, scopes)
	case style.LayoutGrid:
		r.grid(b, g, scopes)
	case style.LayoutCompact:
		r.compact(b, g, scopes)
	default:
		r.plain(b, g, scopes)
	}
}

// =============================================================================
// Labels
// =============================================================================

func (r *Renderer) unitLabel(u project.Unit) string {
	s := r.glyph.unit + r.paint.unit(u.Name)
	if u.Version != "" {
		s += " " + r.paint.dim(u.Version)
	}
	return s
}

func (r *Renderer) namespaceLabel(name string) string {
	return r.glyph.namespace + r.paint.namespace(name)
}

func (r *Renderer) declLabel(d project.Declaration) string {
	s := r.glyph.tag(d.Kind) + r.paint.decl(d.Kind, d.Name)
	if attrs := inlineAttrs(describe(d, r.sel.Detail)); attrs != "" {
		s += " " + r.paint.dim("("+attrs+")")
	}
	return s
}

func (r *Renderer) unparsedLabel(ns project.Namespace) string {
	msg := "unparsed"
	if text := ns.ErrorText(); text != "" {
		msg += ": " + text
	}
	return r.glyph.unparsed + r.paint.failure(msg)
}

// entries lists what appears below a namespace: the unparsed placeholder,
// then declarations. Child namespaces follow in tree layouts.
func (r *Renderer) entries(ns project.Namespace) []string {
	out := make([]string, 0, len(ns.Decls)+1)
	if ns.Unparsed {
		out = append(out, r.unparsedLabel(ns))
	}
	for _, d := range ns.Decls {
		out = append(out, r.declLabel(d))
	}
	return out
}

func (r *Renderer) issues(b *bytes.Buffer, issues []project.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(b, r.paint.dim("issues:"))
	for _, is := range issues {
		msg := fmt.Sprintf("%s %s: %s", is.Kind, is.Path, is.Message)
		fmt.Fprintf(b, "  %s%s\n", r.glyph.unparsed, r.paint.failure(msg))
	}
}

// =============================================================================
// Layouts
// =============================================================================

// plain prints qualified namespace headers with declarations indented
// below them.
func (r *Renderer) plain(b *bytes.Buffer, g *project.Graph, scopes []scope) {
	for _, sc := range scopes {
		fmt.Fprintln(b, r.unitLabel(sc.unit))
		for _, id := range sc.roots {
			g.WalkFrom(id, func(_ project.Unit, ns project.Namespace, _ int) bool {
				fmt.Fprintf(b, "  %s\n", r.namespaceLabel(ns.QualifiedName))
				for _, e := range r.entries(ns) {
					fmt.Fprintf(b, "    %s\n", e)
				}
				return true
			})
		}
	}
}

// tree prints each unit as the root of a branch tree. Declarations come
// before child namespaces.
func (r *Renderer) tree(b *bytes.Buffer, g *project.Graph, scopes []scope) {
	for _, sc := range scopes {
		fmt.Fprintln(b, r.unitLabel(sc.unit))
		for i, id := range sc.roots {
			r.treeNode(b, g, id, "", i == len(sc.roots)-1)
		}
	}
}

func (r *Renderer) treeNode(b *bytes.Buffer, g *project.Graph, id project.NamespaceID, prefix string, last bool) {
	ns := g.Namespace(id)
	fmt.Fprintf(b, "%s%s%s\n", prefix, r.glyph.branch(last), r.namespaceLabel(ns.Name))

	inner := prefix + r.glyph.indent(last)
	lines := r.entries(ns)
	total := len(lines) + len(ns.Children)
	for i, line := range lines {
		fmt.Fprintf(b, "%s%s%s\n", inner, r.glyph.branch(i == total-1), line)
	}
	for i, c := range ns.Children {
		r.treeNode(b, g, c, inner, len(lines)+i == total-1)
	}
}

// grid prints one table per namespace with one row per declaration.
func (r *Renderer) grid(b *bytes.Buffer, g *project.Graph, scopes []scope) {
	headers := columns(r.sel.Detail)
	for i, h := range headers {
		headers[i] = r.paint.columnHeader(h)
	}

	for _, sc := range scopes {
		fmt.Fprintln(b, r.unitLabel(sc.unit))
		for _, id := range sc.roots {
			g.WalkFrom(id, func(_ project.Unit, ns project.Namespace, _ int) bool {
				fmt.Fprintln(b, r.namespaceLabel(ns.QualifiedName))
				if ns.Unparsed {
					fmt.Fprintf(b, "  %s\n", r.unparsedLabel(ns))
				}
				if len(ns.Decls) == 0 {
					return true
				}
				rows := make([][]string, len(ns.Decls))
				for i, d := range ns.Decls {
					row := []string{r.glyph.tag(d.Kind) + r.paint.decl(d.Kind, d.Name)}
					for _, a := range describe(d, r.sel.Detail) {
						row = append(row, a.value)
					}
					rows[i] = row
				}
				t := table.New().
					Border(r.glyph.border).
					BorderStyle(r.paint.plain).
					Headers(headers...).
					Rows(rows...).
					StyleFunc(func(_, _ int) lipgloss.Style {
						return r.paint.plain.Padding(0, 1)
					})
				fmt.Fprintln(b, t.Render())
				return true
			})
		}
	}
}

// compact prints one line per namespace: unit/qualified name followed by
// its entries.
func (r *Renderer) compact(b *bytes.Buffer, g *project.Graph, scopes []scope) {
	for _, sc := range scopes {
		for _, id := range sc.roots {
			g.WalkFrom(id, func(u project.Unit, ns project.Namespace, _ int) bool {
				head := r.glyph.namespace + r.paint.unit(u.Name) + "/" + r.paint.namespace(ns.QualifiedName)
				body := strings.Join(r.entries(ns), "; ")
				if body == "" {
					body = r.paint.dim("-")
				}
				fmt.Fprintf(b, "%s: %s\n", head, body)
				return true
			})
		}
	}
}
