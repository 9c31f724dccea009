package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/furnace/pkg/project"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed lists the declarations of each namespace in its node label.
	// When false, only the namespace name is shown.
	Detailed bool
}

// ToDOT converts a project graph to Graphviz DOT format. Each unit becomes
// a cluster, each namespace a node, and each parent/child relation an edge.
// The result can be rendered with [RenderSVG].
//
// Unparsed namespaces are drawn with dashed outlines and a red fill.
func ToDOT(g *project.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for ui, u := range g.Units() {
		fmt.Fprintf(&buf, "\n  subgraph \"cluster_%d\" {\n", ui)
		fmt.Fprintf(&buf, "    label=%q;\n", unitLabel(u))
		for _, ns := range g.Namespaces() {
			if ns.Unit != ui {
				continue
			}
			fmt.Fprintf(&buf, "    %q [%s];\n", nodeID(ns), strings.Join(fmtAttrs(ns, fmtLabel(ns, opts.Detailed)), ", "))
		}
		buf.WriteString("  }\n")
	}

	edges := false
	for _, ns := range g.Namespaces() {
		for _, c := range ns.Children {
			if !edges {
				buf.WriteString("\n")
				edges = true
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(ns), nodeID(g.Namespace(c)))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeID is unique across units since qualified names only repeat between
// units.
func nodeID(ns project.Namespace) string {
	return fmt.Sprintf("%d/%s", ns.Unit, ns.QualifiedName)
}

func unitLabel(u project.Unit) string {
	if u.Version == "" {
		return u.Name
	}
	return u.Name + " " + u.Version
}

func fmtLabel(ns project.Namespace, detailed bool) string {
	if !detailed {
		return ns.Name
	}

	parts := make([]string, 0, len(ns.Decls)+1)
	if ns.Unparsed {
		parts = append(parts, "unparsed: "+ns.ErrorText())
	}
	for _, d := range ns.Decls {
		parts = append(parts, fmt.Sprintf("%s %s", d.Kind, d.Name))
	}
	if len(parts) == 0 {
		return ns.QualifiedName
	}
	return ns.QualifiedName + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(ns project.Namespace, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if ns.Unparsed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=\"#f4cccc\"", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one whose viewBox starts
// at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
