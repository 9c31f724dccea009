// Package nodelink renders project graphs as node-link diagrams.
//
// # Overview
//
// Each unit becomes a Graphviz cluster, each namespace a box, and each
// namespace nesting an arrow from parent to child. It complements the text
// layouts of the parent [render] package when a picture of the module
// hierarchy is easier to read than a listing.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels list the namespace's declarations and, for
//     unparsed namespaces, the extraction error.
//
// # Dependencies
//
// SVG rendering runs in-process through [github.com/goccy/go-graphviz]; no
// external dot binary is needed.
package nodelink
