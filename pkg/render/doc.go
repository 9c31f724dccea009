// Package render turns a frozen project graph into a textual artifact.
//
// # Axes
//
// A [Renderer] composes four independent strategies chosen by a
// [style.Selection]:
//
//   - Layout arranges namespaces: plain headers, a branch tree, one table
//     per namespace (grid), or one dense line per namespace (compact).
//   - Detail decides what each declaration line carries: the name only,
//     name with kind and location, or everything the extractor found.
//   - Color paints names: not at all, with ANSI colors, or with one emoji
//     badge per declaration kind.
//   - Symbols picks the glyphs for kind tags and tree branches.
//
// Layouts only ask the other strategies for strings; no layout knows which
// detail, color or symbol strategy is active. Every one of the 108
// combinations renders every graph.
//
// # Determinism
//
// Colors are produced by a lipgloss renderer pinned to the 256-color
// profile, so artifacts do not depend on the terminal the process runs in.
// Rendering the same graph with the same selection yields identical bytes.
//
// # Failures
//
// Rendering never fails. Namespaces whose files could not be analyzed show
// a placeholder line with the recorded error text, and graph-level issues
// are listed after the body.
//
// Graphviz export lives in the [nodelink] subpackage.
//
// [nodelink]: github.com/matzehuels/furnace/pkg/render/nodelink
package render
