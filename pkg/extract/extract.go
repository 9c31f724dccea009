// Package extract derives declarations from a single source file.
//
// An [Extractor] is a pure per-file capability: it receives the file path
// (relative to its unit root) and its content, and returns the declarations
// found at file scope plus any inline module blocks. It never touches the
// filesystem and holds no state between calls, so the graph builder runs it
// concurrently on a worker pool.
//
// [Rust] is the tree-sitter based implementation for `.rs` files.
package extract

import (
	"context"
	"fmt"

	"github.com/matzehuels/furnace/pkg/project"
)

// Extractor turns one file into declarations.
type Extractor interface {
	Extract(ctx context.Context, path string, src []byte) (*Result, error)
}

// Func adapts a function to the [Extractor] interface.
type Func func(ctx context.Context, path string, src []byte) (*Result, error)

// Extract calls f.
func (f Func) Extract(ctx context.Context, path string, src []byte) (*Result, error) {
	return f(ctx, path, src)
}

// Result is everything extracted from one file.
type Result struct {
	Decls   []project.Declaration
	Modules []Module
}

// Module is an inline `mod name { ... }` block. It becomes a child namespace
// of the namespace the file maps to.
type Module struct {
	Name    string
	Decls   []project.Declaration
	Modules []Module
}

// Count returns the number of declarations including nested modules.
func (r *Result) Count() int {
	if r == nil {
		return 0
	}
	n := len(r.Decls)
	for _, m := range r.Modules {
		n += m.count()
	}
	return n
}

func (m Module) count() int {
	n := len(m.Decls)
	for _, c := range m.Modules {
		n += c.count()
	}
	return n
}

// Error reports a file that could not be turned into declarations.
// Line and Column are 1-based; zero means unknown.
type Error struct {
	Path   string
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}
