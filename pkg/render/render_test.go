package render

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/furnace/pkg/project"
	"github.com/matzehuels/furnace/pkg/style"
)

func at(file string, start, end int) project.Location {
	return project.Location{File: file, StartLine: start, EndLine: end}
}

// utilGraph is a unit with one namespace "util" holding add(a, b) and
// Point{x, y}.
func utilGraph(t *testing.T) *project.Graph {
	t.Helper()
	a := project.NewAssembler("demo", "/demo")
	u, _ := a.AddUnit(project.Unit{Name: "demo", Version: "0.1.0"})
	id, _ := a.Namespace(u, []string{"util"})
	_ = a.AddFile(id, project.SourceFile{Path: "src/util.rs"})
	add := project.NewFunction("add", at("src/util.rs", 1, 3), []string{"a", "b"}, true)
	add.Function.Variables = []project.Variable{{Name: "sum", Type: "i32"}, {Name: "LIMIT", Const: true}}
	if err := a.AddDeclarations(id,
		add,
		project.NewAggregate("Point", at("src/util.rs", 5, 8), []string{"x", "y"}),
	); err != nil {
		t.Fatal(err)
	}
	return a.Freeze()
}

// richGraph exercises every kind, nesting, an unparsed namespace, an empty
// namespace and a graph-level issue across two units.
func richGraph(t *testing.T) *project.Graph {
	t.Helper()
	a := project.NewAssembler("ws", "/ws")
	u1, _ := a.AddUnit(project.Unit{Name: "core", Version: "1.0.0", Root: "core"})
	u2, _ := a.AddUnit(project.Unit{Name: "cli", Version: "0.2.0", Root: "cli"})

	root, _ := a.Namespace(u1, []string{"crate"})
	net, _ := a.Namespace(u1, []string{"crate", "net"})
	bad, _ := a.Namespace(u1, []string{"crate", "bad"})
	_, _ = a.Namespace(u1, []string{"crate", "empty"})
	main, _ := a.Namespace(u2, []string{"crate"})

	shape := project.NewVariant("Shape", at("src/lib.rs", 10, 14), []string{"Circle", "Square"})
	shape.Variant.Methods = []string{"area"}
	_ = a.AddDeclarations(root,
		project.NewAggregate("Config", at("src/lib.rs", 1, 4), []string{"name", "port"}),
		shape,
		project.NewContract("Area", at("src/lib.rs", 16, 18), []project.Method{{Name: "area", Arity: 0}}),
	)
	_ = a.AddDeclarations(net, project.NewFunction("connect", at("src/net.rs", 1, 9), []string{"addr", "timeout"}, false))
	_ = a.MarkUnparsed(bad, project.Issue{Kind: project.IssueExtraction, Path: "src/bad.rs", Message: "src/bad.rs:3:1: missing }"})
	_ = a.AddDeclarations(main, project.NewFunction("main", at("src/main.rs", 1, 1), nil, false))
	_ = a.AddIssue(project.Issue{Kind: project.IssueIO, Path: "core/locked", Message: "open: permission denied"})
	return a.Freeze()
}

func lineIndex(lines []string, substr string) int {
	for i, l := range lines {
		if strings.Contains(l, substr) {
			return i
		}
	}
	return -1
}

func indent(s string) int { return len(s) - len(strings.TrimLeft(s, " |`-")) }

func TestTreeMinimalAndVerbose(t *testing.T) {
	g := utilGraph(t)

	minimal := string(Render(g, style.Selection{Layout: style.LayoutTree, Detail: style.DetailMinimal, Color: style.ColorNone, Symbols: style.SymbolsASCII}))
	lines := strings.Split(strings.TrimRight(minimal, "\n"), "\n")
	util := lineIndex(lines, "util")
	add := lineIndex(lines, "add")
	point := lineIndex(lines, "Point")
	if util < 0 || add != util+1 || point != util+2 {
		t.Fatalf("unexpected tree:\n%s", minimal)
	}
	if indent(lines[add]) <= indent(lines[util]) || indent(lines[point]) <= indent(lines[util]) {
		t.Errorf("declarations not nested under util:\n%s", minimal)
	}
	declLines := lines[util+1:]
	if len(declLines) != 2 {
		t.Errorf("want exactly two declaration lines, got %q", declLines)
	}
	for _, hidden := range []string{"a, b", "x, y", "src/util.rs", "function", "sum"} {
		if strings.Contains(minimal, hidden) {
			t.Errorf("minimal output contains %q:\n%s", hidden, minimal)
		}
	}

	verbose := string(Render(g, style.Selection{Layout: style.LayoutTree, Detail: style.DetailVerbose, Color: style.ColorNone, Symbols: style.SymbolsASCII}))
	for _, want := range []string{"params: a, b, vars: sum, LIMIT", "fields: x, y", "add", "Point"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("verbose output missing %q:\n%s", want, verbose)
		}
	}
	standard := string(Render(g, style.Selection{Layout: style.LayoutTree, Detail: style.DetailStandard, Color: style.ColorNone, Symbols: style.SymbolsASCII}))
	if strings.Contains(standard, "vars") {
		t.Errorf("standard output lists variables:\n%s", standard)
	}
}

// Every one of the 108 selections renders every graph.
func TestAllSelectionsRender(t *testing.T) {
	g := richGraph(t)
	for _, sel := range style.All() {
		t.Run(sel.String(), func(t *testing.T) {
			out := string(Render(g, sel))
			for _, name := range []string{"core", "cli", "Config", "Shape", "Area", "connect", "main"} {
				if !strings.Contains(out, name) {
					t.Errorf("output missing %q", name)
				}
			}
			if !strings.Contains(out, "missing }") {
				t.Error("unparsed placeholder missing error text")
			}
			if !strings.Contains(out, "permission denied") {
				t.Error("graph issue missing")
			}
			if again := string(Render(g, sel)); again != out {
				t.Error("rendering is not deterministic")
			}
		})
	}
}

func TestColorAxis(t *testing.T) {
	g := richGraph(t)
	base := style.Selection{Layout: style.LayoutPlain, Detail: style.DetailStandard, Symbols: style.SymbolsNone}

	base.Color = style.ColorNone
	if out := Render(g, base); bytes.Contains(out, []byte("\x1b[")) {
		t.Errorf("color none emitted ANSI escapes:\n%s", out)
	}

	base.Color = style.ColorStandard
	if out := Render(g, base); !bytes.Contains(out, []byte("\x1b[")) {
		t.Errorf("color standard emitted no ANSI escapes:\n%s", out)
	}

	base.Color = style.ColorBadges
	out := string(Render(g, base))
	for _, badge := range []string{"🟩 connect", "🟦 Config", "🟪 Area", "🟨 Shape", "🟥 unparsed"} {
		if !strings.Contains(out, badge) {
			t.Errorf("badges output missing %q:\n%s", badge, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("badges emitted ANSI escapes")
	}
}

func TestSymbolsAxis(t *testing.T) {
	g := richGraph(t)
	sel := style.Selection{Layout: style.LayoutTree, Detail: style.DetailMinimal, Color: style.ColorNone}

	sel.Symbols = style.SymbolsNone
	none := string(Render(g, sel))
	for _, glyph := range []string{"[fn]", "├", "|--", "🔧"} {
		if strings.Contains(none, glyph) {
			t.Errorf("symbols none contains %q:\n%s", glyph, none)
		}
	}

	sel.Symbols = style.SymbolsASCII
	ascii := string(Render(g, sel))
	for _, glyph := range []string{"[fn] connect", "[struct] Config", "[trait] Area", "[enum] Shape", "[mod] net", "[crate] core", "[!] unparsed", "|-- ", "`-- "} {
		if !strings.Contains(ascii, glyph) {
			t.Errorf("symbols ascii missing %q:\n%s", glyph, ascii)
		}
	}

	sel.Symbols = style.SymbolsUnicode
	uni := string(Render(g, sel))
	for _, glyph := range []string{"🔧 connect", "🧱 Config", "📜 Area", "🧩 Shape", "📄 net", "📦 core", "🚫 unparsed", "├── ", "└── ", "│   "} {
		if !strings.Contains(uni, glyph) {
			t.Errorf("symbols unicode missing %q:\n%s", glyph, uni)
		}
	}
}

func TestLayoutAxis(t *testing.T) {
	g := richGraph(t)
	sel := style.Selection{Detail: style.DetailStandard, Color: style.ColorNone, Symbols: style.SymbolsASCII}

	sel.Layout = style.LayoutPlain
	plain := string(Render(g, sel))
	if !strings.Contains(plain, "[mod] crate::net\n") {
		t.Errorf("plain layout should use qualified headers:\n%s", plain)
	}

	sel.Layout = style.LayoutCompact
	compact := string(Render(g, sel))
	if !strings.Contains(compact, "[mod] core/crate::net: [fn] connect (function, src/net.rs:1-9)\n") {
		t.Errorf("compact line missing:\n%s", compact)
	}
	if !strings.Contains(compact, "core/crate::empty: -\n") {
		t.Errorf("compact empty namespace missing:\n%s", compact)
	}

	sel.Layout = style.LayoutGrid
	grid := string(Render(g, sel))
	for _, want := range []string{"name", "kind", "location", "+", "src/net.rs:1-9"} {
		if !strings.Contains(grid, want) {
			t.Errorf("grid output missing %q:\n%s", want, grid)
		}
	}

	sel.Detail = style.DetailVerbose
	verbose := string(Render(g, sel))
	for _, want := range []string{"members", "visibility", "addr, timeout", "private", "Circle, Square"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("verbose grid missing %q:\n%s", want, verbose)
		}
	}
}

func TestRenderEmptyGraph(t *testing.T) {
	g := project.NewAssembler("nothing", "/x").Freeze()
	for _, sel := range style.All() {
		out := string(Render(g, sel))
		if !strings.Contains(out, "nothing") || !strings.Contains(out, "(no units)") {
			t.Fatalf("%v: empty graph output = %q", sel, out)
		}
	}
}

func TestRenderNamespace(t *testing.T) {
	g := richGraph(t)
	net, _ := g.Lookup(0, "crate::net")
	sel := style.Selection{Layout: style.LayoutTree, Detail: style.DetailMinimal, Color: style.ColorNone, Symbols: style.SymbolsASCII}
	out := string(New(sel).Namespace(g, net.ID))
	if !strings.Contains(out, "connect") || strings.Contains(out, "Config") || strings.Contains(out, "main") {
		t.Errorf("subtree render leaked other namespaces:\n%s", out)
	}
}

func TestRenderConcurrent(t *testing.T) {
	g := richGraph(t)
	want := string(Render(g, style.Default))
	r := New(style.Default)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := string(r.Graph(g)); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent render differs:\n%s", got)
	}
}
