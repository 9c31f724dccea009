package project

import (
	"errors"
	"strings"
	"testing"
)

func loc(file string, start, end int) Location {
	return Location{File: file, StartLine: start, EndLine: end}
}

func buildSample(t *testing.T) *Graph {
	t.Helper()
	a := NewAssembler("sample", "/tmp/sample")
	u, err := a.AddUnit(Unit{Name: "core", Version: "0.1.0", Root: "."})
	if err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	root, _ := a.Namespace(u, []string{"crate"})
	util, _ := a.Namespace(u, []string{"crate", "util"})
	_ = a.AddFile(root, SourceFile{Path: "src/lib.rs"})
	_ = a.AddFile(util, SourceFile{Path: "src/util.rs"})
	if err := a.AddDeclarations(root,
		NewVariant("Mode", loc("src/lib.rs", 9, 12), []string{"Fast", "Slow"}),
		NewAggregate("Config", loc("src/lib.rs", 1, 4), []string{"name"}),
	); err != nil {
		t.Fatalf("AddDeclarations: %v", err)
	}
	if err := a.AddDeclarations(util, NewFunction("helper", loc("src/util.rs", 1, 3), []string{"x"}, true)); err != nil {
		t.Fatalf("AddDeclarations: %v", err)
	}
	return a.Freeze()
}

func TestAssemblerNamespaceTree(t *testing.T) {
	g := buildSample(t)

	if g.UnitCount() != 1 {
		t.Fatalf("units = %d, want 1", g.UnitCount())
	}
	u := g.Unit(0)
	if len(u.Roots) != 1 {
		t.Fatalf("unit roots = %v, want one", u.Roots)
	}
	root := g.Namespace(u.Roots[0])
	if root.QualifiedName != "crate" || !root.IsTopLevel() {
		t.Errorf("root = %+v", root)
	}
	kids := g.Children(root.ID)
	if len(kids) != 1 || kids[0].QualifiedName != "crate::util" {
		t.Fatalf("children = %+v", kids)
	}
	if kids[0].Parent != root.ID {
		t.Errorf("child parent = %d, want %d", kids[0].Parent, root.ID)
	}
	if got := kids[0].Path(); len(got) != 2 || got[1] != "util" {
		t.Errorf("Path() = %v", got)
	}
}

func TestAssemblerNamespaceReuse(t *testing.T) {
	a := NewAssembler("p", ".")
	u, _ := a.AddUnit(Unit{Name: "p"})
	first, err := a.Namespace(u, []string{"crate", "a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Namespace(u, []string{"crate", "a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Namespace returned %d then %d for the same path", first, second)
	}
	g := a.Freeze()
	if g.NamespaceCount() != 3 {
		t.Errorf("namespaces = %d, want 3 (crate, a, b)", g.NamespaceCount())
	}
}

func TestFreezeOrdersDeclarations(t *testing.T) {
	g := buildSample(t)
	ns, ok := g.Lookup(0, "crate")
	if !ok {
		t.Fatal("crate namespace missing")
	}
	var names []string
	for _, d := range ns.Decls {
		names = append(names, d.Name)
	}
	if got := strings.Join(names, ","); got != "Config,Mode" {
		t.Errorf("order = %s, want Config,Mode", got)
	}
}

func TestFreezeOrdersByFileThenLine(t *testing.T) {
	a := NewAssembler("p", ".")
	u, _ := a.AddUnit(Unit{Name: "p"})
	id, _ := a.Namespace(u, []string{"crate", "net"})
	_ = a.AddFile(id, SourceFile{Path: "src/net.rs"})
	_ = a.AddFile(id, SourceFile{Path: "src/net/mod.rs"})
	_ = a.AddDeclarations(id,
		NewFunction("late_second", loc("src/net/mod.rs", 1, 1), nil, false),
		NewFunction("b", loc("src/net.rs", 20, 21), nil, false),
		NewFunction("a", loc("src/net.rs", 2, 4), nil, false),
	)
	g := a.Freeze()
	decls := g.Namespace(id).Decls
	want := []string{"a", "b", "late_second"}
	for i, d := range decls {
		if d.Name != want[i] {
			t.Errorf("decls[%d] = %s, want %s", i, d.Name, want[i])
		}
	}
}

func TestAssemblerErrors(t *testing.T) {
	a := NewAssembler("p", ".")
	if _, err := a.AddUnit(Unit{}); !errors.Is(err, ErrEmptyUnitName) {
		t.Errorf("empty name: err = %v", err)
	}
	u, _ := a.AddUnit(Unit{Name: "one", Root: "crates/one"})
	if _, err := a.AddUnit(Unit{Name: "two", Root: "crates/one/"}); !errors.Is(err, ErrDuplicateUnitRoot) {
		t.Errorf("duplicate root: err = %v", err)
	}
	if _, err := a.Namespace(7, []string{"crate"}); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("unknown unit: err = %v", err)
	}
	if _, err := a.Namespace(u, nil); !errors.Is(err, ErrEmptyNamespacePath) {
		t.Errorf("empty path: err = %v", err)
	}
	if _, err := a.Namespace(u, []string{"crate", ""}); !errors.Is(err, ErrEmptyNamespacePath) {
		t.Errorf("empty segment: err = %v", err)
	}
	if err := a.AddFile(42, SourceFile{Path: "x.rs"}); !errors.Is(err, ErrUnknownNamespace) {
		t.Errorf("unknown namespace: err = %v", err)
	}
	id, _ := a.Namespace(u, []string{"crate"})
	bad := Declaration{Name: "x", Kind: KindFunction}
	if err := a.AddDeclarations(id, bad); !errors.Is(err, ErrPayloadMismatch) {
		t.Errorf("bad payload: err = %v", err)
	}
}

func TestAssemblerFrozen(t *testing.T) {
	a := NewAssembler("p", ".")
	u, _ := a.AddUnit(Unit{Name: "p"})
	id, _ := a.Namespace(u, []string{"crate"})
	g := a.Freeze()
	if a.Freeze() != g {
		t.Error("second Freeze returned a different graph")
	}

	checks := map[string]error{
		"AddUnit": func() error { _, err := a.AddUnit(Unit{Name: "q", Root: "q"}); return err }(),
		"Namespace": func() error {
			_, err := a.Namespace(u, []string{"crate", "new"})
			return err
		}(),
		"AddFile":         a.AddFile(id, SourceFile{Path: "src/lib.rs"}),
		"AddDeclarations": a.AddDeclarations(id, NewFunction("f", loc("src/lib.rs", 1, 1), nil, false)),
		"MarkUnparsed":    a.MarkUnparsed(id, Issue{Kind: IssueIO}),
		"AddIssue":        a.AddIssue(Issue{Kind: IssueManifest}),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrFrozen) {
			t.Errorf("%s after Freeze: err = %v, want ErrFrozen", name, err)
		}
	}
	if g.NamespaceCount() != 1 {
		t.Errorf("frozen graph changed: %d namespaces", g.NamespaceCount())
	}
}

func TestMarkUnparsed(t *testing.T) {
	a := NewAssembler("p", ".")
	u, _ := a.AddUnit(Unit{Name: "p"})
	id, _ := a.Namespace(u, []string{"crate", "broken"})
	_ = a.MarkUnparsed(id, Issue{Kind: IssueExtraction, Path: "src/broken.rs", Message: "syntax error at 3:1"})
	_ = a.MarkUnparsed(id, Issue{Kind: IssueIO, Path: "src/broken/mod.rs", Message: "permission denied"})
	ns := a.Freeze().Namespace(id)
	if !ns.Unparsed {
		t.Error("namespace not marked unparsed")
	}
	if got := ns.ErrorText(); got != "syntax error at 3:1; permission denied" {
		t.Errorf("ErrorText() = %q", got)
	}
}

func TestGraphWalk(t *testing.T) {
	a := NewAssembler("ws", ".")
	u1, _ := a.AddUnit(Unit{Name: "a", Root: "a"})
	u2, _ := a.AddUnit(Unit{Name: "b", Root: "b"})
	_, _ = a.Namespace(u1, []string{"crate", "x", "y"})
	_, _ = a.Namespace(u2, []string{"crate"})
	_, _ = a.Namespace(u1, []string{"tests", "it"})
	_, _ = a.Namespace(u1, []string{"crate", "z"})
	g := a.Freeze()

	var got []string
	g.Walk(func(u Unit, ns Namespace, depth int) bool {
		got = append(got, u.Name+":"+strings.Repeat(">", depth)+ns.QualifiedName)
		return true
	})
	want := []string{
		"a:crate", "a:>crate::x", "a:>>crate::x::y", "a:>crate::z",
		"a:tests", "a:>tests::it",
		"b:crate",
	}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("walk = %v\nwant   %v", got, want)
	}

	var pruned []string
	g.Walk(func(_ Unit, ns Namespace, _ int) bool {
		pruned = append(pruned, ns.QualifiedName)
		return ns.Name != "x"
	})
	for _, q := range pruned {
		if q == "crate::x::y" {
			t.Error("walk descended into a pruned subtree")
		}
	}
}

func TestGraphCounts(t *testing.T) {
	g := buildSample(t)
	c := g.Counts()
	if c.Units != 1 || c.Namespaces != 2 || c.Files != 2 || c.Declarations != 3 {
		t.Errorf("counts = %+v", c)
	}
	if c.ByKind[KindFunction] != 1 || c.ByKind[KindAggregate] != 1 || c.ByKind[KindVariant] != 1 {
		t.Errorf("by kind = %v", c.ByKind)
	}
}

func TestEmptyGraph(t *testing.T) {
	g := NewAssembler("empty", ".").Freeze()
	if !g.Empty() {
		t.Error("graph without units should be empty")
	}
	var zero Graph
	if !zero.Empty() {
		t.Error("zero graph should be empty")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	g := buildSample(t)

	util, _ := g.Lookup(0, "crate::util")
	util.Decls[0].Function.Params[0] = "changed"
	util.Decls[0].Name = "changed"
	util.Files[0].Path = "changed"

	all := g.Namespaces()
	all[0].Children[0] = 7
	all[0].Decls[1].Variant.Cases[0] = "changed"

	u := g.Unit(0)
	u.Roots[0] = 7

	g.Walk(func(_ Unit, ns Namespace, _ int) bool {
		if len(ns.Decls) > 0 {
			ns.Decls[0].Name = "changed"
		}
		return true
	})

	again, _ := g.Lookup(0, "crate::util")
	if d := again.Decls[0]; d.Name != "helper" || d.Function.Params[0] != "x" || again.Files[0].Path != "src/util.rs" {
		t.Errorf("util namespace was modified through a copy: %+v", again)
	}
	root := g.Namespace(0)
	if root.Children[0] != 1 || root.Decls[0].Name != "Config" || root.Decls[1].Variant.Cases[0] != "Fast" {
		t.Errorf("crate namespace was modified through a copy: %+v", root)
	}
	if g.Unit(0).Roots[0] != 0 {
		t.Error("unit roots were modified through a copy")
	}
}

func TestRestore(t *testing.T) {
	g := buildSample(t)
	back, err := Restore(g.Name(), g.Root(), g.Units(), g.Namespaces(), g.Issues())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if back.NamespaceCount() != g.NamespaceCount() || back.Name() != "sample" {
		t.Errorf("restored graph differs: %d namespaces", back.NamespaceCount())
	}

	tests := []struct {
		name   string
		mutate func(units []Unit, nss []Namespace) ([]Unit, []Namespace)
	}{
		{"BadID", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			n[1].ID = 5
			return u, n
		}},
		{"DanglingChild", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			n[0].Children = []NamespaceID{9}
			return u, n
		}},
		{"ParentMismatch", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			n[0].Children = nil
			return u, n
		}},
		{"UnlistedRoot", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			u[0].Roots = nil
			return u, n
		}},
		{"DuplicateName", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			n[1].QualifiedName = "crate"
			return u, n
		}},
		{"DuplicateUnitRoot", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			return append(u, Unit{Name: "dup", Root: "."}), n
		}},
		{"QualifiedNameMismatch", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			n[1].QualifiedName = "crate::other"
			return u, n
		}},
		{"TopLevelQualifiedName", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			n[0].QualifiedName = "lib"
			return u, n
		}},
		{"SeparatorInName", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			n[1].Name = "a::util"
			return u, n
		}},
		{"ChildInOtherUnit", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			n[1].Unit = 1
			return append(u, Unit{Name: "other", Root: "other"}), n
		}},
		{"DuplicateChild", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			n[0].Children = []NamespaceID{1, 1}
			return u, n
		}},
		{"DuplicateTopLevel", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			u[0].Roots = []NamespaceID{0, 0}
			return u, n
		}},
		{"BadDeclaration", func(u []Unit, n []Namespace) ([]Unit, []Namespace) {
			n[1].Decls = []Declaration{{Name: "f", Kind: KindFunction}}
			return u, n
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := buildSample(t)
			units, nss := tt.mutate(src.Units(), src.Namespaces())
			if _, err := Restore("x", ".", units, nss, nil); !errors.Is(err, ErrInvalidGraph) {
				t.Errorf("err = %v, want ErrInvalidGraph", err)
			}
		})
	}
}

func TestDeclarationValidate(t *testing.T) {
	tests := []struct {
		name string
		decl Declaration
		want error
	}{
		{"Function", NewFunction("f", loc("a.rs", 1, 2), nil, false), nil},
		{"Aggregate", NewAggregate("S", loc("a.rs", 1, 2), []string{"a"}), nil},
		{"Contract", NewContract("T", loc("a.rs", 1, 2), []Method{{Name: "m", Arity: 1}}), nil},
		{"Variant", NewVariant("E", loc("a.rs", 1, 2), []string{"A"}), nil},
		{"EmptyName", NewFunction("", loc("a.rs", 1, 1), nil, false), ErrEmptyDeclarationName},
		{"NoPayload", Declaration{Name: "x", Kind: KindContract}, ErrPayloadMismatch},
		{"WrongPayload", Declaration{Name: "x", Kind: KindVariant, Function: &Function{}}, ErrPayloadMismatch},
		{"TwoPayloads", Declaration{Name: "x", Kind: KindFunction, Function: &Function{}, Variant: &Variant{}}, ErrPayloadMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decl.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDeclarationMembers(t *testing.T) {
	c := NewContract("Shape", loc("a.rs", 1, 5), []Method{{Name: "area", Arity: 0}, {Name: "scale", Arity: 1}})
	if got := strings.Join(c.Members(), ","); got != "area/0,scale/1" {
		t.Errorf("contract members = %s", got)
	}
	f := NewFunction("f", loc("a.rs", 3, 7), []string{"a", "b"}, true)
	if f.Function.Lines != 5 {
		t.Errorf("lines = %d, want 5", f.Function.Lines)
	}
	if got := strings.Join(f.Members(), ","); got != "a,b" {
		t.Errorf("function members = %s", got)
	}
	s := NewAggregate("S", loc("a.rs", 1, 1), nil)
	s.Aggregate.Methods = []string{"new"}
	if got := s.Methods(); len(got) != 1 || got[0] != "new" {
		t.Errorf("methods = %v", got)
	}
}

func TestKindString(t *testing.T) {
	for _, k := range Kinds() {
		back, err := ParseKind(strings.ToUpper(k.String()))
		if err != nil || back != k {
			t.Errorf("ParseKind(%s) = %v, %v", k, back, err)
		}
	}
	if _, err := ParseKind("macro"); err == nil {
		t.Error("ParseKind(macro) should fail")
	}
	if got := Kind(9).String(); got != "kind(9)" {
		t.Errorf("Kind(9).String() = %q", got)
	}
}

func TestLocationString(t *testing.T) {
	if got := loc("src/lib.rs", 3, 3).String(); got != "src/lib.rs:3" {
		t.Errorf("single line = %q", got)
	}
	if got := loc("src/lib.rs", 3, 9).String(); got != "src/lib.rs:3-9" {
		t.Errorf("span = %q", got)
	}
}
