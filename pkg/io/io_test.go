package io

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/furnace/pkg/errors"
	"github.com/matzehuels/furnace/pkg/extract"
	"github.com/matzehuels/furnace/pkg/project"
	"github.com/matzehuels/furnace/pkg/render"
	"github.com/matzehuels/furnace/pkg/scan"
	"github.com/matzehuels/furnace/pkg/style"
)

func at(file string, start, end int) project.Location {
	return project.Location{File: file, StartLine: start, EndLine: end}
}

func sampleGraph(t *testing.T) *project.Graph {
	t.Helper()
	a := project.NewAssembler("ws", "/ws")
	u1, _ := a.AddUnit(project.Unit{Name: "core", Version: "1.0.0", Root: "core", Manifest: "core/Cargo.toml"})
	u2, _ := a.AddUnit(project.Unit{Name: "cli", Root: "cli", Manifest: "cli/Cargo.toml"})

	root, _ := a.Namespace(u1, []string{"crate"})
	net, _ := a.Namespace(u1, []string{"crate", "net"})
	bad, _ := a.Namespace(u1, []string{"crate", "bad"})
	main, _ := a.Namespace(u2, []string{"crate"})

	_ = a.AddFile(root, project.SourceFile{Path: "src/lib.rs", Hash: extract.Hash([]byte("lib"))})
	_ = a.AddFile(net, project.SourceFile{Path: "src/net.rs", Hash: extract.Hash([]byte("net"))})

	cfg := project.NewAggregate("Config", at("src/lib.rs", 1, 4), []string{"name", "port"})
	cfg.Aggregate.Methods = []string{"new"}
	shape := project.NewVariant("Shape", at("src/lib.rs", 10, 14), []string{"Circle", "Square"})
	shape.Variant.Methods = []string{"area"}
	_ = a.AddDeclarations(root,
		cfg,
		shape,
		project.NewContract("Area", at("src/lib.rs", 16, 19), []project.Method{{Name: "area", Arity: 0}, {Name: "scale", Arity: 2}}),
	)
	connect := project.NewFunction("connect", at("src/net.rs", 1, 9), []string{"addr", "timeout"}, true)
	connect.Function.Variables = []project.Variable{{Name: "conn", Type: "TcpStream"}, {Name: "RETRIES", Type: "u8", Const: true}, {Name: "n"}}
	_ = a.AddDeclarations(net, connect)
	_ = a.MarkUnparsed(bad, project.Issue{Kind: project.IssueExtraction, Path: "src/bad.rs", Message: "src/bad.rs:3:1: syntax error"})
	_ = a.AddDeclarations(main, project.NewFunction("main", at("src/main.rs", 1, 1), nil, false))
	_ = a.AddIssue(project.Issue{Kind: project.IssueIO, Path: "core/locked", Message: "open: permission denied"})
	return a.Freeze()
}

func scannedGraph(t *testing.T) *project.Graph {
	t.Helper()
	return scanFiles(t, map[string]string{
		"Cargo.toml":  "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n",
		"src/lib.rs":  "pub mod util;\npub struct Point { x: i32, y: i32 }\nimpl Point { fn norm(&self) -> i32 { 0 } }\n",
		"src/util.rs": "pub fn add(a: i32, b: i32) -> i32 { let sum: i32 = a + b; sum }\nmod inner { pub trait Area { fn area(&self) -> f64; } }\n",
		"src/bad.rs":  "fn broken( {\n",
	})
}

func scanFiles(t *testing.T, files map[string]string) *project.Graph {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	b, err := scan.NewBuilder(scan.Options{Extractor: extract.NewRust()})
	if err != nil {
		t.Fatal(err)
	}
	g, err := b.Build(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func graphs(t *testing.T) map[string]*project.Graph {
	return map[string]*project.Graph{
		"sample":  sampleGraph(t),
		"scanned": scannedGraph(t),
		"empty":   project.NewAssembler("empty", "/empty").Freeze(),
	}
}

func TestRoundTripRendersIdentically(t *testing.T) {
	for name, g := range graphs(t) {
		for _, f := range []Format{JSON, YAML} {
			t.Run(name+"/"+string(f), func(t *testing.T) {
				data, err := Marshal(g, f)
				if err != nil {
					t.Fatalf("Marshal: %v", err)
				}
				back, err := Read(bytes.NewReader(data), f)
				if err != nil {
					t.Fatalf("Read: %v\n%s", err, data)
				}
				for _, sel := range style.All() {
					if want, got := render.Render(g, sel), render.Render(back, sel); !bytes.Equal(want, got) {
						t.Fatalf("%v: render differs after round trip\nwant:\n%s\ngot:\n%s", sel, want, got)
					}
				}
				again, err := Marshal(back, f)
				if err != nil {
					t.Fatalf("Marshal again: %v", err)
				}
				if !bytes.Equal(data, again) {
					t.Errorf("re-serialization differs\nfirst:\n%s\nsecond:\n%s", data, again)
				}
				if !reflect.DeepEqual(back.Counts(), g.Counts()) {
					t.Errorf("counts %+v, want %+v", back.Counts(), g.Counts())
				}
			})
		}
	}
}

// Graph strings are UTF-8 even when file names are not, so JSON output
// reads back into a graph that renders the same.
func TestRoundTripNonUTF8FileName(t *testing.T) {
	name := "caf\xe9.rs"
	check := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(check, nil, 0o644); err != nil {
		t.Skipf("filesystem rejects non-UTF-8 names: %v", err)
	}
	g := scanFiles(t, map[string]string{
		"Cargo.toml":  "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n",
		"src/lib.rs":  "pub fn root() {}\n",
		"src/" + name: "pub fn brew(beans: u8) { let cup = beans; }\n",
	})
	if _, ok := g.Lookup(0, "crate::caf\uFFFD"); !ok {
		t.Fatalf("namespace for %q missing", name)
	}
	for _, f := range []Format{JSON, YAML} {
		data, err := Marshal(g, f)
		if err != nil {
			t.Fatal(err)
		}
		back, err := Read(bytes.NewReader(data), f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		for _, sel := range style.All() {
			if want, got := render.Render(g, sel), render.Render(back, sel); !bytes.Equal(want, got) {
				t.Fatalf("%s %v: render differs after round trip\nwant:\n%s\ngot:\n%s", f, sel, want, got)
			}
		}
	}
}

func TestJSONFieldNames(t *testing.T) {
	data, err := Marshal(sampleGraph(t), JSON)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`"version": 1`,
		`"qualified_name": "crate::net"`,
		`"parent": -1`,
		`"params": [`,
		`"signatures": [`,
		`"cases": [`,
		`"unparsed": true`,
		`"kind": "extraction"`,
		`"variables": [`,
		`"type": "TcpStream"`,
		`"const": true`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON missing %s", want)
		}
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"version": 1,`},
		{"version", `{"version": 2, "name": "x", "root": "/x", "units": [], "namespaces": []}`},
		{"unknown field", `{"version": 1, "name": "x", "root": "/x", "units": [], "namespaces": [], "extra": true}`},
		{"bad kind", `{"version": 1, "name": "x", "root": "/x",
			"units": [{"name": "a", "root": ".", "roots": [0]}],
			"namespaces": [{"id": 0, "unit": 0, "name": "crate", "qualified_name": "crate", "parent": -1,
				"declarations": [{"name": "f", "kind": "macro", "file": "src/lib.rs", "start": 1, "end": 1}]}]}`},
		{"bad parent", `{"version": 1, "name": "x", "root": "/x",
			"units": [{"name": "a", "root": ".", "roots": [0]}],
			"namespaces": [{"id": 0, "unit": 0, "name": "crate", "qualified_name": "crate", "parent": 7}]}`},
		{"bad id", `{"version": 1, "name": "x", "root": "/x",
			"units": [{"name": "a", "root": "."}],
			"namespaces": [{"id": 3, "unit": 0, "name": "crate", "qualified_name": "crate", "parent": -1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %s, want INVALID_INPUT (%v)", errors.GetCode(err), err)
			}
		})
	}
}

func TestReadYAMLUnknownField(t *testing.T) {
	_, err := ReadYAML(strings.NewReader("version: 1\nname: x\nroot: /x\nnodes: []\n"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}

func TestExportImport(t *testing.T) {
	g := sampleGraph(t)
	dir := t.TempDir()
	for _, name := range []string{"graph.json", "graph.yaml", "graph.yml"} {
		path := filepath.Join(dir, name)
		if err := Export(g, path); err != nil {
			t.Fatalf("Export %s: %v", name, err)
		}
		back, err := Import(path)
		if err != nil {
			t.Fatalf("Import %s: %v", name, err)
		}
		if want, got := render.Render(g, style.Default), render.Render(back, style.Default); !bytes.Equal(want, got) {
			t.Errorf("%s: render differs", name)
		}
	}

	if _, err := Import(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("missing file: got %v, want IO", err)
	}
	if err := Export(g, filepath.Join(dir, "graph.txt")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad extension: got %v, want INVALID_INPUT", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"json", JSON, true},
		{"JSON", JSON, true},
		{"yaml", YAML, true},
		{"yml", YAML, true},
		{"toml", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeConfig) {
			t.Errorf("ParseFormat(%q) error code = %s", tt.in, errors.GetCode(err))
		}
	}
}
