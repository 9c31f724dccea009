package lint

import (
	"strings"
	"testing"

	"github.com/matzehuels/furnace/pkg/config"
	"github.com/matzehuels/furnace/pkg/project"
)

func at(start, end int) project.Location {
	return project.Location{File: "src/lib.rs", StartLine: start, EndLine: end}
}

func testGraph(t *testing.T) *project.Graph {
	t.Helper()
	a := project.NewAssembler("demo", "/demo")
	u, _ := a.AddUnit(project.Unit{Name: "demo", Version: "0.1.0"})
	root, _ := a.Namespace(u, []string{"crate"})
	bad, _ := a.Namespace(u, []string{"crate", "bad"})
	add := project.NewFunction("add", at(1, 3), []string{"a", "b"}, true)
	add.Function.Variables = []project.Variable{
		{Name: "sum"},
		{Name: "tmpVal"},
		{Name: "tmp", Type: "i32"},
		{Name: "MAX_LEN", Const: true},
		{Name: "limit", Const: true},
	}
	if err := a.AddDeclarations(root,
		add,
		project.NewFunction("doThing", at(5, 30), []string{"tmp", "b", "c", "d"}, false),
		project.NewAggregate("Point", at(32, 35), []string{"x", "y"}),
		project.NewAggregate("big_struct", at(40, 50), []string{"a", "b", "c", "d"}),
		project.NewVariant("Shape", at(52, 55), []string{"Circle"}),
		project.NewContract("tmp", at(57, 59), nil),
	); err != nil {
		t.Fatal(err)
	}
	_ = a.MarkUnparsed(bad, project.Issue{Kind: project.IssueExtraction, Path: "src/bad.rs", Message: "src/bad.rs:1:4: syntax error"})
	return a.Freeze()
}

func rules(findings []Finding) string {
	out := make([]string, len(findings))
	for i, f := range findings {
		name := f.Name
		if name == "" {
			name = f.Namespace
		}
		out[i] = f.Rule + ":" + name
	}
	return strings.Join(out, ",")
}

func TestRunDefaultsOnlyReportUnparsed(t *testing.T) {
	findings := Run(testGraph(t), config.Lints{})
	if got := rules(findings); got != "unparsed:crate::bad" {
		t.Errorf("findings = %s", got)
	}
	if !HasErrors(findings) {
		t.Error("unparsed namespace should be an error")
	}
}

func TestRunRules(t *testing.T) {
	tests := []struct {
		name  string
		lints config.Lints
		want  string
	}{
		{"max args", config.Lints{Complexity: config.Complexity{MaxArgs: 3}}, "max_args:doThing"},
		{"max fields", config.Lints{Complexity: config.Complexity{MaxFields: 3}}, "max_fields:big_struct"},
		{"max lines", config.Lints{Complexity: config.Complexity{MaxFunctionLines: 10}}, "max_function_lines:doThing"},
		{"snake case", config.Lints{Naming: config.Naming{SnakeCaseFunctions: true}}, "snake_case_functions:doThing"},
		{"pascal case", config.Lints{Naming: config.Naming{PascalCaseTypes: true}}, "pascal_case_types:big_struct,pascal_case_types:tmp"},
		{"struct size", config.Lints{Complexity: config.Complexity{MaxStructSize: 3}}, "max_struct_size:big_struct"},
		{"snake case variables", config.Lints{Naming: config.Naming{SnakeCaseVariables: true}}, "snake_case_variables:add"},
		{"screaming constants", config.Lints{Naming: config.Naming{ScreamingSnakeConstants: true}}, "screaming_snake_case_constants:add"},
		{"discouraged", config.Lints{Naming: config.Naming{DiscouragedNames: []string{"tmp"}}}, "discouraged_names:add,discouraged_names:doThing,discouraged_names:tmp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := Run(testGraph(t), tt.lints)
			var got []Finding
			for _, f := range findings {
				if f.Rule != RuleUnparsed {
					got = append(got, f)
				}
			}
			if r := rules(got); r != tt.want {
				t.Errorf("findings = %s, want %s", r, tt.want)
			}
			for _, f := range got {
				if f.Severity != SeverityWarning {
					t.Errorf("%s should be a warning", f)
				}
			}
		})
	}
}

func TestRunVariableMessages(t *testing.T) {
	findings := Run(testGraph(t), config.Lints{Naming: config.Naming{
		SnakeCaseVariables:      true,
		ScreamingSnakeConstants: true,
		DiscouragedNames:        []string{"tmp"},
	}})
	var msgs []string
	for _, f := range findings {
		if f.Name == "add" {
			msgs = append(msgs, f.Message)
		}
	}
	want := []string{
		`variable "tmpVal" should use snake_case`,
		`constant "limit" should use SCREAMING_SNAKE_CASE`,
		`discouraged variable name "tmp"`,
	}
	if strings.Join(msgs, "\n") != strings.Join(want, "\n") {
		t.Errorf("messages:\n%s\nwant:\n%s", strings.Join(msgs, "\n"), strings.Join(want, "\n"))
	}
}

func TestRunDisabled(t *testing.T) {
	off := false
	findings := Run(testGraph(t), config.Lints{
		Enabled:    &off,
		Complexity: config.Complexity{MaxArgs: 1},
	})
	if len(findings) != 0 {
		t.Errorf("disabled lints reported %v", findings)
	}
}

func TestFindingString(t *testing.T) {
	findings := Run(testGraph(t), config.Lints{Complexity: config.Complexity{MaxArgs: 3}})
	var s []string
	for _, f := range findings {
		s = append(s, f.String())
	}
	got := strings.Join(s, "\n")
	want := "warning[max_args] demo/crate::doThing (src/lib.rs:5-30): function has 4 parameters (max 3)\n" +
		"error[unparsed] demo/crate::bad: namespace could not be parsed: src/bad.rs:1:4: syntax error"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	w, e := Summary(findings)
	if w != 1 || e != 1 {
		t.Errorf("Summary = %d, %d", w, e)
	}
}

func TestNameCases(t *testing.T) {
	snake := map[string]bool{"add": true, "_private": true, "to_u8": true, "doThing": false, "Add": false}
	for name, want := range snake {
		if got := isSnakeCase(name); got != want {
			t.Errorf("isSnakeCase(%q) = %v", name, got)
		}
	}
	screaming := map[string]bool{"MAX_LEN": true, "V2": true, "limit": false, "Max": false, "": false}
	for name, want := range screaming {
		if got := isScreamingSnakeCase(name); got != want {
			t.Errorf("isScreamingSnakeCase(%q) = %v", name, got)
		}
	}
	pascal := map[string]bool{"Point": true, "HTTPServer": true, "point": false, "Big_Struct": false, "": false}
	for name, want := range pascal {
		if got := isPascalCase(name); got != want {
			t.Errorf("isPascalCase(%q) = %v", name, got)
		}
	}
}
