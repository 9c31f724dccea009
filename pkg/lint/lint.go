// Package lint checks a frozen project graph against the rules configured
// in the [lints] section of .furnacerc.toml.
//
// The graph is read-only input. Findings come out in graph walk order:
// units by manifest path, namespaces depth-first, declarations by position.
package lint

import (
	"fmt"
	"slices"
	"unicode"

	"github.com/matzehuels/furnace/pkg/config"
	"github.com/matzehuels/furnace/pkg/project"
)

// Severity ranks a finding.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Rule names.
const (
	RuleMaxArgs          = "max_args"
	RuleMaxFields        = "max_fields"
	RuleMaxFunctionLines = "max_function_lines"
	RuleMaxStructSize    = "max_struct_size"
	RuleSnakeCase        = "snake_case_functions"
	RuleSnakeCaseVars    = "snake_case_variables"
	RulePascalCase       = "pascal_case_types"
	RuleScreamingConsts  = "screaming_snake_case_constants"
	RuleDiscouraged      = "discouraged_names"
	RuleUnparsed         = "unparsed"
)

// Finding is one rule violation.
type Finding struct {
	Rule      string
	Severity  Severity
	Unit      string
	Namespace string
	Name      string // declaration name, empty for namespace findings
	Loc       project.Location
	Message   string
}

func (f Finding) String() string {
	where := f.Unit + "/" + f.Namespace
	if f.Name != "" {
		where += project.Separator + f.Name
	}
	if f.Loc.File != "" {
		where += " (" + f.Loc.String() + ")"
	}
	return fmt.Sprintf("%s[%s] %s: %s", f.Severity, f.Rule, where, f.Message)
}

// HasErrors reports whether any finding is error level.
func HasErrors(findings []Finding) bool {
	return slices.ContainsFunc(findings, func(f Finding) bool { return f.Severity == SeverityError })
}

// Summary counts findings by severity.
func Summary(findings []Finding) (warnings, errs int) {
	for _, f := range findings {
		if f.Severity == SeverityError {
			errs++
		} else {
			warnings++
		}
	}
	return warnings, errs
}

// check inspects one declaration and reports messages for violations.
type check struct {
	rule string
	run  func(d project.Declaration) []string
}

// Run evaluates the configured rules over g. Disabled linting yields no
// findings. Unparsed namespaces are always reported as errors since none
// of their declarations could be checked.
func Run(g *project.Graph, cfg config.Lints) []Finding {
	if !cfg.On() {
		return nil
	}
	checks := checksFor(cfg)

	var out []Finding
	g.Walk(func(u project.Unit, ns project.Namespace, _ int) bool {
		if ns.Unparsed {
			out = append(out, Finding{
				Rule:      RuleUnparsed,
				Severity:  SeverityError,
				Unit:      u.Name,
				Namespace: ns.QualifiedName,
				Message:   "namespace could not be parsed: " + ns.ErrorText(),
			})
		}
		for _, d := range ns.Decls {
			for _, c := range checks {
				for _, msg := range c.run(d) {
					out = append(out, Finding{
						Rule:      c.rule,
						Severity:  SeverityWarning,
						Unit:      u.Name,
						Namespace: ns.QualifiedName,
						Name:      d.Name,
						Loc:       d.Loc,
						Message:   msg,
					})
				}
			}
		}
		return true
	})
	return out
}

func checksFor(cfg config.Lints) []check {
	var checks []check
	cx, nm := cfg.Complexity, cfg.Naming

	if cx.MaxArgs > 0 {
		checks = append(checks, check{RuleMaxArgs, func(d project.Declaration) []string {
			if d.Function != nil && len(d.Function.Params) > cx.MaxArgs {
				return []string{fmt.Sprintf("function has %d parameters (max %d)", len(d.Function.Params), cx.MaxArgs)}
			}
			return nil
		}})
	}
	if cx.MaxFields > 0 {
		checks = append(checks, check{RuleMaxFields, func(d project.Declaration) []string {
			if d.Aggregate != nil && len(d.Aggregate.Fields) > cx.MaxFields {
				return []string{fmt.Sprintf("struct has %d fields (max %d)", len(d.Aggregate.Fields), cx.MaxFields)}
			}
			return nil
		}})
	}
	if cx.MaxFunctionLines > 0 {
		checks = append(checks, check{RuleMaxFunctionLines, func(d project.Declaration) []string {
			if d.Function != nil && d.Function.Lines > cx.MaxFunctionLines {
				return []string{fmt.Sprintf("function spans %d lines (max %d)", d.Function.Lines, cx.MaxFunctionLines)}
			}
			return nil
		}})
	}
	if cx.MaxStructSize > 0 {
		checks = append(checks, check{RuleMaxStructSize, func(d project.Declaration) []string {
			if d.Aggregate != nil && len(d.Aggregate.Fields) > cx.MaxStructSize {
				return []string{fmt.Sprintf("struct size is %d fields (max %d)", len(d.Aggregate.Fields), cx.MaxStructSize)}
			}
			return nil
		}})
	}
	if nm.SnakeCaseFunctions {
		checks = append(checks, check{RuleSnakeCase, func(d project.Declaration) []string {
			if d.Kind == project.KindFunction && !isSnakeCase(d.Name) {
				return []string{"function name should use snake_case"}
			}
			return nil
		}})
	}
	if nm.SnakeCaseVariables {
		checks = append(checks, check{RuleSnakeCaseVars, func(d project.Declaration) []string {
			var msgs []string
			for _, v := range variablesOf(d) {
				if !v.Const && !isSnakeCase(v.Name) {
					msgs = append(msgs, fmt.Sprintf("variable %q should use snake_case", v.Name))
				}
			}
			return msgs
		}})
	}
	if nm.ScreamingSnakeConstants {
		checks = append(checks, check{RuleScreamingConsts, func(d project.Declaration) []string {
			var msgs []string
			for _, v := range variablesOf(d) {
				if v.Const && !isScreamingSnakeCase(v.Name) {
					msgs = append(msgs, fmt.Sprintf("constant %q should use SCREAMING_SNAKE_CASE", v.Name))
				}
			}
			return msgs
		}})
	}
	if nm.PascalCaseTypes {
		checks = append(checks, check{RulePascalCase, func(d project.Declaration) []string {
			if d.Kind != project.KindFunction && !isPascalCase(d.Name) {
				return []string{fmt.Sprintf("%s name should use PascalCase", d.Kind)}
			}
			return nil
		}})
	}
	if len(nm.DiscouragedNames) > 0 {
		checks = append(checks, check{RuleDiscouraged, func(d project.Declaration) []string {
			var msgs []string
			if slices.Contains(nm.DiscouragedNames, d.Name) {
				msgs = append(msgs, fmt.Sprintf("discouraged %s name %q", d.Kind, d.Name))
			}
			if d.Function != nil {
				for _, p := range d.Function.Params {
					if slices.Contains(nm.DiscouragedNames, p) {
						msgs = append(msgs, fmt.Sprintf("discouraged parameter name %q", p))
					}
				}
			}
			for _, v := range variablesOf(d) {
				if slices.Contains(nm.DiscouragedNames, v.Name) {
					msgs = append(msgs, fmt.Sprintf("discouraged variable name %q", v.Name))
				}
			}
			return msgs
		}})
	}
	return checks
}

func variablesOf(d project.Declaration) []project.Variable {
	if d.Function == nil {
		return nil
	}
	return d.Function.Variables
}

// isSnakeCase accepts lowercase letters, digits and underscores.
func isSnakeCase(s string) bool {
	for _, r := range s {
		if r != '_' && !unicode.IsLower(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isScreamingSnakeCase accepts uppercase letters, digits and underscores.
func isScreamingSnakeCase(s string) bool {
	for _, r := range s {
		if r != '_' && !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// isPascalCase requires an uppercase first letter and no underscores.
func isPascalCase(s string) bool {
	for i, r := range s {
		if i == 0 && !unicode.IsUpper(r) {
			return false
		}
		if r == '_' {
			return false
		}
	}
	return s != ""
}
