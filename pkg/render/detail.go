package render

import (
	"strconv"
	"strings"

	"github.com/matzehuels/furnace/pkg/project"
	"github.com/matzehuels/furnace/pkg/style"
)

// attr is one piece of declaration detail. key doubles as the grid column
// header; label prefixes the value in inline layouts.
type attr struct {
	key   string
	label string
	value string
}

// inline formats the attribute for tree, plain and compact layouts.
func (a attr) inline() string {
	if a.label == "" {
		return a.value
	}
	return a.label + ": " + a.value
}

// columns returns the grid headers for a detail level. The name column is
// always first.
func columns(d style.Detail) []string {
	switch d {
	case style.DetailMinimal:
		return []string{"name"}
	case style.DetailStandard:
		return []string{"name", "kind", "location"}
	case style.DetailVerbose:
		return []string{"name", "kind", "location", "members", "vars", "methods", "visibility", "lines"}
	}
	return []string{"name"}
}

// describe returns the detail attributes of a declaration, one per non-name
// column of [columns]. Values may be empty.
func describe(decl project.Declaration, d style.Detail) []attr {
	switch d {
	case style.DetailMinimal:
		return nil
	case style.DetailStandard:
		return []attr{
			{key: "kind", value: decl.Kind.String()},
			{key: "location", value: decl.Loc.String()},
		}
	case style.DetailVerbose:
		return []attr{
			{key: "kind", value: decl.Kind.String()},
			{key: "location", value: decl.Loc.String()},
			{key: "members", label: memberLabel(decl.Kind), value: strings.Join(decl.Members(), ", ")},
			{key: "vars", label: "vars", value: strings.Join(decl.Function.VariableNames(), ", ")},
			{key: "methods", label: "impl", value: strings.Join(decl.Methods(), ", ")},
			{key: "visibility", value: visibility(decl)},
			{key: "lines", label: "lines", value: strconv.Itoa(lines(decl))},
		}
	}
	return nil
}

// inlineAttrs joins the non-empty attributes for single-line layouts.
func inlineAttrs(attrs []attr) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a.value == "" {
			continue
		}
		parts = append(parts, a.inline())
	}
	return strings.Join(parts, ", ")
}

func memberLabel(k project.Kind) string {
	switch k {
	case project.KindFunction:
		return "params"
	case project.KindAggregate:
		return "fields"
	case project.KindContract:
		return "methods"
	case project.KindVariant:
		return "cases"
	}
	return "members"
}

func visibility(d project.Declaration) string {
	if d.Function == nil {
		return ""
	}
	if d.Function.Public {
		return "pub"
	}
	return "private"
}

func lines(d project.Declaration) int {
	if d.Function != nil && d.Function.Lines > 0 {
		return d.Function.Lines
	}
	return d.Loc.Lines()
}
