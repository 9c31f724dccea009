// Package style defines the four rendering axes and resolves named presets.
//
// Each axis is a closed enumeration. A [Selection] holds one value per axis
// and is a plain comparable value: two selections are equal exactly when
// every axis is equal. [Resolve] starts from a preset (or the default
// selection) and applies per-axis overrides.
package style

import (
	"fmt"
	"strings"
)

// Layout arranges namespaces and declarations.
type Layout int

const (
	LayoutPlain Layout = iota
	LayoutTree
	LayoutGrid
	LayoutCompact
)

// Detail selects how much of each declaration is shown.
type Detail int

const (
	DetailMinimal Detail = iota
	DetailStandard
	DetailVerbose
)

// Color selects the coloring policy.
type Color int

const (
	ColorNone Color = iota
	ColorStandard
	ColorBadges
)

// Symbols selects the glyph set used for tags and tree branches.
type Symbols int

const (
	SymbolsNone Symbols = iota
	SymbolsASCII
	SymbolsUnicode
)

var (
	layoutNames  = [...]string{LayoutPlain: "plain", LayoutTree: "tree", LayoutGrid: "grid", LayoutCompact: "compact"}
	detailNames  = [...]string{DetailMinimal: "minimal", DetailStandard: "standard", DetailVerbose: "verbose"}
	colorNames   = [...]string{ColorNone: "none", ColorStandard: "standard", ColorBadges: "badges"}
	symbolsNames = [...]string{SymbolsNone: "none", SymbolsASCII: "ascii", SymbolsUnicode: "unicode"}
)

func (l Layout) String() string  { return name(layoutNames[:], int(l), "layout") }
func (d Detail) String() string  { return name(detailNames[:], int(d), "detail") }
func (c Color) String() string   { return name(colorNames[:], int(c), "color") }
func (s Symbols) String() string { return name(symbolsNames[:], int(s), "symbols") }

func name(names []string, v int, axis string) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("%s(%d)", axis, v)
	}
	return names[v]
}

// Layouts returns every layout value.
func Layouts() []Layout { return []Layout{LayoutPlain, LayoutTree, LayoutGrid, LayoutCompact} }

// Details returns every detail value.
func Details() []Detail { return []Detail{DetailMinimal, DetailStandard, DetailVerbose} }

// Colors returns every color value.
func Colors() []Color { return []Color{ColorNone, ColorStandard, ColorBadges} }

// SymbolSets returns every symbols value.
func SymbolSets() []Symbols { return []Symbols{SymbolsNone, SymbolsASCII, SymbolsUnicode} }

// ParseLayout parses a layout name, case-insensitively.
func ParseLayout(s string) (Layout, error) {
	i, err := parse(layoutNames[:], s, "layout")
	return Layout(i), err
}

// ParseDetail parses a detail name, case-insensitively.
func ParseDetail(s string) (Detail, error) {
	i, err := parse(detailNames[:], s, "detail")
	return Detail(i), err
}

// ParseColor parses a color name, case-insensitively.
func ParseColor(s string) (Color, error) {
	i, err := parse(colorNames[:], s, "color")
	return Color(i), err
}

// ParseSymbols parses a symbols name, case-insensitively.
func ParseSymbols(s string) (Symbols, error) {
	i, err := parse(symbolsNames[:], s, "symbols")
	return Symbols(i), err
}

func parse(names []string, s, axis string) (int, error) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(s, n) {
			return i, nil
		}
	}
	return 0, configError("unknown %s %q (valid: %s)", axis, s, strings.Join(names, ", "))
}

// Selection is one value per axis.
type Selection struct {
	Layout  Layout
	Detail  Detail
	Color   Color
	Symbols Symbols
}

// Default is the selection used when no preset is named.
var Default = Selection{
	Layout:  LayoutTree,
	Detail:  DetailStandard,
	Color:   ColorStandard,
	Symbols: SymbolsUnicode,
}

// String formats the selection as layout/detail/color/symbols.
func (s Selection) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", s.Layout, s.Detail, s.Color, s.Symbols)
}

// All enumerates every axis combination (4 x 3 x 3 x 3).
func All() []Selection {
	var out []Selection
	for _, l := range Layouts() {
		for _, d := range Details() {
			for _, c := range Colors() {
				for _, s := range SymbolSets() {
					out = append(out, Selection{Layout: l, Detail: d, Color: c, Symbols: s})
				}
			}
		}
	}
	return out
}
