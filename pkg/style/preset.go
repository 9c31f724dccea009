package style

import (
	"slices"
	"strings"

	"github.com/matzehuels/furnace/pkg/errors"
)

// Preset is a named default selection.
type Preset struct {
	Name        string
	Description string
	Selection   Selection
}

var presets = []Preset{
	{"plain", "indented listing without decoration", Selection{LayoutPlain, DetailStandard, ColorNone, SymbolsNone}},
	{"tree", "colored tree with box drawing", Selection{LayoutTree, DetailStandard, ColorStandard, SymbolsUnicode}},
	{"compact", "one line per namespace", Selection{LayoutCompact, DetailMinimal, ColorNone, SymbolsNone}},
	{"verbose", "tree with parameters, fields and methods", Selection{LayoutTree, DetailVerbose, ColorStandard, SymbolsUnicode}},
	{"minimal", "names only", Selection{LayoutPlain, DetailMinimal, ColorNone, SymbolsNone}},
	{"grid", "one table per namespace", Selection{LayoutGrid, DetailStandard, ColorNone, SymbolsASCII}},
	{"markdown", "plain listing with ascii tags", Selection{LayoutPlain, DetailStandard, ColorNone, SymbolsASCII}},
	{"html", "uncolored tree", Selection{LayoutTree, DetailStandard, ColorNone, SymbolsNone}},
	{"badges", "emoji badge per declaration kind", Selection{LayoutPlain, DetailStandard, ColorBadges, SymbolsUnicode}},
	{"monochrome", "tree without color", Selection{LayoutTree, DetailStandard, ColorNone, SymbolsUnicode}},
}

// Presets returns the preset table in display order.
func Presets() []Preset { return slices.Clone(presets) }

// LookupPreset finds a preset by name, case-insensitively.
func LookupPreset(name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetNames lists the preset names in display order.
func PresetNames() []string {
	out := make([]string, len(presets))
	for i, p := range presets {
		out[i] = p.Name
	}
	return out
}

// Overrides are per-axis values supplied by the caller. Empty fields keep
// the preset's value.
type Overrides struct {
	Layout  string
	Detail  string
	Color   string
	Symbols string
}

// IsZero reports whether no axis is overridden.
func (o Overrides) IsZero() bool { return o == Overrides{} }

// Resolve returns the selection for preset (empty selects [Default]) with
// the overrides applied. An unknown preset or axis value is a CONFIG error.
func Resolve(preset string, o Overrides) (Selection, error) {
	sel := Default
	if strings.TrimSpace(preset) != "" {
		p, ok := LookupPreset(preset)
		if !ok {
			return Selection{}, configError("unknown preset %q (valid: %s)", preset, strings.Join(PresetNames(), ", "))
		}
		sel = p.Selection
	}

	var err error
	if o.Layout != "" {
		if sel.Layout, err = ParseLayout(o.Layout); err != nil {
			return Selection{}, err
		}
	}
	if o.Detail != "" {
		if sel.Detail, err = ParseDetail(o.Detail); err != nil {
			return Selection{}, err
		}
	}
	if o.Color != "" {
		if sel.Color, err = ParseColor(o.Color); err != nil {
			return Selection{}, err
		}
	}
	if o.Symbols != "" {
		if sel.Symbols, err = ParseSymbols(o.Symbols); err != nil {
			return Selection{}, err
		}
	}
	return sel, nil
}

func configError(format string, args ...any) error {
	return errors.New(errors.ErrCodeConfig, format, args...)
}
