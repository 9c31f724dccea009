package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/furnace/pkg/project"
	"github.com/matzehuels/furnace/pkg/style"
)

// glyphs is the symbol strategy: tags in front of labels, tree branches,
// and the grid border.
type glyphs struct {
	kind      map[project.Kind]string
	unit      string
	namespace string
	unparsed  string

	mid, last  string // branch in front of an entry
	pipe, tail string // continuation under a mid or last entry

	border lipgloss.Border
}

func glyphsFor(s style.Symbols) glyphs {
	switch s {
	case style.SymbolsASCII:
		return glyphs{
			kind: map[project.Kind]string{
				project.KindFunction:  "[fn] ",
				project.KindAggregate: "[struct] ",
				project.KindContract:  "[trait] ",
				project.KindVariant:   "[enum] ",
			},
			unit:      "[crate] ",
			namespace: "[mod] ",
			unparsed:  "[!] ",
			mid:       "|-- ",
			last:      "`-- ",
			pipe:      "|   ",
			tail:      "    ",
			border:    lipgloss.ASCIIBorder(),
		}
	case style.SymbolsUnicode:
		return glyphs{
			kind: map[project.Kind]string{
				project.KindFunction:  "🔧 ",
				project.KindAggregate: "🧱 ",
				project.KindContract:  "📜 ",
				project.KindVariant:   "🧩 ",
			},
			unit:      "📦 ",
			namespace: "📄 ",
			unparsed:  "🚫 ",
			mid:       "├── ",
			last:      "└── ",
			pipe:      "│   ",
			tail:      "    ",
			border:    lipgloss.NormalBorder(),
		}
	}
	return glyphs{
		kind:   map[project.Kind]string{},
		mid:    "    ",
		last:   "    ",
		pipe:   "    ",
		tail:   "    ",
		border: lipgloss.HiddenBorder(),
	}
}

func (g glyphs) tag(k project.Kind) string { return g.kind[k] }

func (g glyphs) branch(last bool) string {
	if last {
		return g.last
	}
	return g.mid
}

func (g glyphs) indent(last bool) string {
	if last {
		return g.tail
	}
	return g.pipe
}
