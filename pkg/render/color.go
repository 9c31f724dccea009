package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/matzehuels/furnace/pkg/project"
	"github.com/matzehuels/furnace/pkg/style"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorPurple = lipgloss.Color("141")
	colorDim    = lipgloss.Color("240")
)

var badges = map[project.Kind]string{
	project.KindFunction:  "🟩 ",
	project.KindAggregate: "🟦 ",
	project.KindContract:  "🟪 ",
	project.KindVariant:   "🟨 ",
}

const unparsedBadge = "🟥 "

// painter is the color strategy.
type painter struct {
	mode style.Color

	// ANSI styles, only set for style.ColorStandard.
	kinds     map[project.Kind]lipgloss.Style
	unitStyle lipgloss.Style
	nsStyle   lipgloss.Style
	dimStyle  lipgloss.Style
	errStyle  lipgloss.Style
	header    lipgloss.Style
	plain     lipgloss.Style
}

func newPainter(c style.Color) painter {
	// The renderer never writes; it only fixes the color profile so output
	// is identical on every terminal and in pipes.
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)

	p := painter{mode: c, plain: r.NewStyle()}
	if c != style.ColorStandard {
		return p
	}
	p.kinds = map[project.Kind]lipgloss.Style{
		project.KindFunction:  r.NewStyle().Foreground(colorGreen),
		project.KindAggregate: r.NewStyle().Foreground(colorBlue),
		project.KindContract:  r.NewStyle().Foreground(colorPurple),
		project.KindVariant:   r.NewStyle().Foreground(colorYellow),
	}
	p.unitStyle = r.NewStyle().Bold(true).Foreground(colorCyan)
	p.nsStyle = r.NewStyle().Foreground(colorCyan)
	p.dimStyle = r.NewStyle().Foreground(colorDim)
	p.errStyle = r.NewStyle().Foreground(colorRed)
	p.header = r.NewStyle().Bold(true)
	return p
}

func (p painter) decl(k project.Kind, name string) string {
	switch p.mode {
	case style.ColorStandard:
		return p.kinds[k].Render(name)
	case style.ColorBadges:
		return badges[k] + name
	}
	return name
}

func (p painter) unit(s string) string      { return p.ansi(p.unitStyle, s) }
func (p painter) namespace(s string) string { return p.ansi(p.nsStyle, s) }
func (p painter) dim(s string) string       { return p.ansi(p.dimStyle, s) }
func (p painter) columnHeader(s string) string {
	return p.ansi(p.header, s)
}

func (p painter) failure(s string) string {
	switch p.mode {
	case style.ColorStandard:
		return p.errStyle.Render(s)
	case style.ColorBadges:
		return unparsedBadge + s
	}
	return s
}

func (p painter) ansi(st lipgloss.Style, s string) string {
	if p.mode != style.ColorStandard || s == "" {
		return s
	}
	return st.Render(s)
}
