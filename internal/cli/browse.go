package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/furnace/pkg/pipeline"
	"github.com/matzehuels/furnace/pkg/project"
	"github.com/matzehuels/furnace/pkg/render"
	"github.com/matzehuels/furnace/pkg/style"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	paneStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags   styleFlags
		workers int
	)

	cmd := &cobra.Command{
		Use:   "browse [path]",
		Short: "Browse namespaces and declarations interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := pipeline.Options{Root: rootArg(args), Workers: workers, Logger: loggerFromContext(ctx)}
			flags.apply(&opts)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), "Scanning "+opts.Root+"...")
			spinner.Start()
			g, err := c.newRunner().Build(ctx, opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewBrowseModel(g, opts.Selection),
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd, false)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "extraction workers (default: number of CPUs)")

	return cmd
}

// =============================================================================
// BrowseModel - Interactive namespace browser
// =============================================================================

// browseEntry is one row of the namespace list.
type browseEntry struct {
	id    project.NamespaceID
	unit  string
	depth int
	name  string
	bad   bool
	decls int
}

// BrowseModel is the bubbletea model for the namespace browser. The left
// pane lists every namespace, the right pane renders the selected one.
type BrowseModel struct {
	Graph   *project.Graph
	Entries []browseEntry
	Cursor  int
	Offset  int
	Height  int
	Width   int

	// Detail cycles with tab; the other axes come from the command flags.
	Selection style.Selection
	renderer  *render.Renderer
}

// NewBrowseModel creates a browser for g.
func NewBrowseModel(g *project.Graph, sel style.Selection) BrowseModel {
	var entries []browseEntry
	g.Walk(func(u project.Unit, ns project.Namespace, depth int) bool {
		entries = append(entries, browseEntry{
			id:    ns.ID,
			unit:  u.Name,
			depth: depth,
			name:  ns.Name,
			bad:   ns.Unparsed,
			decls: len(ns.Decls),
		})
		return true
	})
	return BrowseModel{
		Graph:     g,
		Entries:   entries,
		Height:    20,
		Width:     100,
		Selection: sel,
		renderer:  render.New(sel),
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Entries))
		case "end", "G":
			m.move(len(m.Entries))
		case "tab":
			m.Selection.Detail = nextDetail(m.Selection.Detail)
			m.renderer = render.New(m.Selection)
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped, and scrolls the list to keep
// it visible.
func (m *BrowseModel) move(delta int) {
	if len(m.Entries) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Entries)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func nextDetail(d style.Detail) style.Detail {
	details := style.Details()
	for i, v := range details {
		if v == d {
			return details[(i+1)%len(details)]
		}
	}
	return style.DetailStandard
}

// Current returns the selected namespace id.
func (m BrowseModel) Current() (project.NamespaceID, bool) {
	if len(m.Entries) == 0 {
		return project.NoNamespace, false
	}
	return m.Entries[m.Cursor].id, true
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Graph.Name()))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("↑/↓ navigate  tab detail (%s)  q quit", m.Selection.Detail)))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("(no units)"))
		b.WriteString("\n")
		return b.String()
	}

	listWidth := max(m.Width/3, 24)
	left := paneStyle.Width(listWidth).Render(m.listView())
	right := paneStyle.Width(max(m.Width-listWidth-6, 20)).Render(m.detailView())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

func (m BrowseModel) listView() string {
	end := min(m.Offset+m.Height, len(m.Entries))
	lines := make([]string, 0, end-m.Offset)
	prevUnit := ""
	if m.Offset > 0 {
		prevUnit = m.Entries[m.Offset-1].unit
	}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		if e.unit != prevUnit {
			lines = append(lines, listDimStyle.Render(e.unit))
			prevUnit = e.unit
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + strings.Repeat("  ", e.depth) + e.name
		if e.decls > 0 {
			line += listDimStyle.Render(fmt.Sprintf(" %d", e.decls))
		}

		switch {
		case i == m.Cursor:
			line = listSelectedStyle.Render(line)
		case e.bad:
			line = listErrorStyle.Render(line)
		default:
			line = listNormalStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m BrowseModel) detailView() string {
	id, _ := m.Current()
	ns := m.Graph.Namespace(id)

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(ns.QualifiedName))
	b.WriteString("\n")
	for _, f := range ns.Files {
		b.WriteString(listDimStyle.Render(f.Path))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.Write(m.renderer.Namespace(m.Graph, id))
	return strings.TrimRight(b.String(), "\n")
}
