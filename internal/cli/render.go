package cli

import (
	"github.com/spf13/cobra"

	furnaceio "github.com/matzehuels/furnace/pkg/io"
	"github.com/matzehuels/furnace/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	style  styleFlags
	output string
}

// renderCommand creates the render command, which re-renders a graph
// previously written by "scan --format json|yaml" without touching the
// project tree.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <graph.json|graph.yaml>",
		Short: "Render a serialized project graph",
		Long: `Render loads a graph exported with "furnace scan --format json" (or yaml)
and renders it with any preset, axis combination or output format. The
result is identical to rendering the original scan.`,
		Example: `  furnace scan . -f json -o graph.json
  furnace render graph.json --preset grid
  furnace render graph.json -f svg -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.style.register(cmd, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the artifact to a file instead of stdout")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	var popts pipeline.Options
	opts.style.apply(&popts)
	// Reject bad flags before reading the file.
	if err := popts.ValidateForRender(); err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(cmd.Context()))
	g, err := furnaceio.Import(path)
	if err != nil {
		return err
	}
	data, err := c.newRunner().Render(cmd.Context(), g, popts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := writeArtifact(opts.output, data); err != nil {
		return err
	}
	prog.done("Rendered " + g.Name())
	printFile(cmd.ErrOrStderr(), opts.output)
	return nil
}
