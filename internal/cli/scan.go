package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/furnace/pkg/errors"
	"github.com/matzehuels/furnace/pkg/pipeline"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	style   styleFlags
	output  string   // output file; stdout when empty
	workers int      // extraction workers; 0 means GOMAXPROCS
	ignore  []string // extra ignore patterns
}

// scanCommand creates the scan command, the full build → render pipeline.
func (c *CLI) scanCommand() *cobra.Command {
	var opts scanOpts

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a Rust project and render its namespace tree",
		Long: `Scan discovers every Cargo package under path (default "."), extracts
the declarations of each module and renders the result.

Flags override the [output] table of .furnacerc.toml, which overrides the
built-in defaults.`,
		Example: `  furnace scan
  furnace scan ./my-crate --preset verbose
  furnace scan . --layout grid --symbols ascii
  furnace scan . --format json --output graph.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd, rootArg(args), &opts)
		},
	}

	opts.style.register(cmd, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the artifact to a file instead of stdout")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "extraction workers (default: number of CPUs)")
	cmd.Flags().StringSliceVar(&opts.ignore, "ignore", nil, "additional ignore patterns (doublestar syntax)")

	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, root string, opts *scanOpts) error {
	ctx := cmd.Context()
	status := cmd.ErrOrStderr()

	popts := pipeline.Options{
		Root:    root,
		Workers: opts.workers,
		Ignore:  opts.ignore,
		Logger:  loggerFromContext(ctx),
	}
	opts.style.apply(&popts)

	var spinner *Spinner
	if opts.output != "" {
		spinner = newSpinnerWithContext(ctx, status, "Scanning "+root+"...")
		spinner.Start()
	}

	result, err := c.newRunner().Execute(ctx, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(result.Artifact)
		return err
	}

	if err := writeArtifact(opts.output, result.Artifact); err != nil {
		return err
	}
	printSuccess(status, "Scanned %s", result.Graph.Name())
	printStats(status, result.Stats)
	printFile(status, opts.output)
	if result.Format == pipeline.FormatJSON || result.Format == pipeline.FormatYAML {
		printNextStep(status, "Re-render with", "furnace render "+opts.output+" --preset verbose")
	}
	return nil
}

// rootArg returns the project root argument, defaulting to ".".
func rootArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func writeArtifact(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
