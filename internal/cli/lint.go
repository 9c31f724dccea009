package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/furnace/pkg/lint"
	"github.com/matzehuels/furnace/pkg/pipeline"
)

type lintOpts struct {
	strict  bool
	workers int
}

// lintCommand creates the lint command.
func (c *CLI) lintCommand() *cobra.Command {
	var opts lintOpts

	cmd := &cobra.Command{
		Use:   "lint [path]",
		Short: "Check declarations against the [lints] thresholds",
		Long: `Lint scans the project and reports declarations that exceed the
thresholds or break the naming rules configured in the [lints] table of
.furnacerc.toml. Modules that could not be parsed are always errors.

The command exits non-zero when any error-level finding exists, or any
finding at all with --strict.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLint(cmd, rootArg(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "treat warnings as errors")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "extraction workers (default: number of CPUs)")

	return cmd
}

func (c *CLI) runLint(cmd *cobra.Command, root string, opts lintOpts) error {
	ctx := cmd.Context()
	status := cmd.ErrOrStderr()

	popts := pipeline.Options{Root: root, Workers: opts.workers, Logger: loggerFromContext(ctx)}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	g, err := c.newRunner().Build(ctx, popts)
	if err != nil {
		return err
	}

	findings := lint.Run(g, popts.Config.Lints)
	out := cmd.OutOrStdout()
	for _, f := range findings {
		fmt.Fprintln(out, f.String())
	}

	warnings, errs := lint.Summary(findings)
	switch {
	case len(findings) == 0:
		printSuccess(status, "No findings in %s", g.Name())
		return nil
	case errs > 0:
		printError(status, "%s, %s", plural(errs, "error"), plural(warnings, "warning"))
	default:
		printWarning(status, "%s", plural(warnings, "warning"))
	}

	if lint.HasErrors(findings) || opts.strict {
		return fmt.Errorf("lint failed: %s, %s", plural(errs, "error"), plural(warnings, "warning"))
	}
	return nil
}
