package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/furnace/internal/server"
	"github.com/matzehuels/furnace/pkg/observability"
	"github.com/matzehuels/furnace/pkg/pipeline"
)

type serveOpts struct {
	style   styleFlags
	addr    string
	workers int
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: defaultAddr}

	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Serve renders of a project over HTTP",
		Long: `Serve builds the project graph once and answers render requests for it
until interrupted. POST /reload rebuilds the graph.

Endpoints:
  GET  /healthz
  GET  /presets
  GET  /graph?format=json|yaml
  GET  /render?preset=&layout=&detail=&color=&symbols=&format=&unit=&namespace=
  POST /reload

Style flags set the defaults for requests that leave a parameter out.`,
		Example: `  furnace serve . --addr :9000
  curl 'localhost:9000/render?preset=grid&namespace=crate::net'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, rootArg(args), &opts)
		},
	}

	opts.style.register(cmd, true)
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "extraction workers (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render every request afresh")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, root string, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	base := pipeline.Options{Root: root, Workers: opts.workers, Logger: logger}
	opts.style.apply(&base)
	// Fail on bad flags or config before the first build.
	check := base
	if err := check.ValidateAndSetDefaults(); err != nil {
		return err
	}

	srv := server.New(c.newRunner(), base, logger, observability.NewLogHooks(logger).All())
	if opts.noCache {
		srv.DisableCache()
	}
	prog := newProgress(logger)
	if err := srv.Load(ctx); err != nil {
		return err
	}
	prog.done("Built project graph")

	status := cmd.ErrOrStderr()
	printInfo(status, "Serving %s on %s", root, StyleHighlight.Render("http://"+opts.addr))
	printDetail(status, "/healthz /presets /graph /render /reload")
	return srv.ListenAndServe(ctx, opts.addr)
}
