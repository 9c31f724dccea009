package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/furnace/pkg/extract"
	"github.com/matzehuels/furnace/pkg/observability"
	"github.com/matzehuels/furnace/pkg/project"
	"github.com/matzehuels/furnace/pkg/scan"
)

// Runner executes pipeline runs.
//
// The Runner is stateless except for its logger, hooks and extractor; it
// doesn't store results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Logger    *log.Logger
	Hooks     observability.Hooks
	Extractor extract.Extractor
}

// NewRunner creates a runner. A nil logger uses [log.Default]; missing
// hooks are no-ops.
func NewRunner(logger *log.Logger, hooks observability.Hooks) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Logger:    logger,
		Hooks:     hooks.WithDefaults(),
		Extractor: extract.NewRust(),
	}
}

// Execute runs the complete build → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.New(),
		Selection: opts.Selection,
		Format:    opts.Format,
	}
	logger := opts.Logger.With("run", result.RunID.String()[:8])

	// Stage 1: Build
	buildStart := time.Now()
	g, err := r.build(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats = statsOf(g)
	result.Stats.BuildTime = time.Since(buildStart)

	logger.Info("built project graph",
		"units", result.Stats.Units,
		"namespaces", result.Stats.Namespaces,
		"declarations", result.Stats.Declarations,
		"duration", result.Stats.BuildTime)
	if result.Stats.Unparsed > 0 || result.Stats.Issues > 0 {
		logger.Warn("partial results",
			"unparsed", result.Stats.Unparsed,
			"issues", result.Stats.Issues)
	}

	// Stage 2: Render
	artifact, dur, err := renderWithHooks(ctx, r.Hooks.WithDefaults().Render, g, opts.Selection, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifact = artifact
	result.Stats.RenderTime = dur

	logger.Debug("rendered artifact",
		"format", opts.Format,
		"selection", opts.Selection.String(),
		"bytes", len(artifact),
		"duration", dur)

	return result, nil
}

// Build runs the build stage only.
func (r *Runner) Build(ctx context.Context, opts Options) (*project.Graph, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return r.build(ctx, opts, opts.Logger)
}

// Render renders an existing graph, applying the same option validation
// as a full run except for the project root.
func (r *Runner) Render(ctx context.Context, g *project.Graph, opts Options) ([]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	data, _, err := renderWithHooks(ctx, r.Hooks.WithDefaults().Render, g, opts.Selection, opts.Format)
	return data, err
}

func (r *Runner) build(ctx context.Context, opts Options, logger *log.Logger) (*project.Graph, error) {
	b, err := scan.NewBuilder(scan.Options{
		Extractor: r.Extractor,
		Ignore:    opts.Ignore,
		Workers:   opts.Workers,
		Logger:    logger,
		Hooks:     r.Hooks,
	})
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, opts.Root)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
