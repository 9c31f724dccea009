// Package pipeline provides the scan → render pipeline behind every furnace
// entry point.
//
// The CLI commands, the watch loop and the HTTP server all run the same
// two stages, so flag handling, config merging and error codes behave the
// same everywhere.
//
// # Architecture
//
//  1. Build: discover manifests, extract declarations on the worker pool and
//     freeze the project graph ([scan.Builder]).
//  2. Render: turn the graph into an artifact in the requested format (text
//     for the four style axes, json/yaml serialization, dot/svg diagrams).
//
// # Usage
//
//	runner := pipeline.NewRunner(logger, hooks)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Root:   "./my-crate",
//	    Preset: "tree",
//	    Format: pipeline.FormatText,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Artifact)
//
// All option errors (unknown preset, axis value or format, bad config file,
// negative worker count) are reported before the project tree is touched.
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/furnace/pkg/config"
	"github.com/matzehuels/furnace/pkg/errors"
	"github.com/matzehuels/furnace/pkg/project"
	"github.com/matzehuels/furnace/pkg/style"
)

// Format constants for output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// DefaultFormat is used when neither flags nor config name a format.
const DefaultFormat = FormatText

// ValidFormats is the set of supported output formats in display order.
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML, FormatDOT, FormatSVG}

// ValidateFormat checks that a format is valid. Format names are
// case-sensitive.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeConfig, "invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// Options contains all configuration for one pipeline run. Fields left
// empty fall back to the project's .furnacerc.toml, then to defaults.
type Options struct {
	Root      string          `json:"root"`
	Preset    string          `json:"preset,omitempty"`
	Overrides style.Overrides `json:"overrides,omitempty"`
	Format    string          `json:"format,omitempty"`
	Workers   int             `json:"workers,omitempty"`
	Ignore    []string        `json:"ignore,omitempty"` // added to the config file's patterns

	// Config replaces the file lookup when set.
	Config *config.Config `json:"-"`
	Logger *log.Logger    `json:"-"`

	// Selection is the resolved style, set by ValidateAndSetDefaults.
	Selection style.Selection `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and server responses.
	RunID uuid.UUID

	// Graph is the frozen project graph.
	Graph *project.Graph

	// Selection and Format describe how Artifact was produced.
	Selection style.Selection
	Format    string

	// Artifact is the rendered output.
	Artifact []byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Units        int
	Namespaces   int
	Files        int
	Declarations int
	Unparsed     int
	Issues       int
	BuildTime    time.Duration
	RenderTime   time.Duration
}

func statsOf(g *project.Graph) Stats {
	c := g.Counts()
	return Stats{
		Units:        c.Units,
		Namespaces:   c.Namespaces,
		Files:        c.Files,
		Declarations: c.Declarations,
		Unparsed:     c.Unparsed,
		Issues:       len(g.Issues()),
	}
}

// ValidateAndSetDefaults checks every option and merges in the config file.
// It does not walk the project tree. The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateProjectRoot(o.Root); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Config == nil {
		cfg, err := config.Load(o.Root)
		if err != nil {
			return err
		}
		for _, table := range cfg.Ignored {
			o.Logger.Warn("config table is not supported and has no effect", "table", table, "file", cfg.Path)
		}
		o.Config = cfg
	}
	if err := o.merge(o.Config); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForRender checks the rendering options only, for callers that
// already hold a graph (re-rendering a serialized graph, the server).
func (o *Options) ValidateForRender() error {
	if o.Config == nil {
		o.Config = config.Default()
	}
	return o.merge(o.Config)
}

// merge applies config values under explicit options and resolves the
// selection. An explicitly named preset replaces the config file's preset
// and its axis values alike; only the caller's overrides apply on top.
func (o *Options) merge(cfg *config.Config) error {
	if o.Preset == "" {
		o.Preset = cfg.Output.Preset
		o.mergeAxes(cfg.Output.Overrides())
	}
	sel, err := style.Resolve(o.Preset, o.Overrides)
	if err != nil {
		return err
	}
	o.Selection = sel

	if o.Format == "" {
		o.Format = cfg.Output.Format
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}

	if err := errors.ValidateWorkers(o.Workers); err != nil {
		return err
	}
	if o.Workers == 0 {
		o.Workers = cfg.Workers
	}
	o.Ignore = append(slices.Clone(cfg.Ignore), o.Ignore...)
	return nil
}

// mergeAxes fills axes the caller left empty.
func (o *Options) mergeAxes(fileAxes style.Overrides) {
	if o.Overrides.Layout == "" {
		o.Overrides.Layout = fileAxes.Layout
	}
	if o.Overrides.Detail == "" {
		o.Overrides.Detail = fileAxes.Detail
	}
	if o.Overrides.Color == "" {
		o.Overrides.Color = fileAxes.Color
	}
	if o.Overrides.Symbols == "" {
		o.Overrides.Symbols = fileAxes.Symbols
	}
}
