package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/furnace/pkg/buildinfo"
	"github.com/matzehuels/furnace/pkg/observability"
	"github.com/matzehuels/furnace/pkg/pipeline"
	"github.com/matzehuels/furnace/pkg/style"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "furnace"

	// defaultAddr is where serve listens unless --addr is given.
	defaultAddr = "127.0.0.1:8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Furnace maps Rust projects into namespace and declaration trees",
		Long:         `Furnace scans a Rust crate or workspace, extracts the declarations of every module and renders the result as text, tables, serialized graphs or diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.lintCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner that reports progress through the
// CLI logger.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger, observability.NewLogHooks(c.Logger).All())
}

// =============================================================================
// Options Helpers
// =============================================================================

// styleFlags holds the flags shared by every command that renders.
type styleFlags struct {
	preset  string
	layout  string
	detail  string
	color   string
	symbols string
	format  string
}

// register adds the style flags to cmd. withFormat controls whether
// --format is offered.
func (f *styleFlags) register(cmd *cobra.Command, withFormat bool) {
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "named preset, replaces the config file's [output] style: "+strings.Join(style.PresetNames(), ", "))
	cmd.Flags().StringVar(&f.layout, "layout", "", "layout: plain, tree, grid, compact")
	cmd.Flags().StringVar(&f.detail, "detail", "", "detail: minimal, standard, verbose")
	cmd.Flags().StringVar(&f.color, "color", "", "color: none, standard, badges")
	cmd.Flags().StringVar(&f.symbols, "symbols", "", "symbols: none, ascii, unicode")
	if withFormat {
		cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: "+strings.Join(pipeline.ValidFormats, ", "))
	}

	_ = cmd.RegisterFlagCompletionFunc("preset", fixedCompletion(style.PresetNames()...))
	_ = cmd.RegisterFlagCompletionFunc("layout", fixedCompletion("plain", "tree", "grid", "compact"))
	_ = cmd.RegisterFlagCompletionFunc("detail", fixedCompletion("minimal", "standard", "verbose"))
	_ = cmd.RegisterFlagCompletionFunc("color", fixedCompletion("none", "standard", "badges"))
	_ = cmd.RegisterFlagCompletionFunc("symbols", fixedCompletion("none", "ascii", "unicode"))
	if withFormat {
		_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(pipeline.ValidFormats...))
	}
}

// apply copies the flags into opts.
func (f *styleFlags) apply(opts *pipeline.Options) {
	opts.Preset = f.preset
	opts.Overrides = style.Overrides{
		Layout:  f.layout,
		Detail:  f.detail,
		Color:   f.color,
		Symbols: f.symbols,
	}
	opts.Format = f.format
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
