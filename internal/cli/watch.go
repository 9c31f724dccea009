package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/furnace/pkg/config"
	"github.com/matzehuels/furnace/pkg/errors"
	"github.com/matzehuels/furnace/pkg/pipeline"
	"github.com/matzehuels/furnace/pkg/scan"
)

// defaultDebounce collapses bursts of file events (editors writing a temp
// file and renaming it) into one rebuild.
const defaultDebounce = 200 * time.Millisecond

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

type watchOpts struct {
	style    styleFlags
	workers  int
	clear    bool
	debounce time.Duration
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	opts := watchOpts{debounce: defaultDebounce}

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-render a project whenever its sources change",
		Long: `Watch renders the project, then rebuilds the graph from scratch and
renders it again whenever a .rs file, a Cargo.toml or .furnacerc.toml
changes. Build errors are reported and watching continues.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd, rootArg(args), &opts)
		},
	}

	opts.style.register(cmd, false)
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "extraction workers (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "clear the terminal before each render")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", opts.debounce, "quiet period before rebuilding")

	return cmd
}

func (c *CLI) runWatch(cmd *cobra.Command, root string, opts *watchOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out, status := cmd.OutOrStdout(), cmd.ErrOrStderr()

	base := pipeline.Options{Root: root, Workers: opts.workers, Logger: logger, Format: pipeline.FormatText}
	opts.style.apply(&base)
	base.Format = pipeline.FormatText

	// Bad flags or config abort before watching starts. Later config edits
	// are picked up by the rebuild instead.
	check := base
	if err := check.ValidateAndSetDefaults(); err != nil {
		return err
	}

	w, err := newWatcher(root, check.Ignore, opts.debounce, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	runner := c.newRunner()
	rebuild := func(ctx context.Context) {
		prog := newProgress(logger)
		result, err := runner.Execute(ctx, base)
		if err != nil {
			if ctx.Err() == nil {
				printError(status, "%s", errors.UserMessage(err))
			}
			return
		}
		if opts.clear {
			_, _ = io.WriteString(out, clearScreen)
		}
		_, _ = out.Write(result.Artifact)
		prog.done(fmt.Sprintf("Rendered %s", plural(result.Stats.Namespaces, "namespace")))
	}

	printInfo(status, "Watching %s %s", root, StyleDim.Render("(ctrl+c to stop)"))
	return w.Run(ctx, rebuild)
}

// watcher watches every traversed directory of a project and calls a
// rebuild function after relevant changes settle.
type watcher struct {
	root     string
	filter   *scan.Filter
	debounce time.Duration
	logger   *log.Logger
	fs       *fsnotify.Watcher
}

func newWatcher(root string, ignore []string, debounce time.Duration, logger *log.Logger) (*watcher, error) {
	filter, err := scan.NewFilter(ignore)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create file watcher")
	}
	w := &watcher{root: root, filter: filter, debounce: debounce, logger: logger, fs: fw}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and every directory below it the scanner would
// traverse.
func (w *watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("watch skipped", "path", p, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if !w.filter.Dir(w.rel(p)).Include {
			return filepath.SkipDir
		}
		if err := w.fs.Add(p); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "watch %s", p)
		}
		return nil
	})
}

func (w *watcher) rel(p string) string {
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

// relevant reports whether an event can change the graph or the config.
func (w *watcher) relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	switch filepath.Base(ev.Name) {
	case scan.ManifestName, config.FileName:
		return true
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			return w.filter.Dir(w.rel(ev.Name)).Include
		}
	}
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		// A removed directory no longer stats; treat any traversable path as
		// relevant so deleted modules disappear.
		if w.filter.Dir(w.rel(ev.Name)).Include && filepath.Ext(ev.Name) == "" {
			return true
		}
	}
	return w.filter.File(w.rel(ev.Name)).Include
}

// Run calls rebuild once, then after every settled batch of relevant
// events, until ctx is cancelled.
func (w *watcher) Run(ctx context.Context, rebuild func(context.Context)) error {
	rebuild(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn("watch failed", "path", ev.Name, "error", err)
					}
				}
			}
			w.logger.Debug("change", "path", w.rel(ev.Name), "op", ev.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			rebuild(ctx)
		}
	}
}

// Close stops watching.
func (w *watcher) Close() error {
	return w.fs.Close()
}
