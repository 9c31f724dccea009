package scan

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/furnace/pkg/errors"
	"github.com/matzehuels/furnace/pkg/extract"
	"github.com/matzehuels/furnace/pkg/observability"
	"github.com/matzehuels/furnace/pkg/project"
)

// Options configures a [Builder]. The zero value is usable: Rust extraction,
// no ignore patterns, one worker per CPU, silent logging.
type Options struct {
	Extractor extract.Extractor
	Ignore    []string // doublestar patterns relative to the project root
	Workers   int      // 0 selects runtime.NumCPU()
	Logger    *log.Logger
	Hooks     observability.Hooks
}

// Builder turns a project tree into a frozen [project.Graph].
//
// A Builder holds no state between calls; Build may be called repeatedly
// (the watch command rebuilds from scratch on every change).
type Builder struct {
	extractor extract.Extractor
	filter    *Filter
	workers   int
	logger    *log.Logger
	hooks     observability.Hooks
}

// NewBuilder validates opts. Invalid ignore patterns and negative worker
// counts are CONFIG errors.
func NewBuilder(opts Options) (*Builder, error) {
	if err := errors.ValidateWorkers(opts.Workers); err != nil {
		return nil, err
	}
	filter, err := NewFilter(opts.Ignore)
	if err != nil {
		return nil, err
	}
	b := &Builder{
		extractor: opts.Extractor,
		filter:    filter,
		workers:   opts.Workers,
		logger:    opts.Logger,
		hooks:     opts.Hooks.WithDefaults(),
	}
	if b.extractor == nil {
		b.extractor = extract.NewRust()
	}
	if b.workers == 0 {
		b.workers = runtime.NumCPU()
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b, nil
}

// Filter returns the path filter the builder applies.
func (b *Builder) Filter() *Filter { return b.filter }

// Build discovers the units under root, extracts every eligible source file
// and returns the frozen graph.
//
// Only a missing manifest (DISCOVERY) or context cancellation fail the
// build. Unreadable files and extraction failures mark their namespace
// Unparsed; unreadable directories and manifests become graph issues.
func (b *Builder) Build(ctx context.Context, root string) (*project.Graph, error) {
	start := time.Now()
	b.hooks.Scan.OnBuildStart(ctx, root)

	g, files, err := b.build(ctx, root)

	units := 0
	if g != nil {
		units = g.UnitCount()
	}
	b.hooks.Scan.OnBuildComplete(ctx, root, units, files, time.Since(start), err)
	return g, err
}

// job is one source file scheduled for extraction.
type job struct {
	unit int    // index into the discovered units
	rel  string // relative to the unit root
	path string // absolute
}

// fileResult is what a worker produced for one job.
type fileResult struct {
	hash  string
	res   *extract.Result
	issue *project.Issue
}

type indexedResult struct {
	index  int
	result fileResult
}

func (b *Builder) build(ctx context.Context, root string) (*project.Graph, int, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", root)
	}

	disc, err := discover(ctx, abs, b.filter)
	if err != nil {
		return nil, 0, err
	}
	b.logger.Debug("discovered units", "count", len(disc.units), "issues", len(disc.issues))

	a := project.NewAssembler(disc.name, displayPath(abs))
	issues := newIssueSet()
	issues.add(disc.issues...)

	unitIdx := make([]int, len(disc.units))
	for i, u := range disc.units {
		idx, err := a.AddUnit(u)
		if err != nil {
			return nil, 0, errors.Wrap(errors.ErrCodeInternal, err, "add unit %s", u.Name)
		}
		unitIdx[i] = idx
	}
	if len(disc.units) == 0 {
		b.logger.Warn("manifests found but no packages", "root", abs)
	}

	jobs, err := b.collect(ctx, abs, disc, issues)
	if err != nil {
		return nil, 0, err
	}
	b.logger.Debug("collected source files", "files", len(jobs), "workers", b.workers)

	results, err := b.extractAll(ctx, jobs)
	if err != nil {
		return nil, 0, err
	}

	for i, j := range jobs {
		if err := assemble(a, unitIdx[j.unit], j.rel, results[i]); err != nil {
			return nil, 0, errors.Wrap(errors.ErrCodeInternal, err, "assemble %s", j.rel)
		}
	}
	for _, is := range issues.list {
		_ = a.AddIssue(is)
	}
	return a.Freeze(), len(jobs), nil
}

// collect walks every unit root and lists eligible files in lexicographic
// order. Directories holding another manifest are skipped: they are either
// units of their own or packages outside the workspace.
func (b *Builder) collect(ctx context.Context, root string, disc *discovery, issues *issueSet) ([]job, error) {
	var jobs []job
	for ui, u := range disc.units {
		unitAbs := filepath.Join(root, filepath.FromSlash(disc.roots[ui]))
		err := filepath.WalkDir(unitAbs, func(p string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			rel := relPath(root, p)
			if err != nil {
				issues.add(project.Issue{Kind: project.IssueIO, Path: displayPath(rel), Message: ioMessage(err)})
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if p != unitAbs && disc.manifests[rel] {
					return fs.SkipDir
				}
				if !b.filter.Dir(rel).Include {
					return fs.SkipDir
				}
				checkName(d.Name(), rel, issues)
				return nil
			}
			if b.filter.File(rel).Include {
				checkName(d.Name(), rel, issues)
				jobs = append(jobs, job{unit: ui, rel: displayPath(relPath(unitAbs, p)), path: p})
			}
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			issues.add(project.Issue{Kind: project.IssueIO, Path: u.Root, Message: ioMessage(err)})
		}
	}
	return jobs, nil
}

// checkName records an issue for a path component that is not valid UTF-8.
// The entry is still scanned under its replaced name.
func checkName(name, rel string, issues *issueSet) {
	if utf8.ValidString(name) {
		return
	}
	issues.add(project.Issue{
		Kind:    project.IssueIO,
		Path:    displayPath(rel),
		Message: "name is not valid UTF-8, invalid bytes replaced",
	})
}

// extractAll reads and extracts jobs on the worker pool. Workers send
// results to a single collector which stores them by job index, so the
// returned slice is in discovery order regardless of completion order.
func (b *Builder) extractAll(ctx context.Context, jobs []job) ([]fileResult, error) {
	results := make([]fileResult, len(jobs))
	out := make(chan indexedResult)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range out {
			results[r.index] = r.result
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := b.extractOne(gctx, j)
			if err := gctx.Err(); err != nil {
				return err
			}
			var hookErr error
			if r.issue != nil {
				hookErr = stderrors.New(r.issue.Message)
			}
			b.hooks.Scan.OnFileExtracted(gctx, j.rel, r.res.Count(), hookErr)

			select {
			case out <- indexedResult{index: i, result: r}:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	err := g.Wait()
	close(out)
	<-done
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (b *Builder) extractOne(ctx context.Context, j job) fileResult {
	data, err := os.ReadFile(j.path)
	if err != nil {
		b.logger.Warn("unreadable source file", "path", j.rel, "error", err)
		return fileResult{issue: &project.Issue{Kind: project.IssueIO, Path: j.rel, Message: ioMessage(err)}}
	}
	r := fileResult{hash: extract.Hash(data)}
	res, err := b.extractor.Extract(ctx, j.rel, data)
	if err != nil {
		b.logger.Warn("extraction failed", "path", j.rel, "error", err)
		r.issue = &project.Issue{Kind: project.IssueExtraction, Path: j.rel, Message: err.Error()}
		return r
	}
	r.res = res
	return r
}

func assemble(a *project.Assembler, unit int, rel string, r fileResult) error {
	segs := ModulePath(rel)
	id, err := a.Namespace(unit, segs)
	if err != nil {
		return err
	}
	file := project.SourceFile{Path: rel, Hash: r.hash}
	if err := a.AddFile(id, file); err != nil {
		return err
	}
	if r.issue != nil {
		return a.MarkUnparsed(id, *r.issue)
	}
	if r.res == nil {
		return nil
	}
	if err := a.AddDeclarations(id, r.res.Decls...); err != nil {
		return err
	}
	return addModules(a, unit, segs, file, r.res.Modules)
}

func addModules(a *project.Assembler, unit int, parent []string, file project.SourceFile, mods []extract.Module) error {
	for _, m := range mods {
		segs := append(slices.Clip(parent), m.Name)
		id, err := a.Namespace(unit, segs)
		if err != nil {
			return err
		}
		if err := a.AddFile(id, file); err != nil {
			return err
		}
		if err := a.AddDeclarations(id, m.Decls...); err != nil {
			return err
		}
		if err := addModules(a, unit, segs, file, m.Modules); err != nil {
			return err
		}
	}
	return nil
}

// ioMessage strips the absolute path from filesystem errors so recorded
// issues do not depend on where the project is checked out.
func ioMessage(err error) string {
	var pe *fs.PathError
	if stderrors.As(err, &pe) {
		return pe.Op + ": " + pe.Err.Error()
	}
	return err.Error()
}

// issueSet records graph-level issues once each, in first-seen order. The
// manifest walk and the unit walks can both hit the same unreadable
// directory.
type issueSet struct {
	seen map[project.Issue]bool
	list []project.Issue
}

func newIssueSet() *issueSet {
	return &issueSet{seen: make(map[project.Issue]bool)}
}

func (s *issueSet) add(issues ...project.Issue) {
	for _, is := range issues {
		if s.seen[is] {
			continue
		}
		s.seen[is] = true
		s.list = append(s.list, is)
	}
}
