package scan

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/furnace/pkg/errors"
	"github.com/matzehuels/furnace/pkg/project"
)

// ManifestName is the file that marks a compilable unit.
const ManifestName = "Cargo.toml"

// DefaultVersion is recorded for packages without a resolvable version.
const DefaultVersion = "0.0.0"

type cargoManifest struct {
	Package   *cargoPackage   `toml:"package"`
	Workspace *cargoWorkspace `toml:"workspace"`
}

type cargoPackage struct {
	Name    string `toml:"name"`
	Version any    `toml:"version"` // string, or {workspace = true}
}

type cargoWorkspace struct {
	Members []string `toml:"members"`
	Exclude []string `toml:"exclude"`
	Package struct {
		Version string `toml:"version"`
	} `toml:"package"`
}

type manifestEntry struct {
	dir      string // relative to the project root
	manifest cargoManifest
}

// discovery is the outcome of manifest enumeration.
type discovery struct {
	name   string
	units  []project.Unit
	issues []project.Issue

	// roots holds the on-disk directory of each unit, parallel to units.
	// Unit.Root is the display form and may differ for non-UTF-8 names.
	roots []string
	// manifests is every directory holding a manifest, member or not.
	manifests map[string]bool
}

// discover walks root with the filter, parses every manifest it finds, and
// expands workspaces into units. It fails with a DISCOVERY error when there
// is no manifest at all.
func discover(ctx context.Context, root string, filter *Filter) (*discovery, error) {
	var (
		dirs   []string
		issues []project.Issue
	)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel := relPath(root, p)
		if err != nil {
			if rel == "." {
				return err
			}
			issues = append(issues, project.Issue{Kind: project.IssueIO, Path: displayPath(rel), Message: ioMessage(err)})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !filter.Dir(rel).Include {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() == ManifestName && !filter.Ignored(rel) {
			dirs = append(dirs, path.Dir(rel))
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeDiscovery, err, "walk %s", root)
	}
	if len(dirs) == 0 {
		return nil, errors.New(errors.ErrCodeDiscovery, "no %s found under %s", ManifestName, root)
	}
	sort.Slice(dirs, func(i, j int) bool { return manifestPath(dirs[i]) < manifestPath(dirs[j]) })

	var entries []manifestEntry
	for _, dir := range dirs {
		m, err := readManifest(filepath.Join(root, filepath.FromSlash(manifestPath(dir))))
		if err != nil {
			issues = append(issues, project.Issue{
				Kind:    project.IssueManifest,
				Path:    displayPath(manifestPath(dir)),
				Message: ioMessage(err),
			})
			continue
		}
		entries = append(entries, manifestEntry{dir: dir, manifest: *m})
	}

	out := &discovery{name: displayPath(filepath.Base(root)), issues: issues, manifests: make(map[string]bool, len(dirs))}
	for _, dir := range dirs {
		out.manifests[dir] = true
	}
	for _, e := range entries {
		if e.dir == "." && e.manifest.Package != nil && e.manifest.Package.Name != "" {
			out.name = e.manifest.Package.Name
		}
	}

	for _, e := range entries {
		pkg := e.manifest.Package
		if pkg == nil {
			continue
		}
		ws := owningWorkspace(e.dir, entries)
		if ws != nil && !isMember(ws.dir, e.dir, ws.manifest.Workspace) {
			continue
		}
		if pkg.Name == "" {
			out.issues = append(out.issues, project.Issue{
				Kind:    project.IssueManifest,
				Path:    displayPath(manifestPath(e.dir)),
				Message: "package has no name",
			})
			continue
		}
		var wsDecl *cargoWorkspace
		if ws != nil {
			wsDecl = ws.manifest.Workspace
		}
		out.units = append(out.units, project.Unit{
			Name:     pkg.Name,
			Version:  packageVersion(pkg.Version, wsDecl),
			Root:     displayPath(e.dir),
			Manifest: displayPath(manifestPath(e.dir)),
		})
		out.roots = append(out.roots, e.dir)
	}
	return out, nil
}

func readManifest(p string) (*cargoManifest, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var m cargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// owningWorkspace returns the nearest workspace manifest at or above dir.
func owningWorkspace(dir string, entries []manifestEntry) *manifestEntry {
	var best *manifestEntry
	for i := range entries {
		e := &entries[i]
		if e.manifest.Workspace == nil || !within(dir, e.dir) {
			continue
		}
		if best == nil || len(e.dir) > len(best.dir) || best.dir == "." {
			best = e
		}
	}
	return best
}

// isMember reports whether the package at dir belongs to the workspace at
// wsDir: the workspace root itself, or a path matching a members glob and
// no exclude entry.
func isMember(wsDir, dir string, ws *cargoWorkspace) bool {
	if dir == wsDir {
		return true
	}
	rel := dir
	if wsDir != "." {
		rel = strings.TrimPrefix(dir, wsDir+"/")
	}
	for _, ex := range ws.Exclude {
		if matchMember(ex, rel) {
			return false
		}
	}
	for _, m := range ws.Members {
		if matchMember(m, rel) {
			return true
		}
	}
	return false
}

func matchMember(pattern, rel string) bool {
	pattern = path.Clean(strings.TrimPrefix(strings.TrimSpace(pattern), "./"))
	if pattern == rel {
		return true
	}
	ok, _ := doublestar.Match(pattern, rel)
	return ok
}

func packageVersion(v any, ws *cargoWorkspace) string {
	switch v := v.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		if inherit, _ := v["workspace"].(bool); inherit && ws != nil && ws.Package.Version != "" {
			return ws.Package.Version
		}
	}
	return DefaultVersion
}

// within reports whether dir equals base or lies below it.
func within(dir, base string) bool {
	return base == "." || dir == base || strings.HasPrefix(dir, base+"/")
}

func manifestPath(dir string) string {
	if dir == "." {
		return ManifestName
	}
	return dir + "/" + ManifestName
}

// relPath returns p relative to root with forward slashes. The result
// addresses the file on disk; pass it through displayPath before storing it
// in the graph.
func relPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// displayPath makes a path safe to store in the graph. Serialized graphs
// are UTF-8, so invalid bytes are replaced up front and a restored graph
// renders exactly like the one that was built.
func displayPath(p string) string {
	return strings.ToValidUTF8(p, string(utf8.RuneError))
}
