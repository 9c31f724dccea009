package scan

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/furnace/pkg/errors"
)

// SourceExt is the only file extension the builder extracts.
const SourceExt = ".rs"

// BuildOutputDirs are directory names that hold compiler output.
var BuildOutputDirs = []string{"target"}

// Reason explains a filter decision.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonBuildOutput Reason = "build output"
	ReasonIgnored     Reason = "ignore pattern"
	ReasonHidden      Reason = "hidden"
	ReasonExtension   Reason = "not a source file"
)

// Decision is the outcome of a filter check.
type Decision struct {
	Include bool
	Reason  Reason
}

var include = Decision{Include: true}

func exclude(r Reason) Decision { return Decision{Reason: r} }

// Filter decides which paths are eligible for traversal. Paths are relative
// to the project root, slash separated; "." is the root itself and is always
// included. Rules, first match wins:
//
//  1. a segment names a build output directory, or a user ignore pattern matches
//  2. a segment starts with "."
//  3. (files only) the extension is not [SourceExt]
//
// A Filter is immutable and safe for concurrent use.
type Filter struct {
	buildDirs map[string]bool
	ignore    []string
}

// NewFilter compiles user ignore patterns (doublestar syntax). Patterns
// without a slash match at any depth, like gitignore entries. An invalid
// pattern is a CONFIG error.
func NewFilter(ignore []string) (*Filter, error) {
	f := &Filter{buildDirs: make(map[string]bool, len(BuildOutputDirs))}
	for _, d := range BuildOutputDirs {
		f.buildDirs[d] = true
	}
	for _, raw := range ignore {
		p := strings.Trim(strings.TrimSpace(raw), "/")
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			p = "**/" + p
		}
		if !doublestar.ValidatePattern(p) {
			return nil, errors.New(errors.ErrCodeConfig, "invalid ignore pattern %q", raw)
		}
		f.ignore = append(f.ignore, p)
	}
	return f, nil
}

// Dir decides whether a directory is traversed. Excluding a directory
// excludes everything below it.
func (f *Filter) Dir(rel string) Decision {
	rel = normalize(rel)
	if rel == "." {
		return include
	}
	segs := strings.Split(rel, "/")
	return f.check(rel, segs, segs)
}

// File decides whether a file is extracted.
func (f *Filter) File(rel string) Decision {
	rel = normalize(rel)
	segs := strings.Split(rel, "/")
	if d := f.check(rel, segs[:len(segs)-1], segs); !d.Include {
		return d
	}
	if path.Ext(rel) != SourceExt {
		return exclude(ReasonExtension)
	}
	return include
}

// Ignored reports whether rel matches a user ignore pattern.
func (f *Filter) Ignored(rel string) bool { return f.ignored(normalize(rel)) }

// check applies the build-output rule to dirSegs, then ignore patterns, then
// the hidden rule to hiddenSegs. A file named "target.rs" is not build output.
func (f *Filter) check(rel string, dirSegs, hiddenSegs []string) Decision {
	for _, s := range dirSegs {
		if f.buildDirs[s] {
			return exclude(ReasonBuildOutput)
		}
	}
	if f.ignored(rel) {
		return exclude(ReasonIgnored)
	}
	for _, s := range hiddenSegs {
		if strings.HasPrefix(s, ".") {
			return exclude(ReasonHidden)
		}
	}
	return include
}

func (f *Filter) ignored(rel string) bool {
	for _, p := range f.ignore {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p+"/**", rel); ok {
			return true
		}
	}
	return false
}

func normalize(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	if rel == "" {
		return "."
	}
	return path.Clean(strings.TrimPrefix(rel, "./"))
}
