package scan

import (
	"strings"

	"github.com/matzehuels/furnace/pkg/project"
)

// ModulePath maps a source file (relative to its unit root, slash
// separated) to the namespace path it contributes to.
//
//	src/lib.rs          -> crate
//	src/main.rs         -> crate
//	src/net/mod.rs      -> crate::net
//	src/net/tcp.rs      -> crate::net::tcp
//	src/bin/tool.rs     -> crate::bin::tool
//	tests/it.rs         -> tests::it
//	build.rs            -> build
func ModulePath(rel string) []string {
	rel = strings.TrimSuffix(normalize(rel), SourceExt)
	segs := strings.Split(rel, "/")
	if len(segs) > 0 && segs[0] == "src" {
		segs[0] = project.RootNamespace
	}
	if n := len(segs); n > 1 && segs[n-1] == "mod" {
		segs = segs[:n-1]
	}
	if n := len(segs); n == 2 && segs[0] == project.RootNamespace && (segs[1] == "lib" || segs[1] == "main") {
		segs = segs[:1]
	}
	if len(segs) == 0 || (len(segs) == 1 && segs[0] == "") {
		return []string{project.RootNamespace}
	}
	return segs
}
