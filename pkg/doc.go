// Package pkg provides the core libraries for furnace, a Rust project
// structure analyzer.
//
// # Overview
//
// Furnace turns a Rust crate or workspace into a project graph of units
// (Cargo packages), namespaces (modules) and declarations (functions,
// structs, traits, enums), then renders that graph along four independent
// style axes. The pkg directory is organized by stage:
//
//  1. [scan] - Manifest discovery, path filtering and the worker-pool builder
//  2. [extract] - Tree-sitter declaration extraction for .rs files
//  3. [project] - The frozen, immutable project graph
//  4. [style] and [render] - Axis selection, presets and text rendering
//  5. [io] - JSON/YAML serialization that round-trips the graph
//  6. [pipeline] - Orchestration (build → render) shared by every entry point
//
// Supporting packages: [config] (.furnacerc.toml), [lint] (threshold and
// naming rules), [cache] (in-process artifact cache), [observability]
// (hooks), [errors] (coded errors) and [buildinfo].
//
// # Architecture
//
// The typical data flow through furnace:
//
//	Cargo.toml + src/**/*.rs
//	         ↓
//	    [scan] package (discover units, filter paths, extract in parallel)
//	         ↓
//	    [project] package (frozen Graph)
//	         ↓
//	    [render] / [io] / [render/nodelink]
//	         ↓
//	    text, JSON, YAML, DOT or SVG artifact
//
// # Quick Start
//
//	runner := pipeline.NewRunner(logger, observability.Hooks{})
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Root:   "./my-crate",
//	    Preset: "verbose",
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Artifact)
//
// Rendering an already-built graph with another selection needs no rescan:
//
//	sel, _ := style.Resolve("grid", style.Overrides{Symbols: "ascii"})
//	out := render.Render(result.Graph, sel)
package pkg
