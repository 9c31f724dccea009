// Package project defines the semantic graph of a Rust project.
//
// A [Graph] holds the compilable units (Cargo packages) of one project or
// workspace. Each [Unit] owns a tree of [Namespace] values (Rust modules),
// and each namespace holds the [Declaration] values defined directly in it:
// functions, aggregates (structs and unions), contracts (traits) and
// variants (enums).
//
// # Storage
//
// Namespaces live in a flat arena indexed by [NamespaceID]. Parent and child
// links are indices into that arena, which keeps the structure free of
// pointer cycles and makes serialization a flat dump.
//
// # Lifecycle
//
// Graphs are built with an [Assembler]: add units, get-or-create namespaces
// by path, attach declarations, then call [Assembler.Freeze]. A frozen Graph
// is never mutated again, so any number of goroutines may read it
// concurrently without locking. Accessors return copies of the top-level
// slices; nested slices (children, declarations) are shared and must be
// treated as read-only.
//
// # Ordering
//
// Units keep insertion order, namespaces keep first-creation order, and
// Freeze sorts the declarations of every namespace by source line within
// each file, files taken in the order they were attached.
package project
