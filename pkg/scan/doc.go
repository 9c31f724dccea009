// Package scan builds a project graph from a Rust project tree on disk.
//
// # Discovery
//
// Every Cargo.toml under the root (subject to the [Filter]) is parsed in
// lexicographic path order. A manifest with a [workspace] table claims the
// manifests below it: only those matching its members globs, minus its
// exclude list, become units. Every remaining manifest with a [package]
// table yields one unit.
//
// # Module paths
//
// Each eligible .rs file contributes to exactly one namespace, given by
// [ModulePath]. Files contributing to the same namespace (src/net.rs and
// src/net/mod.rs) are merged in discovery order. Inline mod blocks become
// child namespaces.
//
// # Concurrency
//
// Files are read and extracted on an errgroup-bounded worker pool. A single
// collector goroutine stores results by discovery index, so graphs are
// byte-for-byte identical whatever the worker count or completion order.
package scan
