// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers pass a [Hooks]
// value through the builder and pipeline options and receive events about
// graph construction, rendering, and HTTP serving.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Carry the chosen implementations in a per-invocation [Hooks] value
//
// There is no global registry: two pipelines in one process can report to
// different backends.
//
// # Usage
//
//	hooks := observability.Hooks{Scan: observability.NewLogHooks(logger)}
//	b, _ := scan.NewBuilder(scan.Options{Hooks: hooks})
//
// Libraries call hooks through the value they were given:
//
//	h.Scan.OnBuildStart(ctx, root)
//	// ... build ...
//	h.Scan.OnBuildComplete(ctx, root, units, files, duration, err)
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Scan Hooks
// =============================================================================

// ScanHooks receives events from graph construction.
type ScanHooks interface {
	OnBuildStart(ctx context.Context, root string)
	OnBuildComplete(ctx context.Context, root string, units, files int, duration time.Duration, err error)

	// OnFileExtracted is called from worker goroutines and must be safe for
	// concurrent use. err is the read or extraction failure, if any.
	OnFileExtracted(ctx context.Context, path string, decls int, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the rendering pipeline.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP render server.
type ServerHooks interface {
	OnRequest(ctx context.Context, requestID, method, path string)
	OnResponse(ctx context.Context, requestID, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnBuildStart(context.Context, string)                                    {}
func (NoopScanHooks) OnBuildComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopScanHooks) OnFileExtracted(context.Context, string, int, error)                     {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string)                        {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}

// =============================================================================
// Hook Set
// =============================================================================

// Hooks bundles one implementation per event category. Nil fields are
// treated as no-ops; call [Hooks.WithDefaults] before use.
type Hooks struct {
	Scan   ScanHooks
	Render RenderHooks
	Server ServerHooks
}

// WithDefaults returns a copy with every nil field replaced by its no-op
// implementation.
func (h Hooks) WithDefaults() Hooks {
	if h.Scan == nil {
		h.Scan = NoopScanHooks{}
	}
	if h.Render == nil {
		h.Render = NoopRenderHooks{}
	}
	if h.Server == nil {
		h.Server = NoopServerHooks{}
	}
	return h
}
