// Package server serves one project graph over HTTP.
//
// The graph is built once at startup (and again on POST /reload) and then
// rendered concurrently for every request. Routes:
//
//	GET  /healthz   liveness and build version
//	GET  /presets   the preset table
//	GET  /graph     the serialized graph (?format=json|yaml)
//	GET  /render    an artifact (?preset, layout, detail, color, symbols,
//	                format, unit, namespace)
//	POST /reload    rebuild the graph from disk
//
// Invalid query values are answered with 400 and a JSON error body carrying
// the error code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/furnace/pkg/cache"
	"github.com/matzehuels/furnace/pkg/extract"
	furnaceio "github.com/matzehuels/furnace/pkg/io"
	"github.com/matzehuels/furnace/pkg/observability"
	"github.com/matzehuels/furnace/pkg/pipeline"
	"github.com/matzehuels/furnace/pkg/project"
)

// Timeouts applied by [Server.ListenAndServe].
const (
	ReadTimeout     = 30 * time.Second
	WriteTimeout    = 60 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 10 * time.Second
)

// snapshot is one built graph and the hash identifying it in the cache.
type snapshot struct {
	graph   *project.Graph
	hash    string
	builtAt time.Time
}

// Server renders a project graph on demand.
type Server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	logger *log.Logger
	hooks  observability.ServerHooks
	cache  cache.Cache

	mu    sync.RWMutex
	state *snapshot
}

// New creates a server. base supplies the project root and the defaults
// request parameters fall back to.
func New(runner *pipeline.Runner, base pipeline.Options, logger *log.Logger, hooks observability.Hooks) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		base:   base,
		logger: logger,
		hooks:  hooks.WithDefaults().Server,
		cache:  cache.NewMemory(cache.DefaultMaxEntries),
	}
}

// DisableCache makes every render request build its artifact afresh.
func (s *Server) DisableCache() {
	s.cache = cache.NewNullCache()
}

// Load builds the graph from disk and makes it current.
func (s *Server) Load(ctx context.Context) error {
	g, err := s.runner.Build(ctx, s.base)
	if err != nil {
		return err
	}
	return s.SetGraph(g)
}

// SetGraph makes g the served graph.
func (s *Server) SetGraph(g *project.Graph) error {
	data, err := furnaceio.Marshal(g, furnaceio.JSON)
	if err != nil {
		return err
	}
	snap := &snapshot{graph: g, hash: extract.Hash(data), builtAt: time.Now()}

	s.mu.Lock()
	s.state = snap
	s.mu.Unlock()

	s.logger.Info("graph loaded", "name", g.Name(), "units", g.UnitCount(), "hash", snap.hash[:12])
	return nil
}

func (s *Server) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/presets", s.handlePresets)

	r.Group(func(r chi.Router) {
		r.Use(s.requireGraph)
		r.Get("/graph", s.handleGraph)
		r.Get("/render", s.handleRender)
	})
	r.Post("/reload", s.handleReload)

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
