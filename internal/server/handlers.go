package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/matzehuels/furnace/pkg/buildinfo"
	"github.com/matzehuels/furnace/pkg/cache"
	"github.com/matzehuels/furnace/pkg/errors"
	furnaceio "github.com/matzehuels/furnace/pkg/io"
	"github.com/matzehuels/furnace/pkg/pipeline"
	"github.com/matzehuels/furnace/pkg/render"
	"github.com/matzehuels/furnace/pkg/style"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Graph   string `json:"graph,omitempty"`
}

// PresetResponse is one entry of GET /presets.
type PresetResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Layout      string `json:"layout"`
	Detail      string `json:"detail"`
	Color       string `json:"color"`
	Symbols     string `json:"symbols"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Version: buildinfo.Version}
	if snap := s.current(); snap != nil {
		resp.Graph = snap.hash
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	presets := style.Presets()
	out := make([]PresetResponse, len(presets))
	for i, p := range presets {
		out[i] = PresetResponse{
			Name:        p.Name,
			Description: p.Description,
			Layout:      p.Selection.Layout.String(),
			Detail:      p.Selection.Detail.String(),
			Color:       p.Selection.Color.String(),
			Symbols:     p.Selection.Symbols.String(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(furnaceio.JSON)
	}
	f, err := furnaceio.ParseFormat(name)
	if err != nil {
		writeFailure(w, err)
		return
	}
	data, err := furnaceio.Marshal(s.current().graph, f)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeArtifact(w, pipeline.ContentType(string(f)), data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	snap := s.current()
	q := r.URL.Query()

	opts := s.renderOptions(q)
	if err := opts.ValidateForRender(); err != nil {
		writeFailure(w, err)
		return
	}

	unit, ns := q.Get("unit"), q.Get("namespace")
	key := cache.ArtifactKey(snap.hash, opts.Selection, opts.Format+"|"+unit+"|"+ns)
	if data, hit, _ := s.cache.Get(r.Context(), key); hit {
		w.Header().Set("X-Cache", "hit")
		writeArtifact(w, pipeline.ContentType(opts.Format), data)
		return
	}

	var data []byte
	if ns != "" {
		if opts.Format != pipeline.FormatText {
			writeFailure(w, errors.New(errors.ErrCodeInvalidInput, "namespace rendering supports only the text format"))
			return
		}
		id, err := lookupNamespace(snap, unit, ns)
		if err != nil {
			writeFailure(w, err)
			return
		}
		data = render.New(opts.Selection).Namespace(snap.graph, id)
	} else {
		var err error
		data, err = s.runner.Render(r.Context(), snap.graph, opts)
		if err != nil {
			writeFailure(w, err)
			return
		}
	}

	_ = s.cache.Set(r.Context(), key, data, 0)
	w.Header().Set("X-Cache", "miss")
	writeArtifact(w, pipeline.ContentType(opts.Format), data)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Load(r.Context()); err != nil {
		writeFailure(w, err)
		return
	}
	snap := s.current()
	writeJSON(w, http.StatusOK, HealthResponse{Status: "reloaded", Version: buildinfo.Version, Graph: snap.hash})
}

// renderOptions layers query parameters over the server defaults.
func (s *Server) renderOptions(q url.Values) pipeline.Options {
	opts := pipeline.Options{
		Preset:    s.base.Preset,
		Overrides: s.base.Overrides,
		Format:    s.base.Format,
		Config:    s.base.Config,
	}
	if v := q.Get("preset"); v != "" {
		opts.Preset = v
		opts.Overrides = style.Overrides{}
	}
	set := func(dst *string, key string) {
		if v := q.Get(key); v != "" {
			*dst = v
		}
	}
	set(&opts.Overrides.Layout, "layout")
	set(&opts.Overrides.Detail, "detail")
	set(&opts.Overrides.Color, "color")
	set(&opts.Overrides.Symbols, "symbols")
	set(&opts.Format, "format")
	return opts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeArtifact(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Code = string(errors.GetCode(err))
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeFailure maps error codes to HTTP statuses.
func writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeConfig, errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeDiscovery:
		status = http.StatusUnprocessableEntity
	}
	writeError(w, status, errors.UserMessage(err), err)
}
