package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/forcegraph"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// Status describes the live scene.
type Status struct {
	State    string  `json:"state"`
	Alpha    float64 `json:"alpha"`
	Frames   int     `json:"frames"`
	DAGMode  string  `json:"dag_mode"`
	Nodes    int     `json:"nodes"`
	Links    int     `json:"links"`
	MaxDepth int     `json:"max_depth"`
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})
	r.Handle("/metrics", s.metrics.handler())

	r.Get("/status", s.handleStatus)
	r.Get("/graph.json", s.handleGraph)
	r.Get("/frame.{format}", s.handleFrame)
	r.Get("/render.{format}", s.handleRender)

	r.Post("/reheat", s.handleReheat)
	r.Post("/dag-mode/{mode}", s.handleDAGMode)
	return r
}

func (s *Server) status() Status {
	var st Status
	s.withScene(func(scene *forcegraph.ForceGraph, _ *config.Config) {
		st = Status{
			State:    scene.State().String(),
			Alpha:    scene.Engine().Alpha(),
			Frames:   s.frames,
			DAGMode:  scene.DAGMode().String(),
			Nodes:    len(scene.GraphData().Nodes),
			Links:    len(scene.Links()),
			MaxDepth: scene.Depths().Max(),
		}
	})
	return st
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

// handleGraph returns the live graph with current positions.
func (s *Server) handleGraph(w http.ResponseWriter, _ *http.Request) {
	var (
		body []byte
		err  error
	)
	s.withScene(func(scene *forcegraph.ForceGraph, _ *config.Config) {
		body, err = graph.Marshal(scene.GraphData())
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeBody(w, pipeline.FormatJSON, body)
}

// handleFrame paints the current frame of the live scene.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	var (
		body []byte
		err  error
	)
	s.withScene(func(scene *forcegraph.ForceGraph, cfg *config.Config) {
		body, err = pipeline.Render(scene, cfg.Canvas, format)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeBody(w, format, body)
}

// handleRender simulates the loaded graph to rest through the cached
// pipeline. ?frames= caps the simulation.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	frames := 0
	if v := r.URL.Query().Get("frames"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "frames must be a non-negative integer, got %q", v))
			return
		}
		frames = n
	}

	s.mu.Lock()
	input, cfg := s.input, s.sceneC
	s.mu.Unlock()

	result, err := s.cfg.Runner.Execute(r.Context(), pipeline.Options{
		Graph:   input,
		Config:  cfg,
		Frames:  frames,
		Formats: []string{format},
		Refresh: r.URL.Query().Has("refresh"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.LayoutHit))
	writeBody(w, format, result.Artifacts[format])
}

func (s *Server) handleReheat(w http.ResponseWriter, _ *http.Request) {
	s.withScene(func(scene *forcegraph.ForceGraph, _ *config.Config) {
		scene.Reheat()
	})
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleDAGMode(w http.ResponseWriter, r *http.Request) {
	mode, err := layout.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.withScene(func(scene *forcegraph.ForceGraph, _ *config.Config) {
		scene.SetDAGMode(mode)
		scene.Update()
	})
	writeJSON(w, http.StatusOK, s.status())
}

// =============================================================================
// Helpers
// =============================================================================

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func writeBody(w http.ResponseWriter, format string, body []byte) {
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// writeError maps input errors to 400 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidDAGMode, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidColor:
		status = http.StatusBadRequest
	case errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

// requestLogger logs each request through the server logger.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(start).Round(time.Microsecond),
				"id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
