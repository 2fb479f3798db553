// Package http serves a rendered diagram for preview tooling.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DiagramSource produces the current diagram text. The render itself is
// pure; sources that re-read a definition file can plug in here.
type DiagramSource interface {
	Render() (string, error)
}

// SourceFunc adapts a plain function to DiagramSource.
type SourceFunc func() (string, error)

// Render implements DiagramSource.
func (f SourceFunc) Render() (string, error) { return f() }

// Server exposes the rendered diagram over HTTP.
type Server struct {
	source DiagramSource
	logger *slog.Logger

	renders  prometheus.Counter
	failures prometheus.Counter
	registry *prometheus.Registry
}

// NewHandler creates the preview handler: GET /diagram returns the rendered
// text, GET /healthz liveness, GET /metrics the Prometheus registry.
func NewHandler(source DiagramSource, logger *slog.Logger) http.Handler {
	registry := prometheus.NewRegistry()
	s := &Server{
		source: source,
		logger: logger,
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "espalier_renders_total",
			Help: "Diagram renders served.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "espalier_render_failures_total",
			Help: "Diagram renders that failed.",
		}),
		registry: registry,
	}
	registry.MustRegister(s.renders, s.failures)

	r := chi.NewRouter()
	r.Get("/diagram", s.handleDiagram)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	text, err := s.source.Render()
	if err != nil {
		s.failures.Inc()
		s.logger.Error("render failed", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.renders.Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
