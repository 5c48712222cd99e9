// Package server exposes model analysis, upload and PCB pricing over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/themxtr/idealab2.1-sub000/internal/fetch"
	"github.com/themxtr/idealab2.1-sub000/internal/metrics"
	"github.com/themxtr/idealab2.1-sub000/internal/quote"
	"github.com/themxtr/idealab2.1-sub000/internal/store"
	"github.com/themxtr/idealab2.1-sub000/pkg/pcb"
	"github.com/themxtr/idealab2.1-sub000/version"
)

// Deps are the collaborators a Server routes requests to. Store and
// Metrics may be nil.
type Deps struct {
	Quotes  *quote.Service
	Fetcher *fetch.Fetcher
	Catalog *pcb.Catalog
	Store   store.QuoteStore
	Metrics *metrics.Recorder
	Logger  *zap.Logger
}

// Options are the listener settings.
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

// Server is the HTTP front end.
type Server struct {
	deps    Deps
	opts    Options
	logger  *zap.Logger
	handler http.Handler
	http    *http.Server
}

// New builds a Server and its routes.
func New(deps Deps, opts Options) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Catalog == nil {
		deps.Catalog = pcb.DefaultCatalog()
	}
	s := &Server{deps: deps, opts: opts, logger: deps.Logger}

	mux := http.NewServeMux()
	s.route(mux, "/api/models/analyze", s.handleAnalyze)
	s.route(mux, "/api/models/upload", s.handleUpload)
	s.route(mux, "/api/pcb/builder", s.handlePCBBuilder)
	s.route(mux, "/api/quotes/", s.handleQuote)
	s.route(mux, "/healthz", s.handleHealth)
	if deps.Metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{}))
	}

	s.handler = recoverer(s.logger, mux)
	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.handler,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// route registers h behind the CORS, logging and metrics middleware.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.instrument(pattern, cors(h)))
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.opts.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.Version,
	})
}
