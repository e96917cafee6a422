// Package server provides the churn dashboard HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theirongolddev/churnboard/internal/model"
)

// DatasetFunc returns the full dataset. It is called on every request and
// is expected to be memoized by the caller.
type DatasetFunc func() (model.Dataset, error)

// Config controls the server runtime behavior.
type Config struct {
	Addr        string
	DataFile    string
	CORSOrigins []string
	Logger      *slog.Logger
}

// Service serves dashboard aggregates over HTTP.
type Service struct {
	cfg       Config
	dataset   DatasetFunc
	log       *slog.Logger
	startedAt time.Time

	registry *prometheus.Registry
	metrics  *metrics
}

// New returns a new server with the provided config.
func New(cfg Config, dataset DatasetFunc) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8050"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	return &Service{
		cfg:       cfg,
		dataset:   dataset,
		log:       logger,
		startedAt: time.Now(),
		registry:  reg,
		metrics:   newMetrics(reg),
	}
}

// Handler builds the router with all endpoints and middleware.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/charts/{chart}.png", s.handleChart)

		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/options", s.handleOptions)
			r.Get("/summary", s.handleSummary)
			r.Get("/channels", s.handleChannels)
			r.Get("/cohorts", s.handleCohorts)
			r.Get("/customers", s.handleCustomers)
		})
	})

	return r
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info("churnboard server listening", "addr", s.cfg.Addr, "data", s.cfg.DataFile)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("churnboard server shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("churnboard http server: %w", err)
	}
}

// instrument logs each request with slog and records it in the
// request counter, labelled by route pattern.
func (s *Service) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		s.metrics.observeRequest(route, status, time.Since(start))
		s.log.Info("request",
			"method", r.Method,
			"route", route,
			"query", r.URL.RawQuery,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
