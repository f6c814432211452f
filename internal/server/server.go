// Package server exposes the query API over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wealth-advisor/internal/agent"
	"wealth-advisor/internal/common/config"
	"wealth-advisor/internal/common/logger"
	"wealth-advisor/internal/common/observability"
)

// QueryAgent answers one natural-language question with raw final-answer text.
type QueryAgent interface {
	Run(ctx context.Context, question string) (string, error)
}

// Pinger reports backing-store health for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the agent, normalizer, and stores into an HTTP handler.
type Server struct {
	engine     QueryAgent
	normalizer *agent.Normalizer
	obs        *observability.Observability
	logger     logger.Logger
	pingers    map[string]Pinger
	timeout    time.Duration
	httpServer *http.Server
}

func New(cfg config.ServerConfig, engine QueryAgent, normalizer *agent.Normalizer, obs *observability.Observability, log logger.Logger, pingers map[string]Pinger) *Server {
	s := &Server{
		engine:     engine,
		normalizer: normalizer,
		obs:        obs,
		logger:     log,
		pingers:    pingers,
		timeout:    config.GetDuration(cfg.RequestTimeout),
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the chi route tree. Exposed separately so tests can mount it
// on httptest servers.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestID(s.logger))
	r.Use(cors)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/query", s.handleQuery)

	return r
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server starting", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
