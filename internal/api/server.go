package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/cinemood/pkg/config"
	"github.com/wonny/cinemood/pkg/logger"
	"github.com/wonny/cinemood/pkg/metrics"
)

// Server represents an HTTP server (API or metrics exporter)
// ⭐ SSOT: API 서버 설정은 이 파일에서만
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	name       string
	env        string
}

// New creates a new API server
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	return newServer("api", cfg.Port, cfg.Env, log, router)
}

// NewMetricsServer creates the Prometheus exporter server (/metrics)
func NewMetricsServer(cfg *config.Config, log *logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return newServer("metrics", cfg.MetricsPort, cfg.Env, log, mux)
}

func newServer(name, port, env string, log *logger.Logger, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
		name:   name,
		env:    env,
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"server": s.name,
		"addr":   s.httpServer.Addr,
		"env":    s.env,
	}).Info("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start %s server: %w", s.name, err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.WithField("server", s.name).Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown %s server: %w", s.name, err)
	}

	return nil
}
