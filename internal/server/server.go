// Package server hosts the predictor's single-page UI over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/JosMR1003/aplicacion-flotacion/internal/config"
	"github.com/JosMR1003/aplicacion-flotacion/pkg/log"
)

// Server wraps the http.Server with the application's middleware chain and
// graceful shutdown.
type Server struct {
	server *http.Server
	logger log.Logger
}

// New builds the server for the given app and configuration.
func New(app *App, cfg config.Config) *Server {
	mux := http.NewServeMux()
	app.Routes(mux)

	limiter := rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)
	chain := Chain(
		RecoveryMiddleware(app.Logger, app.Components),
		RequestIDMiddleware,
		LoggingMiddleware(app.Logger),
		RateLimitMiddleware(limiter),
	)

	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      chain(mux),
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
			IdleTimeout:  120 * time.Second,
		},
		logger: app.Logger,
	}
}

// Start blocks serving requests until Stop or a listener error.
func (s *Server) Start() error {
	s.logger.Info("servidor iniciado", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("apagando servidor")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}
