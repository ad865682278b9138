package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tx_streamer/internal/config"
	"tx_streamer/internal/core/domain/repository"
	"tx_streamer/internal/logger"
	"tx_streamer/pkg/txstream"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	ws         *WSHandler
	logger     logger.AppLogger
}

// NewServer creates a new instance of the API server.
func NewServer(
	streamer txstream.Streamer,
	auth *Authenticator,
	pool EndpointSource,
	subRepo repository.SubscriptionRepository,
	stateRepo repository.DiscoveryStateRepository,
	appLogger logger.AppLogger,
	cfg *config.ServerConfig,
) (*Server, error) {
	if appLogger == nil {
		return nil, errors.New("logger cannot be nil for Server")
	}
	if cfg == nil {
		return nil, errors.New("config cannot be nil for Server")
	}

	ws, err := NewWSHandler(streamer, auth, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize websocket handler: %w", err)
	}
	h, err := NewHTTPHandler(pool, subRepo, stateRepo, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize handler: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           setupRouter(h, ws, auth.Enabled()),
		ReadTimeout:       time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.IdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
	}

	return &Server{
		httpServer: server,
		ws:         ws,
		logger:     appLogger,
	}, nil
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("HTTP server ListenAndServe error", "error", err)
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server and every websocket session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server...")

	// Hijacked websocket connections are not tracked by http.Server.
	s.ws.Close()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}
	if err := s.ws.Wait(ctx); err != nil {
		s.logger.Error("Websocket sessions did not finish in time", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped gracefully.")
	return nil
}

// setupRouter creates a new ServeMux and registers all API handlers.
func setupRouter(h *HTTPHandler, ws *WSHandler, authEnabled bool) *http.ServeMux {
	smux := http.NewServeMux()

	smux.Handle("GET /ws", ws)
	smux.HandleFunc("GET /status", h.HandleStatus)
	smux.HandleFunc("GET /healthz", h.HandleHealth)
	smux.Handle("GET /metrics", promhttp.Handler())

	h.logger.Info("-------------------------------------")
	h.logger.Info("Available Endpoints:", "auth_required", authEnabled)
	h.logger.Info("  GET  /ws        (frames: {'event':'subscribe','data':{...}})")
	h.logger.Info("  GET  /status")
	h.logger.Info("  GET  /healthz")
	h.logger.Info("  GET  /metrics")
	h.logger.Info("-------------------------------------")

	return smux
}
