package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/adapter/http/routes"
	"taskmanager/internal/adapter/logger"
	"taskmanager/internal/config"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/telemetry"
)

type Server struct {
	config *config.AppConfig
	srv    *http.Server
}

func NewServer(cfg *config.AppConfig, container *Container, metrics *telemetry.AppMetrics, log *logger.LokiLogger, store port.CounterStore) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		AuthHandler:   container.AuthHandler,
		TaskHandler:   container.TaskHandler,
		HealthHandler: container.HealthHandler,
	}, routes.Dependencies{
		Config:    cfg,
		Metrics:   metrics,
		Logger:    log,
		Tokens:    container.Tokens,
		RateStore: store,
	})

	return &Server{
		config: cfg,
		srv: &http.Server{
			Addr:         net.JoinHostPort("", strconv.Itoa(cfg.Server.Port)),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.srv.Addr)

	if err != nil {
		return err
	}

	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	slog.Info("Server starting",
		"addr", listener.Addr().String(),
		"environment", s.config.Environment,
		"rate_limit_enabled", s.config.RateLimitEnabled,
		"https_enforced", s.config.EnforceHTTPS)

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- s.srv.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	slog.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
