package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"instalytics/internal/jobs"
	"instalytics/pkg/config"
	"instalytics/pkg/logger"
	"instalytics/pkg/storage"
)

// Server hosts the dashboard and the analytics API.
type Server struct {
	echo   *echo.Echo
	jobs   *jobs.Manager
	cfg    *config.ServerConfig
	logger logger.Logger
}

// New builds the HTTP server and wires all routes.
func New(cfg *config.ServerConfig, manager *jobs.Manager, store *storage.Manager, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(RequestID())
	e.Use(Logging(log))
	e.Use(echoMiddleware.Recover())

	handlers := NewHandlers(manager, store, log)
	Register(e, cfg, handlers)

	return &Server{echo: e, jobs: manager, cfg: cfg, logger: log}
}

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.ServerConfig, handlers *Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.GET("/", handlers.Dashboard)

	api := e.Group("/api")
	api.POST("/scrape", handlers.Scrape, ScrapeRateLimiter(cfg.ScrapesPerMinute))
	api.GET("/jobs", handlers.ListJobs)
	api.GET("/jobs/:id", handlers.GetJob)
	api.GET("/runs", handlers.ListRuns)
	api.GET("/runs/:id", handlers.GetRun)
	api.GET("/runs/:id/timeline.csv", handlers.GetRunTimeline)
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.jobs.Start()

	serverErr := make(chan error, 1)
	go func() {
		s.logger.InfoWithFields("server listening", map[string]interface{}{
			"address": s.cfg.Address,
		})
		if err := s.echo.Start(s.cfg.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		s.jobs.Stop()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.echo.Shutdown(shutdownCtx)
	s.jobs.Stop()
	return err
}
