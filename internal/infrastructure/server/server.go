package server

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/taskmaster/planner/docs"
	httpHandlers "github.com/taskmaster/planner/internal/adapters/http"
	"github.com/taskmaster/planner/internal/application/services"
	"github.com/taskmaster/planner/internal/infrastructure/config"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/infrastructure/storage"
)

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	storage *storage.Storage
	metrics *metrics.Metrics
	started time.Time
}

// New creates a new server instance
func New(cfg *config.Config, store *storage.Storage, schedules *services.ScheduleService, templates *services.TemplateService, m *metrics.Metrics, appLogger *logger.Logger) *Server {
	e := echo.New()

	e.Validator = httpHandlers.NewCustomValidator()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	e.HTTPErrorHandler = httpHandlers.NewErrorHandler(appLogger)

	s := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger,
		storage: store,
		metrics: m,
		started: time.Now(),
	}

	// Metrics middleware goes first so it sees the final status of every request
	if cfg.Metrics.Enabled && m != nil {
		e.Use(m.Middleware())
		e.GET(cfg.Metrics.Path, echo.WrapHandler(m.Handler()))
	}

	s.setupMiddleware()
	s.setupRoutes(
		httpHandlers.NewScheduleHandler(schedules, appLogger),
		httpHandlers.NewTemplateHandler(templates, schedules, appLogger),
	)

	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(scheduleHandler *httpHandlers.ScheduleHandler, templateHandler *httpHandlers.TemplateHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)

	// Swagger documentation
	docs.SwaggerInfo.Host = s.config.Server.Address()
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	api := s.echo.Group("/api")
	api.GET("/health", s.healthCheck)
	httpHandlers.RegisterRoutes(api, scheduleHandler, templateHandler)
}

// Echo exposes the router, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"message": s.config.App.Name + " API is running",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.storage.HealthCheck(); err != nil {
		status = "error"
		checks["storage"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["storage"] = map[string]interface{}{
			"status": "ok",
			"files":  s.storage.Info(),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"uptime": time.Since(s.started).Round(time.Second).String(),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  runtime.Version(),
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

// Start starts the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}
