package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weather-app/weather-pipeline/internal/config"
	"github.com/weather-app/weather-pipeline/internal/logger"
	"github.com/weather-app/weather-pipeline/internal/middleware"
	"github.com/weather-app/weather-pipeline/internal/models"
)

// Server is the storage service HTTP server.
type Server struct {
	server     *http.Server
	router     *gin.Engine
	handler    *Handler
	middleware *middleware.Middleware
	config     *config.Config
	logger     logger.Logger
}

func NewServer(handler *Handler, mw *middleware.Middleware, cfg *config.Config, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	if cfg.App.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	return &Server{
		router:     gin.New(),
		handler:    handler,
		middleware: mw,
		config:     cfg,
		logger:     log.WithField("component", "api_server"),
	}
}

func (s *Server) setupRoutes() {
	s.router.Use(s.middleware.Recovery())
	s.router.Use(s.middleware.Logging())
	s.router.Use(s.middleware.CORS())
	s.router.Use(s.middleware.RateLimit())

	s.router.GET("/health", s.handler.HealthCheck)
	s.router.GET("/weather", s.handler.GetWeather)
	s.router.GET("/weather/export", s.handler.ExportWeather)
	s.router.POST("/ingest", s.handler.Ingest)

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Code:    http.StatusNotFound,
			Message: fmt.Sprintf("Route %s not found", c.Request.URL.Path),
		})
	})
}

func (s *Server) Start() error {
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.App.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Infof("Starting storage API server on port %d", s.config.App.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down storage API server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.App.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	s.logger.Info("Storage API server stopped")
	return nil
}
