package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/backend/config"
	"github.com/pageza/recetario/backend/internal/api"
	"github.com/pageza/recetario/backend/internal/logger"
	"github.com/pageza/recetario/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	cfg    *config.Config
	logger *slog.Logger
}

// New builds the router with middleware and all routes registered
func New(cfg *config.Config, log *slog.Logger, svc api.Services) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(logger.GinMiddleware(log))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.NoRoute(middleware.NoRoute)
	// multipart bodies above this spill to temp files
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	if cfg.ImageStorage == config.StorageLocal {
		router.Static("/uploads", cfg.UploadsDir)
	}

	api.RegisterRoutes(router, svc)

	return &Server{
		router: router,
		cfg:    cfg,
		logger: log,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until Shutdown is called.
// It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
