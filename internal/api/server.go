package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/spendlens/spendlens-backend/internal/api/handlers"
	"github.com/spendlens/spendlens-backend/internal/api/middleware"
	"github.com/spendlens/spendlens-backend/internal/application/service"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
	reconcile  *service.ReconcileService
	recurring  *service.RecurringService
}

// NewServer creates a new API server.
// If recurring is nil, the classification endpoints are not registered.
func NewServer(cfg Config, repo storage.Repository, reconcile *service.ReconcileService, recurring *service.RecurringService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:    cfg,
		router:    gin.New(),
		logger:    logger,
		repo:      repo,
		reconcile: reconcile,
		recurring: recurring,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestLogging(s.logger))

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.GET("/health", healthHandler.Check)

	api := s.router.Group("/api")
	{
		api.GET("/health", healthHandler.Check)

		txnHandler := handlers.NewTransactionsHandler(s.reconcile, s.repo, s.logger)
		api.POST("/transactions/reconcile", txnHandler.Reconcile)
		api.POST("/transactions/dedupe/preview", txnHandler.PreviewDedup)
		api.GET("/transactions", txnHandler.List)

		if s.recurring != nil {
			merchantsHandler := handlers.NewMerchantsHandler(s.recurring, s.repo, s.logger)
			api.POST("/merchants/classify", merchantsHandler.Classify)
			api.GET("/merchants/recurring", merchantsHandler.ListRecurring)
		}

		statsHandler := handlers.NewStatsHandler(s.repo, s.logger)
		api.GET("/stats", statsHandler.Get)
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying engine for testing.
func (s *Server) Router() http.Handler {
	return s.router
}
