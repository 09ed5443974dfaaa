// file: internal/server/server.go
// version: 2.0.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-4a5b6c7d8e9f

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdfalk/media-metadata-gateway/internal/config"
	"github.com/jdfalk/media-metadata-gateway/internal/metadata"
	"github.com/jdfalk/media-metadata-gateway/internal/metrics"
	"github.com/jdfalk/media-metadata-gateway/internal/server/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	registry   *metadata.Registry
	meta       *MetadataService
	startedAt  time.Time
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates a new server instance around a provider registry
func NewServer(registry *metadata.Registry) *Server {
	router := gin.Default()

	// Set up middleware
	router.Use(corsMiddleware())
	if perMinute := config.AppConfig.Server.RateLimitPerMinute; perMinute > 0 {
		limiter := middleware.NewClientRateLimiter(perMinute, config.AppConfig.Server.RateLimitBurst)
		router.Use(limiter.Middleware())
	}

	// Register metrics (idempotent)
	metrics.Register()
	metrics.SetProviders(registry.Len())

	server := &Server{
		router:    router,
		registry:  registry,
		meta:      NewMetadataService(registry),
		startedAt: time.Now(),
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until an interrupt signal arrives
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}

// GetDefaultServerConfig returns the server configuration derived from the
// loaded application config, with sensible fallbacks when nothing is set.
func GetDefaultServerConfig() ServerConfig {
	cfg := ServerConfig{
		Port:         "8080",
		Host:         "0.0.0.0",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if host := config.AppConfig.Server.Host; host != "" {
		cfg.Host = host
	}
	if port := config.AppConfig.Server.Port; port > 0 {
		cfg.Port = strconv.Itoa(port)
	}
	return cfg
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint (both paths for compatibility)
	s.router.GET("/api/health", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	// API routes
	api := s.router.Group("/api/v1")
	{
		api.GET("/metadata/sources", s.listSources)
		api.GET("/metadata/search", s.searchAllSources)
		api.GET("/metadata/:source/search", s.searchSource)
		api.GET("/metadata/:source/details/:id", s.getSourceDetails)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"timestamp":      time.Now().Unix(),
		"version":        metadata.Version,
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"sources":        s.registry.Sources(),
	})
}

func (s *Server) listSources(c *gin.Context) {
	c.JSON(http.StatusOK, s.meta.ListSources())
}

func (s *Server) searchSource(c *gin.Context) {
	source := metadata.SourceKind(c.Param("source"))
	query := c.Query("q")
	if query == "" {
		RespondWithBadRequest(c, "q query parameter is required")
		return
	}
	page := ParseQueryInt(c, "page", 1)

	envelope, err := s.meta.Search(c.Request.Context(), source, query, page)
	if err != nil {
		if errors.Is(err, errUnknownSource) {
			RespondWithNotFound(c, "metadata source", string(source))
			return
		}
		RespondWithProviderError(c, source, err)
		return
	}

	c.JSON(http.StatusOK, envelope)
}

func (s *Server) getSourceDetails(c *gin.Context) {
	source := metadata.SourceKind(c.Param("source"))

	record, err := s.meta.Details(c.Request.Context(), source, c.Param("id"))
	if err != nil {
		if errors.Is(err, errUnknownSource) {
			RespondWithNotFound(c, "metadata source", string(source))
			return
		}
		RespondWithProviderError(c, source, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Server) searchAllSources(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondWithBadRequest(c, "q query parameter is required")
		return
	}
	page := ParseQueryInt(c, "page", 1)

	c.JSON(http.StatusOK, s.meta.SearchAll(c.Request.Context(), query, page))
}
