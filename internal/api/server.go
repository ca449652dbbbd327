// Package api exposes the questionnaire, classification and session memo over
// HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"traveler-classifier/internal/common/config"
	"traveler-classifier/internal/common/logger"
	"traveler-classifier/internal/common/observability"
	"traveler-classifier/internal/session"
	"traveler-classifier/internal/suggestions"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Dependencies struct {
	Store         session.Store
	Baseline      suggestions.Baseline
	Observability *observability.Observability
	Logger        logger.Logger
	Checks        map[string]ReadinessCheck
	Version       string
}

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	deps       Dependencies
	logger     logger.Logger
	startTime  time.Time
}

func NewServer(cfg config.ServerConfig, deps Dependencies) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	log := deps.Logger.WithFields(map[string]interface{}{"component": "api"})

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))

	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", sessionHeader}
		engine.Use(cors.New(corsConfig))
	}

	s := &Server{
		engine:    engine,
		deps:      deps,
		logger:    log,
		startTime: time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/ready", s.handleReady)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/v1")
	v1.Use(jsonContentType())
	{
		v1.GET("/questionnaire", s.handleQuestionnaire)
		v1.GET("/personas", s.handlePersonas)
		v1.POST("/classifications", s.handleClassify)

		sessions := v1.Group("/sessions/:id")
		sessions.GET("/last", s.handleLastResult)
		sessions.DELETE("/last", s.handleClearResult)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", map[string]interface{}{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping HTTP server", nil)
	return s.httpServer.Shutdown(ctx)
}
