// Package http serves the inklude analysis API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/inklude/internal/config"
	"github.com/fyrsmithlabs/inklude/internal/engine"
	"github.com/fyrsmithlabs/inklude/internal/logging"
	"github.com/fyrsmithlabs/inklude/internal/submissions"
)

// Server provides the HTTP endpoints.
type Server struct {
	echo        *echo.Echo
	engine      *engine.Engine
	submissions *submissions.Store
	logger      *logging.Logger
	config      *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// BodyLimit is an echo size string such as "2M".
	BodyLimit string
	// RateLimit and RateBurst bound analyze requests per client IP.
	RateLimit float64
	RateBurst int

	MaxTextLength int
	MaxBatchSize  int

	// AdminAPIKey guards submission approval.
	AdminAPIKey config.Secret

	ServiceName string
	Version     string
}

// DefaultConfig returns the server defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:          "localhost",
		Port:          8080,
		BodyLimit:     "2M",
		RateLimit:     10,
		RateBurst:     20,
		MaxTextLength: 50000,
		MaxBatchSize:  50,
		ServiceName:   "inklude",
	}
}

// ConfigFrom builds the server config from the service config.
func ConfigFrom(cfg *config.Config, version string) *Config {
	return &Config{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		BodyLimit:     cfg.Server.BodyLimit,
		RateLimit:     cfg.Server.RateLimit,
		RateBurst:     cfg.Server.RateBurst,
		MaxTextLength: cfg.Analysis.MaxTextLength,
		MaxBatchSize:  cfg.Analysis.MaxBatchSize,
		AdminAPIKey:   cfg.Admin.APIKey,
		ServiceName:   cfg.Observability.ServiceName,
		Version:       version,
	}
}

// NewServer creates the server and registers its routes.
func NewServer(eng *engine.Engine, subs *submissions.Store, logger *logging.Logger, cfg *Config) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if subs == nil {
		return nil, fmt.Errorf("submission store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	metrics := NewHTTPMetrics(logger.Underlying())

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestContext(logger))
	e.Use(requestLogger(logger))
	e.Use(metrics.MetricsMiddleware())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	s := &Server{
		echo:        e,
		engine:      eng,
		submissions: subs,
		logger:      logger,
		config:      cfg,
	}
	s.registerRoutes()

	if cfg.AdminAPIKey.IsSet() {
		logger.Info(context.Background(), "admin api key configured", logging.Secret("admin_api_key", cfg.AdminAPIKey))
	} else {
		logger.Warn(context.Background(), "admin api key not set; submission approval is disabled")
	}
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/health/ready", s.handleReady)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")

	analyze := v1.Group("/analyze")
	if s.config.RateLimit > 0 {
		analyze.Use(rateLimiter(s.config.RateLimit, s.config.RateBurst))
	}
	analyze.POST("/text", s.handleAnalyzeText)
	analyze.POST("/batch", s.handleAnalyzeBatch)
	analyze.POST("/check-pronouns", s.handleCheckPronouns)

	v1.GET("/neo-pronouns", s.handleListNeoPronouns)
	v1.GET("/neo-pronouns/check", s.handleCheckNeoPronoun)
	v1.GET("/neo-pronouns/sets/*", s.handleGetNeoPronounSet)
	v1.GET("/lexicon", s.handleListLexicon)

	v1.POST("/custom-pronouns", s.handleSubmitPronouns)
	v1.GET("/custom-pronouns", s.handleListSubmissions)
	v1.PUT("/custom-pronouns/:id/approve", s.handleApproveSubmission, adminAuth(s.config.AdminAPIKey))
	v1.DELETE("/custom-pronouns/:id", s.handleDeleteSubmission)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.config.ServiceName,
		Version: s.config.Version,
	})
}

// handleReady answers 503 until the engine is ready, so load balancers
// hold traffic while registries load.
func (s *Server) handleReady(c echo.Context) error {
	resp := ReadinessResponse{
		Status:         "loading",
		EngineReady:    s.engine.Ready(),
		NeoPronounSets: s.engine.NeoPronouns().Len(),
		LexiconEntries: s.engine.Lexicon().Len(),
	}
	if !resp.EngineReady {
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	resp.Status = "ready"
	return c.JSON(http.StatusOK, resp)
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	addr := s.Addr()
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
