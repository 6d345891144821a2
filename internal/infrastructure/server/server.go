package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	apihttp "github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/api/http"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/api/middleware"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/api/ws"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/editorconfig"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/infrastructure/config"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/infrastructure/logging"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/infrastructure/monitoring"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router    *gin.Engine
	http      *http.Server
	evaluator *editorconfig.Evaluator
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// EvaluatorConfig converts runtime settings into evaluator configuration
func EvaluatorConfig(cfg config.RuntimeConfig) editorconfig.Config {
	return editorconfig.Config{
		MaxCallStackSize: cfg.MaxCallStackSize,
		Timeout:          cfg.Timeout,
		MaxConcurrent:    cfg.MaxConcurrent,
		EnableConsole:    cfg.EnableConsole,
	}
}

// NewServer creates a new server instance. Metrics are registered on a
// private registry that also carries the Go and process collectors.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewOrNop(logging.Options{Level: cfg.Logging.Level, Development: cfg.Logging.Development})
	}

	logger.Info("Initializing editor config server",
		zap.String("port", cfg.Server.Port),
		zap.Int("max_call_stack", cfg.Runtime.MaxCallStackSize),
		zap.Duration("timeout", cfg.Runtime.Timeout),
		zap.Int64("max_concurrent", cfg.Runtime.MaxConcurrent),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	evaluator := editorconfig.NewEvaluator(EvaluatorConfig(cfg.Runtime)).
		WithLogger(logger.Logger).
		WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.CORS.AllowOrigins)))

	handlers := apihttp.NewHandlers(evaluator, metrics, registry)
	wsHandler := ws.NewHandler(evaluator, logger.Logger, metrics, cfg.CORS.AllowOrigins)

	var guards []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		guards = append(guards, middleware.RateLimit(rl))
	}
	evaluation := handlers.Register(router, guards...)
	evaluation.GET("/stream", wsHandler.HandleConnection)

	s := &Server{
		router:    router,
		evaluator: evaluator,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}
	s.http = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// Handler returns the root handler. Responses are gzip compressed when the
// client accepts it; WebSocket upgrades pass through untouched.
func (s *Server) Handler() http.Handler {
	compressed := gzhttp.GzipHandler(s.router)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") != "" {
			s.router.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})
}

// Evaluator returns the evaluator serving requests
func (s *Server) Evaluator() *editorconfig.Evaluator {
	return s.evaluator
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run starts the HTTP server and blocks until it stops. A clean Shutdown
// returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	// Sync logger before exit
	_ = s.logger.Sync()
	return err
}
