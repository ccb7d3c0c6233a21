package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhima/dbutils/internal/api/handlers"
	"github.com/dhima/dbutils/internal/api/middleware"
	"github.com/dhima/dbutils/internal/logging"
	"github.com/dhima/dbutils/internal/scheduler"
	"github.com/dhima/dbutils/internal/statements"
	"github.com/dhima/dbutils/pkg/config"
	"github.com/dhima/dbutils/pkg/dbutils"
	eventsPlatform "github.com/dhima/dbutils/platform/events"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type publisher interface {
	statements.EventPublisher
	Close() error
}

// Server orchestrates HTTP routing and dependencies for the statement gateway.
type Server struct {
	config    config.App
	logger    logging.Logger
	router    *gin.Engine
	handle    *dbutils.Handle
	publisher publisher
	keepalive *scheduler.Keepalive

	statementService *statements.Service
}

// NewServer wires the gateway dependencies together.
func NewServer(ctx context.Context) (*Server, error) {
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	handle, err := dbutils.Open(ctx, cfg.Database, dbutils.WithLogger(logger.Zap()))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connected",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Database),
	)

	var pub publisher = eventsPlatform.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = eventsPlatform.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	keepalive, err := scheduler.NewKeepalive(cfg.KeepaliveSpec, handle, logger)
	if err != nil {
		_ = handle.Close()
		return nil, err
	}

	server := &Server{
		config:           cfg,
		logger:           logger,
		handle:           handle,
		publisher:        pub,
		keepalive:        keepalive,
		statementService: statements.NewService(handle, pub, logger, statements.WithReadOnly(cfg.ReadOnly)),
	}

	if err := server.setupRouter(); err != nil {
		_ = handle.Close()
		return nil, err
	}
	return server, nil
}

// setupRouter configures the Gin router with middleware and routes.
func (s *Server) setupRouter() error {
	router := gin.New()
	zapLogger := s.logger.Zap()

	// Recovery first so panics in later middleware are caught.
	router.Use(ginzap.RecoveryWithZap(zapLogger, true))
	router.Use(middleware.RequestID())
	router.Use(ginzap.Ginzap(zapLogger, time.RFC3339, true))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !containsWildcard(s.config.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", handlers.NewHealthHandler(s.statementService, s.logger).Health)
	router.GET("/metrics", handlers.NewMetricsHandler(s.statementService, s.logger).Metrics)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	statementHandler, err := handlers.NewStatementHandler(s.statementService, s.logger)
	if err != nil {
		return fmt.Errorf("statement handler: %w", err)
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/query/:kind", statementHandler.Query)
		v1.POST("/exec/:kind", statementHandler.Exec)
	}

	s.router = router
	return nil
}

// Serve starts the HTTP server and blocks until SIGINT or SIGTERM, then shuts
// down the listener, keepalive, publisher and database handle in that order.
func (s *Server) Serve() error {
	addr := ":" + s.config.APIPort
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	s.keepalive.Start()

	go func() {
		s.logger.Info("starting statement gateway",
			zap.String("address", addr),
			zap.String("environment", s.config.Environment),
			zap.Bool("read_only", s.config.ReadOnly),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-quit
	s.logger.Info("shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	s.keepalive.Stop()

	if err := s.publisher.Close(); err != nil {
		s.logger.Error("failed to close event publisher", zap.Error(err))
	}
	if err := s.handle.Close(); err != nil {
		s.logger.Error("failed to close database connection", zap.Error(err))
	}

	s.logger.Info("server stopped")
	if err := s.logger.Sync(); err != nil {
		// stdout/stderr cannot be synced on most terminals
		if err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: invalid argument" {
			return err
		}
	}
	return nil
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
