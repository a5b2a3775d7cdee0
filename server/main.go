package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiketin/api/routes"
	"tiketin/internal/shared/config"
	"tiketin/internal/shared/database"
	"tiketin/internal/shared/middleware"
	"tiketin/internal/ticketcategories"
	"tiketin/pkg/logger"
	"tiketin/pkg/ratelimit"

	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title           Tiketin API
// @version         1.0
// @description     Event and ticket category management.
// @BasePath        /api/v1
func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()

	// Set Gin mode (debug/release)
	gin.SetMode(cfg.GinMode)

	// Logger format depends on gin mode, rebuild it now that the mode is known
	appLogger = logger.New()
	logger.SetDefault(appLogger)

	appLogger.Info("Starting tiketin",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("commit", GitCommit),
	)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize Rate Limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.GetRedisClient() != nil {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), &ratelimit.Config{
			Enabled:            cfg.RateLimit.Enabled,
			WindowDuration:     cfg.RateLimit.WindowDuration,
			DefaultRequests:    cfg.RateLimit.DefaultRequests,
			PublicRequests:     cfg.RateLimit.PublicRequests,
			OrganizerRequests:  cfg.RateLimit.OrganizerRequests,
			ValidationRequests: cfg.RateLimit.ValidationRequests,
			HealthRequests:     cfg.RateLimit.HealthRequests,
			WhitelistedIPs:     cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	publisher := newChangePublisher(cfg, appLogger)
	defer func() {
		if err := publisher.Close(); err != nil {
			appLogger.Error("Error closing change publisher", slog.Any("error", err))
		}
	}()

	router := setupRouter(cfg, db, rateLimiter, publisher)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis_cache", db.GetRedisClient() != nil),
			slog.Bool("rate_limiting", rateLimiter != nil),
			slog.Bool("change_feed", cfg.Kafka.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

// newChangePublisher connects to Kafka when the change feed is enabled. A broker
// that cannot be reached at startup degrades to the no-op publisher.
func newChangePublisher(cfg *config.Config, appLogger *logger.Logger) ticketcategories.ChangePublisher {
	if !cfg.Kafka.Enabled {
		appLogger.Info("Ticket category change feed disabled")
		return ticketcategories.NoopPublisher{}
	}

	pubConfig := ticketcategories.DefaultKafkaPublisherConfig()
	pubConfig.Brokers = cfg.Kafka.Brokers
	pubConfig.Topic = cfg.Kafka.TicketCategoryTopic
	pubConfig.ClientID = cfg.Kafka.ClientID
	pubConfig.RetryMax = cfg.Kafka.RetryMax
	pubConfig.TimeoutMs = cfg.Kafka.TimeoutMs
	if cfg.IsDevelopment() {
		pubConfig.RequiredAcks = sarama.WaitForLocal
	}

	publisher, err := ticketcategories.NewKafkaChangePublisher(pubConfig)
	if err != nil {
		appLogger.Error("Failed to initialize change publisher, continuing without it", slog.Any("error", err))
		return ticketcategories.NoopPublisher{}
	}

	appLogger.Info("✅ Ticket category change feed connected",
		slog.Any("brokers", pubConfig.Brokers),
		slog.String("topic", pubConfig.Topic),
	)
	return publisher
}

func setupRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, publisher ticketcategories.ChangePublisher) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(appLogger),
		middleware.Recovery(appLogger),
		middleware.CORS(cfg),
	)

	// Global rate limiting middleware (applied to all routes)
	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	appRouter := routes.NewRouter(cfg, db, publisher)
	appRouter.SetupRoutes(engine)

	return engine
}
