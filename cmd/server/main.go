package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/kervanapp/kervan-backend/internal/audit"
	"github.com/kervanapp/kervan-backend/internal/config"
	"github.com/kervanapp/kervan-backend/internal/database"
	"github.com/kervanapp/kervan-backend/internal/handlers"
	"github.com/kervanapp/kervan-backend/internal/logging"
	"github.com/kervanapp/kervan-backend/internal/middleware"
	"github.com/kervanapp/kervan-backend/internal/notify"
	"github.com/kervanapp/kervan-backend/internal/routes"
	"github.com/kervanapp/kervan-backend/internal/services"
	"github.com/kervanapp/kervan-backend/internal/worker"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Retention sweeps for system logs and the audit trail
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)
	audit.StartCleanup(database.DB, cfg.AuditRetentionDays, cleanupDone)

	// Notification sink
	var sink notify.Sink
	switch cfg.NotifyDriver {
	case "amqp":
		amqpSink, err := notify.NewAMQPSink(cfg.AMQPURL)
		if err != nil {
			slog.Error("amqp connection failed", "error", err)
			os.Exit(1)
		}
		defer amqpSink.Close()
		sink = amqpSink
	case "redis":
		redisSink, err := notify.NewRedisSink(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisSink.Close()
		sink = redisSink
	default:
		slog.Warn("notifications disabled", "driver", cfg.NotifyDriver)
		sink = notify.NopSink{}
	}

	// Redis cache for the admin overview. Optional: the overview falls
	// through to the database when the client is unreachable.
	cache := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer cache.Close()

	auditor := audit.NewRecorder(database.DB)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	tripService := services.NewTripService(database.DB)
	requestService := services.NewRequestService(database.DB)
	reviewService := services.NewReviewService(database.DB)
	messageService := services.NewMessageService(database.DB, sink)
	moderationService := services.NewModerationService(database.DB, auditor)
	adminService := services.NewAdminService(database.DB, auditor, sink, cache)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	tripHandler := handlers.NewTripHandler(tripService)
	requestHandler := handlers.NewRequestHandler(requestService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	messageHandler := handlers.NewMessageHandler(messageService)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Expiration workers: trips notify subscribers, requests stay silent.
	workerDone := make(chan struct{})
	tripWorker := worker.NewTripWorker(worker.NewTripStore(database.DB), sink, cfg.ExpireBatchSize)
	requestWorker := worker.NewRequestWorker(worker.NewRequestStore(database.DB), cfg.ExpireBatchSize)
	worker.StartSchedule(tripWorker, cfg.ExpireInterval, workerDone)
	worker.StartSchedule(requestWorker, cfg.ExpireInterval, workerDone)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB,
		authHandler, healthHandler, tripHandler, requestHandler,
		reviewHandler, messageHandler, moderationHandler, adminHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	close(workerDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
