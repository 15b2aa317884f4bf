package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/emanmohamed354/backend-diabetic/internal/config"
	"github.com/emanmohamed354/backend-diabetic/internal/database"
	"github.com/emanmohamed354/backend-diabetic/internal/handlers"
	"github.com/emanmohamed354/backend-diabetic/internal/logging"
	"github.com/emanmohamed354/backend-diabetic/internal/middleware"
	"github.com/emanmohamed354/backend-diabetic/internal/repository"
	"github.com/emanmohamed354/backend-diabetic/internal/routes"
	"github.com/emanmohamed354/backend-diabetic/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL environment variable is required")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
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

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Services
	userRepo := repository.NewUserRepository(database.DB)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	notifier := services.NewSMTPNotifier(cfg)
	authService := services.NewAuthService(userRepo, tokenService, notifier)
	patientService := services.NewPatientService(database.DB)
	analysisService := services.NewAnalysisService(database.DB)
	predictClient := services.NewPredictClient(cfg.MLPredictURL, cfg.ProxyTimeout)

	// Handlers
	userHandler := handlers.NewUserHandler(authService)
	patientHandler := handlers.NewPatientHandler(patientService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	predictHandler := handlers.NewPredictHandler(predictClient)
	healthHandler := handlers.NewHealthHandler()

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

	// Fiber app. The body limit sits above the 10 MiB file ceiling so the
	// upload handler can reject oversized files with its own 413 message;
	// multipart framing overhead rides in the slack.
	app := fiber.New(fiber.Config{
		BodyLimit:    handlers.MaxUploadSize + 1024*1024,
		ErrorHandler: errorHandler,
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
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, userHandler, patientHandler, analysisHandler, predictHandler, healthHandler)

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
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	// A body over the global limit never reaches the upload handler, so the
	// dedicated payload-too-large contract is honored here as well.
	if code == fiber.StatusRequestEntityTooLarge {
		return c.Status(code).JSON(fiber.Map{"msg": "File too large. Maximum size is 10MB"})
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal Server Error"
	}

	return c.Status(code).JSON(fiber.Map{"message": message})
}
