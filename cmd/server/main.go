package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/saintedlittle/hgn-reports/internal/config"
	"github.com/saintedlittle/hgn-reports/internal/database"
	"github.com/saintedlittle/hgn-reports/internal/handlers"
	"github.com/saintedlittle/hgn-reports/internal/i18n"
	"github.com/saintedlittle/hgn-reports/internal/logging"
	"github.com/saintedlittle/hgn-reports/internal/middleware"
	"github.com/saintedlittle/hgn-reports/internal/notify"
	"github.com/saintedlittle/hgn-reports/internal/routes"
	"github.com/saintedlittle/hgn-reports/internal/scheduler"
	"github.com/saintedlittle/hgn-reports/internal/services"
	"github.com/saintedlittle/hgn-reports/internal/sessions"
	"github.com/saintedlittle/hgn-reports/internal/telegram"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.Debug)

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
		slog.Error("schema migration failed", "error", err)
		os.Exit(1)
	}

	// DB log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB)
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
		dbLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Message templates
	messages := i18n.New(cfg.Locale)
	if cfg.MessagesFile != "" {
		if err := messages.LoadFile(cfg.MessagesFile); err != nil {
			slog.Error("failed to load messages file", "path", cfg.MessagesFile, "error", err)
		}
	}

	holder := config.NewHolder(cfg)
	reportService := services.NewReportService(database.DB)

	// One-time data migrations
	if _, err := reportService.BackfillAnswerKinds(); err != nil {
		slog.Error("answer kind backfill failed", "error", err)
	}
	if _, err := reportService.MigrateAutoHiddenToClosed(autoCloseReason(messages, cfg)); err != nil {
		slog.Error("legacy status migration failed", "error", err)
	}

	// Notifications
	dispatcher := notify.NewDispatcher(reportService)
	hub := notify.NewHub()
	dispatcher.Register(hub)

	// Telegram bridge
	var bridgeMu sync.Mutex
	var bridge *telegram.Bridge
	startBridge := func(c *config.Config) {
		if !c.TelegramEnabled {
			return
		}
		b, err := telegram.New(c, reportService, dispatcher)
		if err != nil {
			slog.Error("telegram bridge init failed", "error", err)
			return
		}
		bridge = b
		dispatcher.Register(b)
		b.Start()
	}
	bridgeMu.Lock()
	startBridge(cfg)
	bridgeMu.Unlock()

	// Reload: re-read configuration, re-open the store at the (possibly new)
	// path, re-run data migrations, restart the bridge. Server-level options
	// (port, CORS, JWT secret, rate limits) require a restart.
	reloadFn := func() error {
		newCfg := config.Load()
		if err := database.Reload(newCfg); err != nil {
			return err
		}
		reportService.Rebind(database.DB)

		messages.SetLocale(newCfg.Locale)
		if newCfg.MessagesFile != "" {
			if err := messages.LoadFile(newCfg.MessagesFile); err != nil {
				slog.Error("failed to load messages file", "path", newCfg.MessagesFile, "error", err)
			}
		}

		if _, err := reportService.BackfillAnswerKinds(); err != nil {
			slog.Error("answer kind backfill failed", "error", err)
		}
		if _, err := reportService.MigrateAutoHiddenToClosed(autoCloseReason(messages, newCfg)); err != nil {
			slog.Error("legacy status migration failed", "error", err)
		}

		bridgeMu.Lock()
		if bridge != nil {
			bridge.Stop()
			dispatcher.Unregister(bridge)
			bridge = nil
		}
		startBridge(newCfg)
		bridgeMu.Unlock()

		holder.Swap(newCfg)
		slog.Info("configuration reloaded")
		return nil
	}

	// Auto-close scheduler
	autoClose := scheduler.StartAutoClose(reportService, dispatcher, messages, holder)

	// Handlers
	quickReplies := sessions.New()
	reportHandler := handlers.NewReportHandler(reportService, dispatcher, messages, quickReplies, holder)
	statsHandler := handlers.NewStatsHandler(reportService, messages)
	adminHandler := handlers.NewAdminHandler(reportService, messages, reloadFn)
	eventsHandler := handlers.NewEventsHandler(hub, messages)
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

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))

	routes.Setup(app, cfg, reportService, reportHandler, statsHandler, adminHandler, eventsHandler, healthHandler)

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

	autoClose.Stop()
	bridgeMu.Lock()
	if bridge != nil {
		bridge.Stop()
	}
	bridgeMu.Unlock()
	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func autoCloseReason(messages *i18n.Messages, cfg *config.Config) string {
	return messages.Render("auto_close_reason", map[string]string{
		"seconds": strconv.FormatInt(cfg.AutoHideSeconds, 10),
	})
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
