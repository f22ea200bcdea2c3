package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/saintedlittle/hgn-reports/internal/config"
	"github.com/saintedlittle/hgn-reports/internal/handlers"
	"github.com/saintedlittle/hgn-reports/internal/middleware"
	"github.com/saintedlittle/hgn-reports/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	reports *services.ReportService,
	reportHandler *handlers.ReportHandler,
	statsHandler *handlers.StatsHandler,
	adminHandler *handlers.AdminHandler,
	eventsHandler *handlers.EventsHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	jwt := middleware.JWTProtected(cfg)

	// Creation cooldown: one report per 5 s per author, staff exempt
	createCooldown := limiter.New(limiter.Config{
		Max:               1,
		Expiration:        5 * time.Second,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return middleware.ActorName(c) },
		Next:              func(c *fiber.Ctx) bool { return middleware.HasPerm(c, middleware.PermAdmin) },
	})

	// Player surface
	api.Post("/reports", jwt, createCooldown, reportHandler.Create)
	api.Post("/reports/reply", jwt, reportHandler.Reply)
	api.Get("/reports/mine", jwt, reportHandler.MyReport)
	api.Post("/quick-reply", jwt, reportHandler.QuickReplyPost)
	api.Get("/events", jwt, eventsHandler.Stream)

	// Staff surface
	admin := api.Group("/", jwt, middleware.AdminRequired(reports, cfg))
	admin.Get("/reports", reportHandler.List)
	admin.Get("/reports/:id", reportHandler.Get)
	admin.Post("/reports/:id/answers", reportHandler.Answer)
	admin.Post("/reports/:id/close", reportHandler.Close)
	admin.Post("/reports/:id/quick-reply", reportHandler.QuickReplyStart)
	admin.Delete("/reports/:id", reportHandler.Delete)
	admin.Get("/admins", adminHandler.ListAdmins)
	admin.Post("/admins/:name", adminHandler.AddAdmin)
	admin.Delete("/admins/:name", adminHandler.RemoveAdmin)
	admin.Post("/reload", adminHandler.Reload)

	// Statistics, head capability required
	stats := api.Group("/stats", jwt, middleware.HeadRequired())
	stats.Get("/", statsHandler.Overall)
	stats.Get("/placeholder/:key", statsHandler.Placeholder)
	stats.Get("/:name", statsHandler.ForAdmin)
}
