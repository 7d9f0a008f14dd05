package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/inacons/activos-bff/internal/config"
	"github.com/inacons/activos-bff/internal/handlers"
	"github.com/inacons/activos-bff/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	reportHandler *handlers.ReportHandler,
	assetHandler *handlers.AssetHandler,
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

	// Reports (JWT required). Static segments registered before :id.
	reports := api.Group("/reports", middleware.JWTProtected(cfg))
	reports.Post("/", reportHandler.CreateReport)
	reports.Get("/", reportHandler.GetReports)
	reports.Get("/stats", reportHandler.GetStats)
	reports.Get("/code/:code", reportHandler.GetReportByCode)
	reports.Get("/user/:user_id", reportHandler.GetReportsByUser)
	reports.Get("/asset/:asset_id/history", reportHandler.GetAssetHistory)
	reports.Get("/asset/:asset_id", reportHandler.GetReportsByAsset)
	reports.Get("/:id", reportHandler.GetReport)
	reports.Put("/:id", reportHandler.UpdateReport)
	reports.Delete("/:id", reportHandler.DeleteReport)

	// Asset catalog pass-through (JWT required)
	assets := api.Group("/assets", middleware.JWTProtected(cfg))
	assets.Get("/", assetHandler.ListAssets)
	assets.Get("/:id", assetHandler.GetAsset)
}
