package internal

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/karloscodes/cartridge"

	"vihorki/internal/http"
)

// apiCORSConfig is the CORS configuration for the metrics API endpoints.
var apiCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Authorization",
}

// MountAppRoutes mounts all application routes using cartridge's route API
func MountAppRoutes(srv *cartridge.Server) {
	apiConfig := &cartridge.RouteConfig{
		EnableCORS: true,
		CORSConfig: apiCORSConfig,
	}

	// Health check endpoint
	srv.Get("/_health", http.HealthIndexAction)
	srv.Head("/_health", http.HealthIndexAction)

	// === METRICS API ROUTES ===
	srv.Post("/api/v1/ux-metrics/compare", http.CompareMetricsAction, apiConfig)
	srv.Options("/api/v1/ux-metrics/compare", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, apiConfig)

	srv.Get("/api/v1/reports/:id", http.ReportShowAction, apiConfig)
}
