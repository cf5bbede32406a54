package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartcity/airquality/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, dashboardSvc *service.DashboardService, source service.ObservationSource) {
	handler := NewHandler(dashboardSvc, source)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/dataset", handler.GetDataset)

		// Dashboard endpoints
		api.Get("/dashboard", handler.GetDashboard)
		api.Get("/daily", handler.GetDaily)
		api.Get("/hourly", handler.GetHourly)
		api.Get("/wind", handler.GetWind)
	}
}
