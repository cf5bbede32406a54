package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/service"
	"github.com/smartcity/airquality/pkg/utils"
)

// MaxWindLimit caps the limit parameter of the wind endpoint; the dataset has
// sixteen compass directions
const MaxWindLimit = 16

// Handler contains all HTTP handlers
type Handler struct {
	dashboardSvc *service.DashboardService
	source       service.ObservationSource
}

// NewHandler creates a new handler. source is the loader the table came from
// and is checked by the health endpoint.
func NewHandler(dashboardSvc *service.DashboardService, source service.ObservationSource) *Handler {
	return &Handler{
		dashboardSvc: dashboardSvc,
		source:       source,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	info := h.dashboardSvc.Info()

	status, sourceStatus := "ok", "ok"
	if h.source != nil {
		if err := h.source.Health(c.UserContext()); err != nil {
			status, sourceStatus = "degraded", err.Error()
		}
	}

	return c.JSON(fiber.Map{
		"status":        status,
		"service":       "airquality-dashboard",
		"dataset_id":    info.ID,
		"rows":          info.Rows,
		"source":        info.Source,
		"source_health": sourceStatus,
	})
}

// GetDataset returns the loaded table's bounds, stations and hour periods
func (h *Handler) GetDataset(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.dashboardSvc.Info(),
	})
}

// GetDashboard returns the full view model for the query
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return err
	}

	data, err := h.dashboardSvc.Build(q)
	if err != nil {
		return toFiberError(err, "Failed to build dashboard")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// GetDaily returns per-day pollutant means
func (h *Handler) GetDaily(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return err
	}

	data, err := h.dashboardSvc.Daily(q)
	if err != nil {
		return toFiberError(err, "Failed to build daily summary")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

// GetHourly returns per hour period means
func (h *Handler) GetHourly(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return err
	}

	data, err := h.dashboardSvc.Hourly(q)
	if err != nil {
		return toFiberError(err, "Failed to build hourly summary")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

// GetWind returns the wind table with its strongest and slowest views
func (h *Handler) GetWind(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return err
	}

	limit := utils.Clamp(c.QueryInt("limit", h.dashboardSvc.WindTopK()), 1, MaxWindLimit)

	data, err := h.dashboardSvc.Wind(q, limit)
	if err != nil {
		return toFiberError(err, "Failed to build wind summary")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"limit":   limit,
	})
}

// parseQuery reads station, start and end. With neither date given the full
// dataset range is used.
func (h *Handler) parseQuery(c *fiber.Ctx) (service.Query, error) {
	q := h.dashboardSvc.DefaultQuery()

	if station := strings.TrimSpace(c.Query("station")); station != "" {
		q.Station = station
	}

	startStr := strings.TrimSpace(c.Query("start"))
	endStr := strings.TrimSpace(c.Query("end"))
	if startStr == "" && endStr == "" {
		return q, nil
	}
	if startStr == "" || endStr == "" {
		return q, fiber.NewError(fiber.StatusBadRequest, "You must pick a start and end date")
	}

	start, err := domain.ParseDate(startStr)
	if err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
	}
	end, err := domain.ParseDate(endStr)
	if err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
	}
	q.Start, q.End = start, end
	return q, nil
}

func toFiberError(err error, fallback string) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, fallback)
}

// ErrorHandler renders errors as {"error": true, "message": ...}
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
