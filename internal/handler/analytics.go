package handler

import (
	"net/http"
	"pos-dashboard-sync/internal/service"
	"time"

	"github.com/labstack/echo/v4"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) ListLocations(c echo.Context) error {
	ctx := c.Request().Context()

	locations, err := h.analyticsService.Locations(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, locations)
}

func (h *AnalyticsHandler) SalesSummary(c echo.Context) error {
	ctx := c.Request().Context()

	locationID := c.QueryParam("location_id")
	if locationID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing location_id")
	}

	begin, err := time.Parse(time.RFC3339, c.QueryParam("begin"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid begin, want RFC3339")
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end, want RFC3339")
	}

	summary, err := h.analyticsService.Summary(ctx, locationID, begin, end)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}
