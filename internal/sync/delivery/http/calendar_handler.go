package http

import (
	"fmt"
	"net/http"
	"time"

	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/internal/sync/service"
	"golang-market-calendar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CalendarHandler handles HTTP requests for the broad-market calendars.
type CalendarHandler struct {
	calendarService service.CalendarService
	logger          *logger.Logger
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService service.CalendarService, logger *logger.Logger) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService, logger: logger}
}

// RegisterRoutes registers the calendar routes to the Echo group.
func (h *CalendarHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/earnings", h.GetEarningsCalendar)
	g.GET("/economics", h.GetEconomicCalendar)
}

// GetEarningsCalendar returns broad-market earnings events grouped by day,
// optionally bounded by start/end date query params (YYYY-MM-DD).
func (h *CalendarHandler) GetEarningsCalendar(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	days, err := h.calendarService.GetEarningsCalendar(c.Request().Context(), start, end)
	if err != nil {
		h.logger.Error("Failed to get earnings calendar", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get earnings calendar"})
	}
	return c.JSON(http.StatusOK, days)
}

// GetEconomicCalendar returns macro releases grouped by day, optionally
// bounded by start/end date query params (YYYY-MM-DD).
func (h *CalendarHandler) GetEconomicCalendar(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	days, err := h.calendarService.GetEconomicCalendar(c.Request().Context(), start, end)
	if err != nil {
		h.logger.Error("Failed to get economic calendar", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get economic calendar"})
	}
	return c.JSON(http.StatusOK, days)
}

func parseDateRange(c echo.Context) (start, end *time.Time, err error) {
	start, err = parseDateParam(c, "start")
	if err != nil {
		return nil, nil, err
	}
	end, err = parseDateParam(c, "end")
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func parseDateParam(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date, expected YYYY-MM-DD", name)
	}
	return &t, nil
}
