package http

import (
	"net/http"
	"strconv"

	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/internal/sync/service"
	"golang-market-calendar/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultEarningsLimit = 50

// StockHandler handles HTTP requests for per-ticker calendar data.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:ticker/calendar", h.GetCalendar)
	g.GET("/:ticker/earnings", h.GetEarnings)
	g.GET("/:ticker/dividends", h.GetDividends)
	g.GET("/:ticker/splits", h.GetSplits)
}

// GetCalendar returns the ticker's snapshot of upcoming calendar data.
func (h *StockHandler) GetCalendar(c echo.Context) error {
	ticker := c.Param("ticker")
	cal, err := h.stockService.GetCalendar(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("Failed to get stock calendar", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get stock calendar"})
	}
	if cal == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No calendar data for ticker"})
	}
	return c.JSON(http.StatusOK, cal)
}

// GetEarnings returns the ticker's earnings history, newest first.
func (h *StockHandler) GetEarnings(c echo.Context) error {
	ticker := c.Param("ticker")
	limit := queryInt(c, "limit", defaultEarningsLimit)
	offset := queryInt(c, "offset", 0)

	earnings, err := h.stockService.GetEarnings(c.Request().Context(), ticker, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get stock earnings", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get stock earnings"})
	}
	return c.JSON(http.StatusOK, earnings)
}

// GetDividends returns the ticker's dividend history.
func (h *StockHandler) GetDividends(c echo.Context) error {
	ticker := c.Param("ticker")
	dividends, err := h.stockService.GetDividends(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("Failed to get stock dividends", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get stock dividends"})
	}
	return c.JSON(http.StatusOK, dividends)
}

// GetSplits returns the ticker's split history.
func (h *StockHandler) GetSplits(c echo.Context) error {
	ticker := c.Param("ticker")
	splits, err := h.stockService.GetSplits(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("Failed to get stock splits", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get stock splits"})
	}
	return c.JSON(http.StatusOK, splits)
}

func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
