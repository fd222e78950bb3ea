package http

import (
	"net/http"

	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/internal/sync/service"
	"golang-market-calendar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WatchlistHandler handles HTTP requests for the watchlist.
type WatchlistHandler struct {
	watchlistService service.WatchlistService
	logger           *logger.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistService service.WatchlistService, logger *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService, logger: logger}
}

// RegisterRoutes registers the watchlist routes to the Echo group.
func (h *WatchlistHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Add)
	g.DELETE("/:ticker", h.Remove)
}

// List returns every tracked ticker.
func (h *WatchlistHandler) List(c echo.Context) error {
	tickers, err := h.watchlistService.List(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list watchlist", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list watchlist"})
	}
	return c.JSON(http.StatusOK, dto.WatchlistResponse{Tickers: tickers})
}

// Add puts a ticker on the watchlist and triggers its first refresh.
func (h *WatchlistHandler) Add(c echo.Context) error {
	var req dto.AddWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if req.Ticker == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "ticker is required"})
	}

	if err := h.watchlistService.Add(c.Request().Context(), req.Ticker); err != nil {
		h.logger.Error("Failed to add watchlist ticker", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to add ticker"})
	}
	return c.NoContent(http.StatusCreated)
}

// Remove takes a ticker off the watchlist. Stored history is kept.
func (h *WatchlistHandler) Remove(c echo.Context) error {
	ticker := c.Param("ticker")
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "ticker is required"})
	}

	if err := h.watchlistService.Remove(c.Request().Context(), ticker); err != nil {
		h.logger.Error("Failed to remove watchlist ticker", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to remove ticker"})
	}
	return c.NoContent(http.StatusNoContent)
}
