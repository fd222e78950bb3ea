package http

import (
	"net/http"

	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/internal/sync/service"
	"golang-market-calendar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SyncHandler exposes manual refresh triggers.
type SyncHandler struct {
	syncService service.SyncService
	logger      *logger.Logger
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncService service.SyncService, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{syncService: syncService, logger: logger}
}

// RegisterRoutes registers the sync routes to the Echo group.
func (h *SyncHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.TriggerSync)
}

// TriggerSync refreshes every watchlist ticker and the global feeds inline
// and reports the aggregated counters.
func (h *SyncHandler) TriggerSync(c echo.Context) error {
	stats, err := h.syncService.SyncAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Manual sync failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto.SyncResponse{Stats: stats})
}
