package service

import (
	"context"
	"fmt"
	"strings"

	"golang-market-calendar/internal/sync/repository"
	"golang-market-calendar/pkg/logger"
	"golang-market-calendar/pkg/utils"
)

// WatchlistService manages watchlist membership. Adding a ticker kicks off
// an immediate refresh so its calendar data is available without waiting
// for the next scheduling cycle.
type WatchlistService interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, ticker string) error
	Remove(ctx context.Context, ticker string) error
}

// NewWatchlistService creates a new watchlist service.
func NewWatchlistService(watchlistRepo repository.WatchlistRepository, syncService SyncService, log *logger.Logger) WatchlistService {
	return &watchlistService{
		watchlistRepo: watchlistRepo,
		syncService:   syncService,
		logger:        log,
	}
}

type watchlistService struct {
	watchlistRepo repository.WatchlistRepository
	syncService   SyncService
	logger        *logger.Logger
}

func (s *watchlistService) List(ctx context.Context) ([]string, error) {
	return s.watchlistRepo.GetTickers(ctx)
}

func (s *watchlistService) Add(ctx context.Context, ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return fmt.Errorf("ticker must not be empty")
	}

	if err := s.watchlistRepo.Add(ctx, ticker); err != nil {
		return err
	}

	// Refresh in the background; the watchlist row already guarantees the
	// scheduler picks the ticker up even if this first refresh fails.
	utils.GoSafe(func() {
		if _, err := s.syncService.SyncTicker(context.Background(), ticker); err != nil {
			s.logger.Error("Initial refresh after watchlist add failed",
				logger.ErrorField(err),
				logger.StringField("ticker", ticker))
		}
	})
	return nil
}

func (s *watchlistService) Remove(ctx context.Context, ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return fmt.Errorf("ticker must not be empty")
	}
	return s.watchlistRepo.Remove(ctx, ticker)
}
