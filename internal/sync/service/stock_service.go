package service

import (
	"context"
	"fmt"
	"strings"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/repository"
	"golang-market-calendar/pkg/logger"
)

// StockService serves per-ticker calendar data. A request for a ticker with
// no stored data adds it to the watchlist and refreshes it inline, so the
// first read already returns data.
type StockService interface {
	GetCalendar(ctx context.Context, ticker string) (*entity.StockCalendar, error)
	GetEarnings(ctx context.Context, ticker string, limit, offset int) ([]entity.StockEarnings, error)
	GetDividends(ctx context.Context, ticker string) ([]entity.StockDividend, error)
	GetSplits(ctx context.Context, ticker string) ([]entity.StockSplit, error)
}

// NewStockService creates a new stock service.
func NewStockService(
	stockRepo repository.StockRepository,
	watchlistRepo repository.WatchlistRepository,
	syncService SyncService,
	log *logger.Logger,
) StockService {
	return &stockService{
		stockRepo:     stockRepo,
		watchlistRepo: watchlistRepo,
		syncService:   syncService,
		logger:        log,
	}
}

type stockService struct {
	stockRepo     repository.StockRepository
	watchlistRepo repository.WatchlistRepository
	syncService   SyncService
	logger        *logger.Logger
}

func (s *stockService) GetCalendar(ctx context.Context, ticker string) (*entity.StockCalendar, error) {
	ticker, err := s.ensureTracked(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return s.stockRepo.GetCalendar(ctx, ticker)
}

func (s *stockService) GetEarnings(ctx context.Context, ticker string, limit, offset int) ([]entity.StockEarnings, error) {
	ticker, err := s.ensureTracked(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return s.stockRepo.GetEarnings(ctx, ticker, limit, offset)
}

func (s *stockService) GetDividends(ctx context.Context, ticker string) ([]entity.StockDividend, error) {
	ticker, err := s.ensureTracked(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return s.stockRepo.GetDividends(ctx, ticker)
}

func (s *stockService) GetSplits(ctx context.Context, ticker string) ([]entity.StockSplit, error) {
	ticker, err := s.ensureTracked(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return s.stockRepo.GetSplits(ctx, ticker)
}

// ensureTracked normalizes the ticker and, when it has no stored data yet,
// adds it to the watchlist and refreshes it before the caller reads.
func (s *stockService) ensureTracked(ctx context.Context, ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", fmt.Errorf("ticker must not be empty")
	}

	hasData, err := s.stockRepo.HasAnyData(ctx, ticker)
	if err != nil {
		return "", err
	}
	if hasData {
		return ticker, nil
	}

	s.logger.Info("First request for untracked ticker, refreshing inline",
		logger.StringField("ticker", ticker))
	if err := s.watchlistRepo.Add(ctx, ticker); err != nil {
		return "", err
	}
	if _, err := s.syncService.SyncTicker(ctx, ticker); err != nil {
		// Partial data may still have landed; let the read proceed.
		s.logger.Warn("Inline refresh failed",
			logger.ErrorField(err),
			logger.StringField("ticker", ticker))
	}
	return ticker, nil
}
