package repository

import (
	"context"
	"strings"

	"golang-market-calendar/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatchlistRepository defines the interface for watchlist membership.
type WatchlistRepository interface {
	GetTickers(ctx context.Context) ([]string, error)
	Add(ctx context.Context, ticker string) error
	Remove(ctx context.Context, ticker string) error
}

// NewWatchlistRepository creates a new GORM-based watchlist repository.
func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

type watchlistRepository struct {
	db *gorm.DB
}

// GetTickers returns all watched tickers in alphabetical order.
func (r *watchlistRepository) GetTickers(ctx context.Context) ([]string, error) {
	var tickers []string
	err := r.db.WithContext(ctx).
		Model(&entity.WatchlistEntry{}).
		Order("ticker").
		Pluck("ticker", &tickers).Error
	if err != nil {
		return nil, err
	}
	return tickers, nil
}

// Add inserts a ticker; adding an already-watched ticker is a no-op.
func (r *watchlistRepository) Add(ctx context.Context, ticker string) error {
	entry := entity.WatchlistEntry{Ticker: strings.ToUpper(strings.TrimSpace(ticker))}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
}

// Remove deletes a ticker from the watchlist. Historical rows for the
// ticker are retained.
func (r *watchlistRepository) Remove(ctx context.Context, ticker string) error {
	return r.db.WithContext(ctx).
		Delete(&entity.WatchlistEntry{}, "ticker = ?", strings.ToUpper(strings.TrimSpace(ticker))).Error
}
