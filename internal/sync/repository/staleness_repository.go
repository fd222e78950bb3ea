package repository

import (
	"context"
	"fmt"
	"time"

	"golang-market-calendar/internal/entity"

	"gorm.io/gorm"
)

// StalenessRepository recovers per-(ticker, kind) last-refresh anchors
// from timestamps already in the store. The scheduler seeds its in-memory
// cadence state from these; no separate scheduling state is persisted.
type StalenessRepository interface {
	// LastRefresh returns the last known refresh time for the kind and
	// ticker, or nil when the store holds no rows yet (cold start).
	LastRefresh(ctx context.Context, kind entity.Kind, ticker string) (*time.Time, error)
}

// NewStalenessRepository creates a new GORM-based staleness repository.
func NewStalenessRepository(db *gorm.DB) StalenessRepository {
	return &stalenessRepository{db: db}
}

type stalenessRepository struct {
	db *gorm.DB
}

func (r *stalenessRepository) LastRefresh(ctx context.Context, kind entity.Kind, ticker string) (*time.Time, error) {
	switch kind {
	case entity.KindStockCalendar:
		var cal entity.StockCalendar
		err := r.db.WithContext(ctx).Where("ticker = ?", ticker).First(&cal).Error
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &cal.UpdatedAt, nil
	case entity.KindStockEarnings, entity.KindStockDividend, entity.KindStockSplit:
		return r.maxUpdatedAt(ctx, string(kind), "ticker = ?", ticker)
	case entity.KindEarningsCalendar, entity.KindEconomicCalendar:
		return r.maxUpdatedAt(ctx, string(kind), "1 = 1")
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

func (r *stalenessRepository) maxUpdatedAt(ctx context.Context, table, cond string, args ...interface{}) (*time.Time, error) {
	var result struct {
		Last *time.Time
	}
	err := r.db.WithContext(ctx).
		Table(table).
		Select("MAX(updated_at) AS last").
		Where(cond, args...).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return result.Last, nil
}
