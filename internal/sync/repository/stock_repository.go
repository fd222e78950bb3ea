package repository

import (
	"context"
	"errors"
	"strings"

	"golang-market-calendar/internal/entity"

	"gorm.io/gorm"
)

// StockRepository defines the read interface for per-ticker rows. All
// writes go through the reconciliation engine.
type StockRepository interface {
	GetCalendar(ctx context.Context, ticker string) (*entity.StockCalendar, error)
	GetEarnings(ctx context.Context, ticker string, limit, offset int) ([]entity.StockEarnings, error)
	GetDividends(ctx context.Context, ticker string) ([]entity.StockDividend, error)
	GetSplits(ctx context.Context, ticker string) ([]entity.StockSplit, error)
	HasAnyData(ctx context.Context, ticker string) (bool, error)
}

// NewStockRepository creates a new GORM-based stock repository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

type stockRepository struct {
	db *gorm.DB
}

// GetCalendar returns the snapshot row, or nil when none exists yet.
func (r *stockRepository) GetCalendar(ctx context.Context, ticker string) (*entity.StockCalendar, error) {
	var cal entity.StockCalendar
	err := r.db.WithContext(ctx).
		Where("ticker = ?", strings.ToUpper(ticker)).
		First(&cal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

// GetEarnings returns earnings prints newest-first.
func (r *stockRepository) GetEarnings(ctx context.Context, ticker string, limit, offset int) ([]entity.StockEarnings, error) {
	var rows []entity.StockEarnings
	q := r.db.WithContext(ctx).
		Where("ticker = ?", strings.ToUpper(ticker)).
		Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetDividends returns dividends newest-first.
func (r *stockRepository) GetDividends(ctx context.Context, ticker string) ([]entity.StockDividend, error) {
	var rows []entity.StockDividend
	err := r.db.WithContext(ctx).
		Where("ticker = ?", strings.ToUpper(ticker)).
		Order("date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSplits returns splits newest-first.
func (r *stockRepository) GetSplits(ctx context.Context, ticker string) ([]entity.StockSplit, error) {
	var rows []entity.StockSplit
	err := r.db.WithContext(ctx).
		Where("ticker = ?", strings.ToUpper(ticker)).
		Order("date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HasAnyData reports whether any row exists for the ticker in the
// snapshot or event tables.
func (r *stockRepository) HasAnyData(ctx context.Context, ticker string) (bool, error) {
	upper := strings.ToUpper(ticker)
	for _, model := range []interface{}{
		&entity.StockCalendar{}, &entity.StockEarnings{},
		&entity.StockDividend{}, &entity.StockSplit{},
	} {
		var count int64
		if err := r.db.WithContext(ctx).Model(model).Where("ticker = ?", upper).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
