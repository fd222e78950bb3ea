package repository

import (
	"context"
	"time"

	"golang-market-calendar/internal/entity"

	"gorm.io/gorm"
)

// CalendarRepository defines the read interface for the broad-market
// earnings and economic calendars.
type CalendarRepository interface {
	GetEarningsCalendar(ctx context.Context, start, end *time.Time) ([]entity.EarningsCalendarEntry, error)
	GetEconomicCalendar(ctx context.Context, start, end *time.Time) ([]entity.EconomicCalendarEntry, error)
}

// NewCalendarRepository creates a new GORM-based calendar repository.
func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

type calendarRepository struct {
	db *gorm.DB
}

// GetEarningsCalendar returns broad-market earnings events in the
// optional [start, end] day range, newest day first.
func (r *calendarRepository) GetEarningsCalendar(ctx context.Context, start, end *time.Time) ([]entity.EarningsCalendarEntry, error) {
	q := r.db.WithContext(ctx).Order("day DESC, id")
	if start != nil {
		q = q.Where("day >= ?", *start)
	}
	if end != nil {
		q = q.Where("day <= ?", *end)
	}

	var rows []entity.EarningsCalendarEntry
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetEconomicCalendar returns macro releases in the optional [start, end]
// day range, oldest day first.
func (r *calendarRepository) GetEconomicCalendar(ctx context.Context, start, end *time.Time) ([]entity.EconomicCalendarEntry, error) {
	q := r.db.WithContext(ctx).Order("day, id")
	if start != nil {
		q = q.Where("day >= ?", *start)
	}
	if end != nil {
		q = q.Where("day <= ?", *end)
	}

	var rows []entity.EconomicCalendarEntry
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
