package service

import (
	"context"
	"time"

	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/internal/sync/repository"
)

// CalendarService serves the broad-market earnings and economics calendars
// grouped by day.
type CalendarService interface {
	GetEarningsCalendar(ctx context.Context, start, end *time.Time) ([]dto.EarningsCalendarDay, error)
	GetEconomicCalendar(ctx context.Context, start, end *time.Time) ([]dto.EconomicCalendarDay, error)
}

// NewCalendarService creates a new calendar service.
func NewCalendarService(calendarRepo repository.CalendarRepository) CalendarService {
	return &calendarService{calendarRepo: calendarRepo}
}

type calendarService struct {
	calendarRepo repository.CalendarRepository
}

func (s *calendarService) GetEarningsCalendar(ctx context.Context, start, end *time.Time) ([]dto.EarningsCalendarDay, error) {
	entries, err := s.calendarRepo.GetEarningsCalendar(ctx, start, end)
	if err != nil {
		return nil, err
	}

	days := make([]dto.EarningsCalendarDay, 0)
	for _, entry := range entries {
		day := entry.Day.Format("2006-01-02")
		if len(days) == 0 || days[len(days)-1].Day != day {
			days = append(days, dto.EarningsCalendarDay{Day: day})
		}
		days[len(days)-1].Events = append(days[len(days)-1].Events, entry)
	}
	return days, nil
}

func (s *calendarService) GetEconomicCalendar(ctx context.Context, start, end *time.Time) ([]dto.EconomicCalendarDay, error) {
	entries, err := s.calendarRepo.GetEconomicCalendar(ctx, start, end)
	if err != nil {
		return nil, err
	}

	days := make([]dto.EconomicCalendarDay, 0)
	for _, entry := range entries {
		day := entry.Day.Format("2006-01-02")
		if len(days) == 0 || days[len(days)-1].Day != day {
			days = append(days, dto.EconomicCalendarDay{Day: day})
		}
		days[len(days)-1].Events = append(days[len(days)-1].Events, entry)
	}
	return days, nil
}
