package service

import (
	"context"
	"testing"
	"time"

	"golang-market-calendar/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalendarRepo struct {
	earnings  []entity.EarningsCalendarEntry
	economics []entity.EconomicCalendarEntry
}

func (r *fakeCalendarRepo) GetEarningsCalendar(ctx context.Context, start, end *time.Time) ([]entity.EarningsCalendarEntry, error) {
	return r.earnings, nil
}

func (r *fakeCalendarRepo) GetEconomicCalendar(ctx context.Context, start, end *time.Time) ([]entity.EconomicCalendarEntry, error) {
	return r.economics, nil
}

func TestGetEconomicCalendar_GroupsByDay(t *testing.T) {
	day1 := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 13, 0, 0, 0, 0, time.UTC)
	svc := NewCalendarService(&fakeCalendarRepo{economics: []entity.EconomicCalendarEntry{
		{Day: day1, Event: "CPI y/y"},
		{Day: day1, Event: "Crude Oil Inventories"},
		{Day: day2, Event: "Unemployment Claims"},
	}})

	days, err := svc.GetEconomicCalendar(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-08-12", days[0].Day)
	assert.Len(t, days[0].Events, 2)
	assert.Equal(t, "2026-08-13", days[1].Day)
	assert.Len(t, days[1].Events, 1)
}

func TestGetEarningsCalendar_Empty(t *testing.T) {
	svc := NewCalendarService(&fakeCalendarRepo{})

	days, err := svc.GetEarningsCalendar(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, days)
}
