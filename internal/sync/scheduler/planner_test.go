package scheduler

import (
	"testing"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/config"
	"golang-market-calendar/internal/sync/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSeed(entity.Kind) *time.Time { return nil }

func seedAll(at time.Time) SeedFunc {
	return func(entity.Kind) *time.Time { return &at }
}

func taskKinds(tasks []dto.RefreshTask) []entity.Kind {
	kinds := make([]entity.Kind, 0, len(tasks))
	for _, task := range tasks {
		kinds = append(kinds, task.Kind)
	}
	return kinds
}

func TestPlanTicker_ColdStartSchedulesEverything(t *testing.T) {
	p := NewPlanner(config.Scheduler{})
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tasks := p.PlanTicker("AAPL", noSeed, nil, now)

	assert.ElementsMatch(t, entity.TickerKinds, taskKinds(tasks))
}

func TestPlanTicker_FreshDataSchedulesNothing(t *testing.T) {
	p := NewPlanner(config.Scheduler{})
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tasks := p.PlanTicker("AAPL", seedAll(now.Add(-time.Hour)), nil, now)

	assert.Empty(t, tasks)
}

func TestPlanTicker_SeedConsultedOncePerTicker(t *testing.T) {
	p := NewPlanner(config.Scheduler{})
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	calls := 0
	seed := func(kind entity.Kind) *time.Time {
		calls++
		anchor := now.Add(-time.Hour)
		return &anchor
	}

	p.PlanTicker("AAPL", seed, nil, now)
	firstCalls := calls
	p.PlanTicker("AAPL", seed, nil, now.Add(time.Minute))

	assert.Equal(t, len(entity.TickerKinds), firstCalls)
	assert.Equal(t, firstCalls, calls, "second cycle must use the in-memory anchors")
}

func TestPlanTicker_DueAgainAfterInterval(t *testing.T) {
	p := NewPlanner(config.Scheduler{
		Intervals: config.Intervals{StockCalendar: time.Hour},
	})
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	p.PlanTicker("AAPL", noSeed, nil, now)
	for _, kind := range entity.TickerKinds {
		p.MarkCompleted("AAPL", kind, now)
	}

	assert.Empty(t, p.PlanTicker("AAPL", noSeed, nil, now.Add(30*time.Minute)))

	tasks := p.PlanTicker("AAPL", noSeed, nil, now.Add(61*time.Minute))
	assert.Contains(t, taskKinds(tasks), entity.KindStockCalendar)
}

func TestInterval_EarningsCadenceTightens(t *testing.T) {
	p := NewPlanner(config.Scheduler{
		Intervals: config.Intervals{
			StockEarnings:            6 * time.Hour,
			EarningsNearWindow:       7 * 24 * time.Hour,
			EarningsNearInterval:     time.Hour,
			EarningsImminentWindow:   24 * time.Hour,
			EarningsImminentInterval: 15 * time.Minute,
		},
	})
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	far := now.Add(30 * 24 * time.Hour)
	near := now.Add(3 * 24 * time.Hour)
	imminent := now.Add(6 * time.Hour)
	past := now.Add(-24 * time.Hour)

	assert.Equal(t, 6*time.Hour, p.Interval(entity.KindStockEarnings, nil, now))
	assert.Equal(t, 6*time.Hour, p.Interval(entity.KindStockEarnings, &far, now))
	assert.Equal(t, time.Hour, p.Interval(entity.KindStockEarnings, &near, now))
	assert.Equal(t, 15*time.Minute, p.Interval(entity.KindStockEarnings, &imminent, now))
	// A past earnings date relaxes back to the base cadence.
	assert.Equal(t, 6*time.Hour, p.Interval(entity.KindStockEarnings, &past, now))
}

func TestPlanGlobal_CronCadence(t *testing.T) {
	p := NewPlanner(config.Scheduler{
		EarningsCalendarCron: "0 6 * * *",
		EconomicCalendarCron: "0 * * * *",
	})
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// Cold start: both feeds fire immediately.
	tasks := p.PlanGlobal(noSeed, now)
	require.ElementsMatch(t, entity.GlobalKinds, taskKinds(tasks))

	// Nothing due until the next cron boundary.
	assert.Empty(t, p.PlanGlobal(noSeed, now.Add(30*time.Minute)))

	// The hourly economic feed fires at 13:00, the daily one does not.
	tasks = p.PlanGlobal(noSeed, now.Add(time.Hour))
	assert.Equal(t, []entity.Kind{entity.KindEconomicCalendar}, taskKinds(tasks))
}

func TestPlanGlobal_SeedSuppressesColdStart(t *testing.T) {
	p := NewPlanner(config.Scheduler{
		EarningsCalendarCron: "0 6 * * *",
		EconomicCalendarCron: "0 6 * * *",
	})
	// Last refresh at 07:00 today; next cron fire is 06:00 tomorrow.
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2026, 8, 30, 7, 0, 0, 0, time.UTC)

	assert.Empty(t, p.PlanGlobal(seedAll(anchor), now))
}
