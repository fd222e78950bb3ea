package reconciler

import (
	"encoding/json"
	"testing"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotDates(t *testing.T, snap entity.StockCalendar) []string {
	t.Helper()
	var dates []string
	require.NoError(t, json.Unmarshal(snap.EarningsDates, &dates))
	return dates
}

func TestBuildSnapshot_DerivesDatesFromStoredRows(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	earnings := []entity.StockEarnings{
		{Ticker: "AAPL", Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},  // past, excluded
		{Ticker: "AAPL", Date: time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC)},
		{Ticker: "AAPL", Date: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)}, // today, included
	}

	snap, err := BuildSnapshot("AAPL", nil, earnings, nil, nil, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-08-30", "2026-10-29"}, snapshotDates(t, snap))
	assert.Equal(t, now, snap.UpdatedAt)
}

func TestBuildSnapshot_EstimateFieldsFromFetch(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	divDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	est := &dto.CalendarEstimates{
		Ticker:          "AAPL",
		DividendDate:    &divDate,
		EarningsAverage: utils.ToPointer(1.62),
		RevenueHigh:     utils.ToPointer(9.1e10),
		EarningsDates:   []time.Time{time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC)},
	}

	snap, err := BuildSnapshot("AAPL", est, nil, nil, nil, now)
	require.NoError(t, err)

	require.NotNil(t, snap.DividendDate)
	assert.True(t, snap.DividendDate.Equal(divDate))
	assert.Equal(t, 1.62, *snap.EarningsAverage)
	assert.Equal(t, 9.1e10, *snap.RevenueHigh)
	// No stored rows yet, so the feed's own date list is used.
	assert.Equal(t, []string{"2026-10-29"}, snapshotDates(t, snap))
}

func TestBuildSnapshot_RowRefreshCarriesEstimatesForward(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	prev := &entity.StockCalendar{
		Ticker:          "AAPL",
		EarningsAverage: utils.ToPointer(1.62),
		RevenueAverage:  utils.ToPointer(8.8e10),
		UpdatedAt:       now.Add(-6 * time.Hour),
	}
	earnings := []entity.StockEarnings{
		{Ticker: "AAPL", Date: time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC)},
	}

	snap, err := BuildSnapshot("AAPL", nil, earnings, nil, prev, now)
	require.NoError(t, err)

	require.NotNil(t, snap.EarningsAverage)
	assert.Equal(t, 1.62, *snap.EarningsAverage)
	assert.Equal(t, 8.8e10, *snap.RevenueAverage)
	assert.Equal(t, []string{"2026-10-29"}, snapshotDates(t, snap))
	assert.Equal(t, now, snap.UpdatedAt)
}

func TestBuildSnapshot_ExDividendFallsBackToLatestDividend(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	dividends := []entity.StockDividend{
		{Ticker: "KO", Date: time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)},
		{Ticker: "KO", Date: time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)},
	}

	snap, err := BuildSnapshot("KO", nil, nil, dividends, nil, now)
	require.NoError(t, err)

	require.NotNil(t, snap.ExDividendDate)
	assert.True(t, snap.ExDividendDate.Equal(dividends[1].Date))
}

func TestBuildSnapshot_UpdatedAtNeverGoesBackwards(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	prev := &entity.StockCalendar{Ticker: "AAPL", UpdatedAt: now.Add(time.Hour)}

	snap, err := BuildSnapshot("AAPL", nil, nil, nil, prev, now)
	require.NoError(t, err)

	assert.Equal(t, prev.UpdatedAt, snap.UpdatedAt)
}

func TestBuildSnapshot_EmptyDatesEncodeAsEmptyList(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	snap, err := BuildSnapshot("AAPL", nil, nil, nil, nil, now)
	require.NoError(t, err)

	assert.Empty(t, snapshotDates(t, snap))
}
