package normalizer

import (
	"testing"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockCalendar_Normalize(t *testing.T) {
	n := New()

	est, err := n.StockCalendar(dto.RawStockCalendar{
		Ticker:          " aapl ",
		DividendDate:    "2026-09-10",
		ExDividendDate:  "2026-08-08",
		EarningsDates:   []string{"2027-01-28", "2026-10-29", "not-a-date"},
		EarningsAverage: "1.62",
		RevenueHigh:     "91B",
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", est.Ticker)
	require.NotNil(t, est.DividendDate)
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), *est.DividendDate)
	// Unparseable dates in the list are skipped, the rest sorted ascending.
	require.Len(t, est.EarningsDates, 2)
	assert.Equal(t, time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC), est.EarningsDates[0])
	assert.Equal(t, time.Date(2027, 1, 28, 0, 0, 0, 0, time.UTC), est.EarningsDates[1])
	assert.Equal(t, 9.1e10, *est.RevenueHigh)
	assert.Nil(t, est.EarningsHigh)
}

func TestStockCalendar_MissingTicker(t *testing.T) {
	_, err := New().StockCalendar(dto.RawStockCalendar{})
	require.Error(t, err)
	assert.True(t, dto.IsValidationError(err))
}

func TestStockEarnings_Normalize(t *testing.T) {
	n := New()

	row, err := n.StockEarnings(dto.RawEarnings{
		Ticker:      "aapl",
		Date:        "2026-07-30",
		EPSEstimate: "1.60",
		ReportedEPS: "",
		SurprisePct: "-",
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", row.Ticker)
	assert.Equal(t, 1.60, *row.EPSEstimate)
	// Missing values stay null, never zero.
	assert.Nil(t, row.ReportedEPS)
	assert.Nil(t, row.SurprisePct)
}

func TestStockEarnings_NonNumericFails(t *testing.T) {
	_, err := New().StockEarnings(dto.RawEarnings{
		Ticker:      "AAPL",
		Date:        "2026-07-30",
		ReportedEPS: "pending",
	})
	require.Error(t, err)
	assert.True(t, dto.IsValidationError(err))
}

func TestStockDividend_MissingDateFails(t *testing.T) {
	_, err := New().StockDividend(dto.RawDividend{Ticker: "KO", Amount: "0.485"})
	require.Error(t, err)
	assert.True(t, dto.IsValidationError(err))
}

func TestEarningsCalendarItem_Normalize(t *testing.T) {
	row, err := New().EarningsCalendarItem(dto.RawEarningsCalendarItem{
		Symbol:    "msft",
		Date:      "2026-10-27T21:00:00Z",
		Marketcap: "3.2T",
		Timing:    "AMC",
	})
	require.NoError(t, err)

	assert.Equal(t, "MSFT", row.Symbol)
	// Company falls back to the symbol when the feed omits it.
	assert.Equal(t, "MSFT", row.Company)
	assert.Equal(t, time.Date(2026, 10, 27, 0, 0, 0, 0, time.UTC), row.Day)
	assert.Equal(t, time.Date(2026, 10, 27, 21, 0, 0, 0, time.UTC), row.Date)
	assert.Equal(t, 3.2e12, *row.Marketcap)
	assert.Equal(t, "AMC", *row.Timing)
}

func TestEconomicEvent_Normalize(t *testing.T) {
	row, err := New().EconomicEvent(dto.RawEconomicEvent{
		Date:     "2026-08-12",
		Time:     "8:30am",
		Currency: "USD",
		Impact:   "High",
		Event:    "CPI y/y",
		Forecast: "3.1%",
		Previous: "3.0%",
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC), row.Day)
	assert.Equal(t, "08:30", *row.Time)
	assert.Equal(t, "CPI y/y", row.Event)
	assert.Nil(t, row.Actual)
	assert.Equal(t, "3.1%", *row.Forecast)
}

func TestEconomicEvent_AllDayTimePassesThrough(t *testing.T) {
	row, err := New().EconomicEvent(dto.RawEconomicEvent{
		Date:  "2026-08-12",
		Time:  "All Day",
		Event: "Bank Holiday",
	})
	require.NoError(t, err)
	assert.Equal(t, "All Day", *row.Time)
}

func TestEconomicEvent_MissingEventFails(t *testing.T) {
	_, err := New().EconomicEvent(dto.RawEconomicEvent{Date: "2026-08-12"})
	require.Error(t, err)
	assert.True(t, dto.IsValidationError(err))
}

func TestNormalize_Dispatch(t *testing.T) {
	n := New()

	got, err := n.Normalize(dto.RawDividend{Ticker: "KO", Date: "2026-08-14", Amount: "0.485"})
	require.NoError(t, err)
	assert.IsType(t, &entity.StockDividend{}, got)

	got, err = n.Normalize(dto.RawStockCalendar{Ticker: "KO"})
	require.NoError(t, err)
	assert.IsType(t, &dto.CalendarEstimates{}, got)
}
