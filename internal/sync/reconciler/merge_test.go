package reconciler

import (
	"testing"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func earningsRow(eps, reported, surprise *float64) *entity.StockEarnings {
	return &entity.StockEarnings{
		Ticker:      "AAPL",
		Date:        time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC),
		EPSEstimate: eps,
		ReportedEPS: reported,
		SurprisePct: surprise,
	}
}

func TestMergeEarnings_VolatileLatestWins(t *testing.T) {
	stored := earningsRow(utils.ToPointer(1.50), nil, nil)
	incoming := earningsRow(utils.ToPointer(1.62), nil, nil)

	merged, changed, anomalies := mergeEarnings(stored, incoming)

	assert.True(t, changed)
	assert.Empty(t, anomalies)
	require.NotNil(t, merged.EPSEstimate)
	assert.Equal(t, 1.62, *merged.EPSEstimate)
}

func TestMergeEarnings_NilNeverErases(t *testing.T) {
	stored := earningsRow(utils.ToPointer(1.50), utils.ToPointer(1.55), utils.ToPointer(3.3))
	incoming := earningsRow(nil, nil, nil)

	merged, changed, anomalies := mergeEarnings(stored, incoming)

	assert.False(t, changed)
	assert.Empty(t, anomalies)
	require.NotNil(t, merged.EPSEstimate)
	assert.Equal(t, 1.50, *merged.EPSEstimate)
	require.NotNil(t, merged.ReportedEPS)
	assert.Equal(t, 1.55, *merged.ReportedEPS)
}

func TestMergeEarnings_StickyBackfill(t *testing.T) {
	stored := earningsRow(utils.ToPointer(1.50), nil, nil)
	incoming := earningsRow(nil, utils.ToPointer(1.55), utils.ToPointer(3.3))

	merged, changed, anomalies := mergeEarnings(stored, incoming)

	assert.True(t, changed)
	assert.Empty(t, anomalies)
	require.NotNil(t, merged.ReportedEPS)
	assert.Equal(t, 1.55, *merged.ReportedEPS)
	require.NotNil(t, merged.SurprisePct)
	assert.Equal(t, 3.3, *merged.SurprisePct)
}

func TestMergeEarnings_StickyConflictKeepsStored(t *testing.T) {
	stored := earningsRow(nil, utils.ToPointer(1.55), nil)
	incoming := earningsRow(nil, utils.ToPointer(1.60), nil)

	merged, changed, anomalies := mergeEarnings(stored, incoming)

	assert.False(t, changed)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "reported_eps", anomalies[0].Field)
	assert.Equal(t, "1.55", anomalies[0].Stored)
	assert.Equal(t, "1.6", anomalies[0].Incoming)
	require.NotNil(t, merged.ReportedEPS)
	assert.Equal(t, 1.55, *merged.ReportedEPS)
}

func TestMergeEarnings_Idempotent(t *testing.T) {
	stored := earningsRow(utils.ToPointer(1.50), utils.ToPointer(1.55), utils.ToPointer(3.3))
	incoming := earningsRow(utils.ToPointer(1.50), utils.ToPointer(1.55), utils.ToPointer(3.3))

	merged, changed, anomalies := mergeEarnings(stored, incoming)

	assert.False(t, changed)
	assert.Empty(t, anomalies)
	assert.Equal(t, *stored, merged)
}

func TestMergeDividend_AmountBackfillsThenSticks(t *testing.T) {
	date := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)
	stored := &entity.StockDividend{Ticker: "KO", Date: date}
	incoming := &entity.StockDividend{Ticker: "KO", Date: date, Amount: utils.ToPointer(0.485)}

	merged, changed, anomalies := mergeDividend(stored, incoming)
	assert.True(t, changed)
	assert.Empty(t, anomalies)
	require.NotNil(t, merged.Amount)
	assert.Equal(t, 0.485, *merged.Amount)

	// A later differing amount is rejected and reported.
	conflicting := &entity.StockDividend{Ticker: "KO", Date: date, Amount: utils.ToPointer(0.50)}
	merged2, changed2, anomalies2 := mergeDividend(&merged, conflicting)
	assert.False(t, changed2)
	require.Len(t, anomalies2, 1)
	assert.Equal(t, "amount", anomalies2[0].Field)
	assert.Equal(t, 0.485, *merged2.Amount)
}

func TestMergeSplit_RatioImmutable(t *testing.T) {
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	stored := &entity.StockSplit{Ticker: "NVDA", Date: date, Ratio: utils.ToPointer("10:1")}
	incoming := &entity.StockSplit{Ticker: "NVDA", Date: date, Ratio: utils.ToPointer("4:1")}

	merged, changed, anomalies := mergeSplit(stored, incoming)

	assert.False(t, changed)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "ratio", anomalies[0].Field)
	assert.Equal(t, "10:1", *merged.Ratio)
}

func TestMergeEarningsCalendar_VolatileAndSticky(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	stored := &entity.EarningsCalendarEntry{
		Symbol: "MSFT", Company: "Microsoft", Day: day, Date: day,
		EPSEstimate: utils.ToPointer(2.90),
	}
	incoming := &entity.EarningsCalendarEntry{
		Symbol: "MSFT", Company: "Microsoft Corporation", Day: day, Date: day,
		EPSEstimate: utils.ToPointer(2.95),
		ReportedEPS: utils.ToPointer(3.01),
	}

	merged, changed, anomalies := mergeEarningsCalendar(stored, incoming)

	assert.True(t, changed)
	assert.Empty(t, anomalies)
	assert.Equal(t, "Microsoft Corporation", merged.Company)
	assert.Equal(t, 2.95, *merged.EPSEstimate)
	assert.Equal(t, 3.01, *merged.ReportedEPS)

	// Reported EPS is now confirmed; a differing value must not replace it.
	revised := &entity.EarningsCalendarEntry{
		Symbol: "MSFT", Company: "Microsoft Corporation", Day: day, Date: day,
		ReportedEPS: utils.ToPointer(2.99),
	}
	merged2, _, anomalies2 := mergeEarningsCalendar(&merged, revised)
	require.Len(t, anomalies2, 1)
	assert.Equal(t, "reported_eps", anomalies2[0].Field)
	assert.Equal(t, 3.01, *merged2.ReportedEPS)
}

func TestMergeEconomicEvent_ActualStickyOthersVolatile(t *testing.T) {
	day := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	stored := &entity.EconomicCalendarEntry{
		Day: day, Event: "CPI y/y",
		Forecast: utils.ToPointer("3.1%"),
		Actual:   utils.ToPointer("3.2%"),
	}
	incoming := &entity.EconomicCalendarEntry{
		Day: day, Event: "CPI y/y",
		Forecast: utils.ToPointer("3.0%"),
		Actual:   utils.ToPointer("3.3%"),
		Impact:   utils.ToPointer("High"),
	}

	merged, changed, anomalies := mergeEconomicEvent(stored, incoming)

	assert.True(t, changed)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "actual", anomalies[0].Field)
	assert.Equal(t, "3.2%", *merged.Actual)
	assert.Equal(t, "3.0%", *merged.Forecast)
	assert.Equal(t, "High", *merged.Impact)
}
