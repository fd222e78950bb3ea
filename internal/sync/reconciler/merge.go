package reconciler

import (
	"fmt"
	"strconv"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/dto"
)

// Field merge policies. Volatile fields (estimates, forecasts) take the
// latest fetched value whenever the feed sent one; an absent incoming
// value never erases a stored one. Sticky fields (reported actuals,
// confirmed amounts/ratios) are set once and never replaced by a
// differing later value — that case is a ConflictAnomaly: the stored
// value is retained and the attempt reported.

// mergeVolatileFloat applies the latest-wins policy with null backfill.
func mergeVolatileFloat(stored, incoming *float64) *float64 {
	if incoming != nil {
		return incoming
	}
	return stored
}

// mergeStickyFloat applies the set-once policy. The returned anomaly flag
// is true when a differing value tried to replace a confirmed one.
func mergeStickyFloat(stored, incoming *float64) (*float64, bool) {
	if incoming == nil {
		return stored, false
	}
	if stored == nil {
		return incoming, false
	}
	if *stored != *incoming {
		return stored, true
	}
	return stored, false
}

func mergeVolatileString(stored, incoming *string) *string {
	if incoming != nil {
		return incoming
	}
	return stored
}

func mergeStickyString(stored, incoming *string) (*string, bool) {
	if incoming == nil {
		return stored, false
	}
	if stored == nil {
		return incoming, false
	}
	if *stored != *incoming {
		return stored, true
	}
	return stored, false
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrString(v *float64) string {
	if v == nil {
		return "<null>"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func stringPtrString(v *string) string {
	if v == nil {
		return "<null>"
	}
	return *v
}

// mergeEarnings merges an incoming earnings print into the stored row.
func mergeEarnings(stored, incoming *entity.StockEarnings) (entity.StockEarnings, bool, []*dto.ConflictAnomaly) {
	merged := *stored
	var anomalies []*dto.ConflictAnomaly
	key := fmt.Sprintf("(%s, %s)", stored.Ticker, stored.Date.Format("2006-01-02"))

	merged.EPSEstimate = mergeVolatileFloat(stored.EPSEstimate, incoming.EPSEstimate)

	var conflict bool
	if merged.ReportedEPS, conflict = mergeStickyFloat(stored.ReportedEPS, incoming.ReportedEPS); conflict {
		anomalies = append(anomalies, &dto.ConflictAnomaly{
			Kind: entity.KindStockEarnings, Key: key, Field: "reported_eps",
			Stored: floatPtrString(stored.ReportedEPS), Incoming: floatPtrString(incoming.ReportedEPS),
		})
	}
	if merged.SurprisePct, conflict = mergeStickyFloat(stored.SurprisePct, incoming.SurprisePct); conflict {
		anomalies = append(anomalies, &dto.ConflictAnomaly{
			Kind: entity.KindStockEarnings, Key: key, Field: "surprise_pct",
			Stored: floatPtrString(stored.SurprisePct), Incoming: floatPtrString(incoming.SurprisePct),
		})
	}

	changed := !floatPtrEqual(merged.EPSEstimate, stored.EPSEstimate) ||
		!floatPtrEqual(merged.ReportedEPS, stored.ReportedEPS) ||
		!floatPtrEqual(merged.SurprisePct, stored.SurprisePct)
	return merged, changed, anomalies
}

// mergeDividend merges an incoming dividend into the stored row. The
// amount only backfills; a differing known amount is an anomaly.
func mergeDividend(stored, incoming *entity.StockDividend) (entity.StockDividend, bool, []*dto.ConflictAnomaly) {
	merged := *stored
	var anomalies []*dto.ConflictAnomaly

	amount, conflict := mergeStickyFloat(stored.Amount, incoming.Amount)
	merged.Amount = amount
	if conflict {
		anomalies = append(anomalies, &dto.ConflictAnomaly{
			Kind:   entity.KindStockDividend,
			Key:    fmt.Sprintf("(%s, %s)", stored.Ticker, stored.Date.Format("2006-01-02")),
			Field:  "amount",
			Stored: floatPtrString(stored.Amount), Incoming: floatPtrString(incoming.Amount),
		})
	}

	return merged, !floatPtrEqual(merged.Amount, stored.Amount), anomalies
}

// mergeSplit merges an incoming split into the stored row. The ratio is
// immutable once recorded.
func mergeSplit(stored, incoming *entity.StockSplit) (entity.StockSplit, bool, []*dto.ConflictAnomaly) {
	merged := *stored
	var anomalies []*dto.ConflictAnomaly

	ratio, conflict := mergeStickyString(stored.Ratio, incoming.Ratio)
	merged.Ratio = ratio
	if conflict {
		anomalies = append(anomalies, &dto.ConflictAnomaly{
			Kind:   entity.KindStockSplit,
			Key:    fmt.Sprintf("(%s, %s)", stored.Ticker, stored.Date.Format("2006-01-02")),
			Field:  "ratio",
			Stored: stringPtrString(stored.Ratio), Incoming: stringPtrString(incoming.Ratio),
		})
	}

	return merged, !stringPtrEqual(merged.Ratio, stored.Ratio), anomalies
}

// mergeEarningsCalendar merges an incoming broad-market earnings row.
func mergeEarningsCalendar(stored, incoming *entity.EarningsCalendarEntry) (entity.EarningsCalendarEntry, bool, []*dto.ConflictAnomaly) {
	merged := *stored
	var anomalies []*dto.ConflictAnomaly
	key := fmt.Sprintf("(%s, %s)", stored.Symbol, stored.Date.Format("2006-01-02"))

	merged.Day = incoming.Day
	if incoming.Company != "" {
		merged.Company = incoming.Company
	}
	merged.Marketcap = mergeVolatileFloat(stored.Marketcap, incoming.Marketcap)
	merged.EventName = mergeVolatileString(stored.EventName, incoming.EventName)
	merged.Timing = mergeVolatileString(stored.Timing, incoming.Timing)
	merged.EPSEstimate = mergeVolatileFloat(stored.EPSEstimate, incoming.EPSEstimate)

	var conflict bool
	if merged.ReportedEPS, conflict = mergeStickyFloat(stored.ReportedEPS, incoming.ReportedEPS); conflict {
		anomalies = append(anomalies, &dto.ConflictAnomaly{
			Kind: entity.KindEarningsCalendar, Key: key, Field: "reported_eps",
			Stored: floatPtrString(stored.ReportedEPS), Incoming: floatPtrString(incoming.ReportedEPS),
		})
	}
	if merged.SurprisePct, conflict = mergeStickyFloat(stored.SurprisePct, incoming.SurprisePct); conflict {
		anomalies = append(anomalies, &dto.ConflictAnomaly{
			Kind: entity.KindEarningsCalendar, Key: key, Field: "surprise_pct",
			Stored: floatPtrString(stored.SurprisePct), Incoming: floatPtrString(incoming.SurprisePct),
		})
	}

	changed := !merged.Day.Equal(stored.Day) ||
		merged.Company != stored.Company ||
		!floatPtrEqual(merged.Marketcap, stored.Marketcap) ||
		!stringPtrEqual(merged.EventName, stored.EventName) ||
		!stringPtrEqual(merged.Timing, stored.Timing) ||
		!floatPtrEqual(merged.EPSEstimate, stored.EPSEstimate) ||
		!floatPtrEqual(merged.ReportedEPS, stored.ReportedEPS) ||
		!floatPtrEqual(merged.SurprisePct, stored.SurprisePct)
	return merged, changed, anomalies
}

// mergeEconomicEvent merges an incoming macro release row.
func mergeEconomicEvent(stored, incoming *entity.EconomicCalendarEntry) (entity.EconomicCalendarEntry, bool, []*dto.ConflictAnomaly) {
	merged := *stored
	var anomalies []*dto.ConflictAnomaly

	merged.Time = mergeVolatileString(stored.Time, incoming.Time)
	merged.Currency = mergeVolatileString(stored.Currency, incoming.Currency)
	merged.Impact = mergeVolatileString(stored.Impact, incoming.Impact)
	merged.Forecast = mergeVolatileString(stored.Forecast, incoming.Forecast)
	merged.Previous = mergeVolatileString(stored.Previous, incoming.Previous)

	actual, conflict := mergeStickyString(stored.Actual, incoming.Actual)
	merged.Actual = actual
	if conflict {
		anomalies = append(anomalies, &dto.ConflictAnomaly{
			Kind:   entity.KindEconomicCalendar,
			Key:    fmt.Sprintf("(%s, %s)", stored.Day.Format("2006-01-02"), stored.Event),
			Field:  "actual",
			Stored: stringPtrString(stored.Actual), Incoming: stringPtrString(incoming.Actual),
		})
	}

	changed := !stringPtrEqual(merged.Time, stored.Time) ||
		!stringPtrEqual(merged.Currency, stored.Currency) ||
		!stringPtrEqual(merged.Impact, stored.Impact) ||
		!stringPtrEqual(merged.Forecast, stored.Forecast) ||
		!stringPtrEqual(merged.Previous, stored.Previous) ||
		!stringPtrEqual(merged.Actual, stored.Actual)
	return merged, changed, anomalies
}
