package dto

import "time"

// CalendarEstimates is the canonical form of a per-ticker calendar fetch:
// the feed-sourced half of the stock calendar snapshot. The snapshot row
// itself is derived from these estimates plus the stored earnings and
// dividend rows.
type CalendarEstimates struct {
	Ticker          string
	DividendDate    *time.Time
	ExDividendDate  *time.Time
	EarningsDates   []time.Time
	EarningsHigh    *float64
	EarningsLow     *float64
	EarningsAverage *float64
	RevenueHigh     *float64
	RevenueLow      *float64
	RevenueAverage  *float64
}
