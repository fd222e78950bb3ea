package entity

// Kind identifies one of the calendar entity kinds handled by the sync
// engine. The value doubles as the table name of the kind's store.
type Kind string

const (
	KindStockCalendar    Kind = "stock_calendar"
	KindStockEarnings    Kind = "stock_earnings"
	KindStockDividend    Kind = "stock_dividends"
	KindStockSplit       Kind = "stock_splits"
	KindEarningsCalendar Kind = "earnings_calendar"
	KindEconomicCalendar Kind = "economics_calendar"
)

// TickerKinds are the kinds refreshed per watchlist ticker.
var TickerKinds = []Kind{KindStockCalendar, KindStockEarnings, KindStockDividend, KindStockSplit}

// GlobalKinds are the broad-market feeds refreshed independently of the
// watchlist.
var GlobalKinds = []Kind{KindEarningsCalendar, KindEconomicCalendar}

// TickerScoped reports whether the kind is refreshed per watchlist ticker.
func (k Kind) TickerScoped() bool {
	switch k {
	case KindStockCalendar, KindStockEarnings, KindStockDividend, KindStockSplit:
		return true
	}
	return false
}

// Valid reports whether the kind is one of the known entity kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindStockCalendar, KindStockEarnings, KindStockDividend, KindStockSplit,
		KindEarningsCalendar, KindEconomicCalendar:
		return true
	}
	return false
}
