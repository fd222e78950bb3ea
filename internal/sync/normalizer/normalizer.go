package normalizer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/pkg/utils"
)

// Normalizer converts raw feed records into their canonical shapes. It is
// a pure transform: validation failures are returned, never logged or
// persisted here.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize dispatches on the concrete raw record type and returns the
// canonical record: *dto.CalendarEstimates for the stock calendar kind,
// an entity row pointer for every other kind.
func (n *Normalizer) Normalize(raw dto.RawRecord) (interface{}, error) {
	switch r := raw.(type) {
	case dto.RawStockCalendar:
		return n.StockCalendar(r)
	case dto.RawEarnings:
		return n.StockEarnings(r)
	case dto.RawDividend:
		return n.StockDividend(r)
	case dto.RawSplit:
		return n.StockSplit(r)
	case dto.RawEarningsCalendarItem:
		return n.EarningsCalendarItem(r)
	case dto.RawEconomicEvent:
		return n.EconomicEvent(r)
	default:
		return nil, fmt.Errorf("unknown raw record type %T", raw)
	}
}

// StockCalendar normalizes the per-ticker estimate payload.
func (n *Normalizer) StockCalendar(raw dto.RawStockCalendar) (*dto.CalendarEstimates, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw.Ticker))
	if ticker == "" {
		return nil, &dto.ValidationError{Kind: entity.KindStockCalendar, Field: "ticker", Reason: "is missing"}
	}

	est := &dto.CalendarEstimates{Ticker: ticker}

	if raw.DividendDate != "" {
		if d, ok := parseDate(raw.DividendDate); ok {
			est.DividendDate = utils.ToPointer(utils.TruncateToDay(d))
		} else {
			return nil, &dto.ValidationError{Kind: entity.KindStockCalendar, Field: "dividend_date", Reason: "is not a date"}
		}
	}
	if raw.ExDividendDate != "" {
		if d, ok := parseDate(raw.ExDividendDate); ok {
			est.ExDividendDate = utils.ToPointer(utils.TruncateToDay(d))
		} else {
			return nil, &dto.ValidationError{Kind: entity.KindStockCalendar, Field: "ex_dividend_date", Reason: "is not a date"}
		}
	}
	for _, rawDate := range raw.EarningsDates {
		if d, ok := parseDate(rawDate); ok {
			est.EarningsDates = append(est.EarningsDates, utils.TruncateToDay(d))
		}
	}
	sort.Slice(est.EarningsDates, func(i, j int) bool { return est.EarningsDates[i].Before(est.EarningsDates[j]) })

	fields := []struct {
		name string
		raw  string
		dst  **float64
	}{
		{"earnings_high", raw.EarningsHigh, &est.EarningsHigh},
		{"earnings_low", raw.EarningsLow, &est.EarningsLow},
		{"earnings_average", raw.EarningsAverage, &est.EarningsAverage},
		{"revenue_high", raw.RevenueHigh, &est.RevenueHigh},
		{"revenue_low", raw.RevenueLow, &est.RevenueLow},
		{"revenue_average", raw.RevenueAverage, &est.RevenueAverage},
	}
	for _, f := range fields {
		v, ok := parseOptionalFloat(f.raw)
		if !ok {
			return nil, &dto.ValidationError{Kind: entity.KindStockCalendar, Field: f.name, Reason: "is not numeric"}
		}
		*f.dst = v
	}

	return est, nil
}

// StockEarnings normalizes one earnings print.
func (n *Normalizer) StockEarnings(raw dto.RawEarnings) (*entity.StockEarnings, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw.Ticker))
	if ticker == "" {
		return nil, &dto.ValidationError{Kind: entity.KindStockEarnings, Field: "ticker", Reason: "is missing"}
	}
	date, ok := parseDate(raw.Date)
	if !ok {
		return nil, &dto.ValidationError{Kind: entity.KindStockEarnings, Field: "date", Reason: "is missing or not a date"}
	}

	row := &entity.StockEarnings{Ticker: ticker, Date: date}
	var parseOK bool
	if row.EPSEstimate, parseOK = parseOptionalFloat(raw.EPSEstimate); !parseOK {
		return nil, &dto.ValidationError{Kind: entity.KindStockEarnings, Field: "eps_estimate", Reason: "is not numeric"}
	}
	if row.ReportedEPS, parseOK = parseOptionalFloat(raw.ReportedEPS); !parseOK {
		return nil, &dto.ValidationError{Kind: entity.KindStockEarnings, Field: "reported_eps", Reason: "is not numeric"}
	}
	if row.SurprisePct, parseOK = parseOptionalFloat(raw.SurprisePct); !parseOK {
		return nil, &dto.ValidationError{Kind: entity.KindStockEarnings, Field: "surprise_pct", Reason: "is not numeric"}
	}
	return row, nil
}

// StockDividend normalizes one dividend payment.
func (n *Normalizer) StockDividend(raw dto.RawDividend) (*entity.StockDividend, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw.Ticker))
	if ticker == "" {
		return nil, &dto.ValidationError{Kind: entity.KindStockDividend, Field: "ticker", Reason: "is missing"}
	}
	date, ok := parseDate(raw.Date)
	if !ok {
		return nil, &dto.ValidationError{Kind: entity.KindStockDividend, Field: "date", Reason: "is missing or not a date"}
	}
	amount, ok := parseOptionalFloat(raw.Amount)
	if !ok {
		return nil, &dto.ValidationError{Kind: entity.KindStockDividend, Field: "amount", Reason: "is not numeric"}
	}
	return &entity.StockDividend{
		Ticker: ticker,
		Date:   utils.TruncateToDay(date),
		Amount: amount,
	}, nil
}

// StockSplit normalizes one split.
func (n *Normalizer) StockSplit(raw dto.RawSplit) (*entity.StockSplit, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw.Ticker))
	if ticker == "" {
		return nil, &dto.ValidationError{Kind: entity.KindStockSplit, Field: "ticker", Reason: "is missing"}
	}
	date, ok := parseDate(raw.Date)
	if !ok {
		return nil, &dto.ValidationError{Kind: entity.KindStockSplit, Field: "date", Reason: "is missing or not a date"}
	}
	return &entity.StockSplit{
		Ticker: ticker,
		Date:   utils.TruncateToDay(date),
		Ratio:  optionalString(raw.Ratio),
	}, nil
}

// EarningsCalendarItem normalizes one broad-market earnings calendar row.
func (n *Normalizer) EarningsCalendarItem(raw dto.RawEarningsCalendarItem) (*entity.EarningsCalendarEntry, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw.Symbol))
	if symbol == "" {
		return nil, &dto.ValidationError{Kind: entity.KindEarningsCalendar, Field: "symbol", Reason: "is missing"}
	}
	date, ok := parseDate(raw.Date)
	if !ok {
		return nil, &dto.ValidationError{Kind: entity.KindEarningsCalendar, Field: "date", Reason: "is missing or not a date"}
	}

	company := strings.TrimSpace(raw.Company)
	if company == "" {
		company = symbol
	}

	row := &entity.EarningsCalendarEntry{
		Symbol:    symbol,
		Company:   company,
		Day:       utils.TruncateToDay(date),
		Date:      date,
		EventName: optionalString(raw.EventName),
		Timing:    optionalString(raw.Timing),
	}
	var parseOK bool
	if row.Marketcap, parseOK = parseOptionalFloat(raw.Marketcap); !parseOK {
		return nil, &dto.ValidationError{Kind: entity.KindEarningsCalendar, Field: "marketcap", Reason: "is not numeric"}
	}
	if row.EPSEstimate, parseOK = parseOptionalFloat(raw.EPSEstimate); !parseOK {
		return nil, &dto.ValidationError{Kind: entity.KindEarningsCalendar, Field: "eps_estimate", Reason: "is not numeric"}
	}
	if row.ReportedEPS, parseOK = parseOptionalFloat(raw.ReportedEPS); !parseOK {
		return nil, &dto.ValidationError{Kind: entity.KindEarningsCalendar, Field: "reported_eps", Reason: "is not numeric"}
	}
	if row.SurprisePct, parseOK = parseOptionalFloat(raw.SurprisePct); !parseOK {
		return nil, &dto.ValidationError{Kind: entity.KindEarningsCalendar, Field: "surprise_pct", Reason: "is not numeric"}
	}
	return row, nil
}

// EconomicEvent normalizes one macro release. Actual/forecast/previous
// stay free-form text because feeds mix units and formats.
func (n *Normalizer) EconomicEvent(raw dto.RawEconomicEvent) (*entity.EconomicCalendarEntry, error) {
	event := strings.TrimSpace(raw.Event)
	if event == "" {
		return nil, &dto.ValidationError{Kind: entity.KindEconomicCalendar, Field: "event", Reason: "is missing"}
	}
	day, ok := parseDate(raw.Date)
	if !ok {
		return nil, &dto.ValidationError{Kind: entity.KindEconomicCalendar, Field: "date", Reason: "is missing or not a date"}
	}

	return &entity.EconomicCalendarEntry{
		Day:      utils.TruncateToDay(day),
		Event:    event,
		Time:     normalizeEventTime(raw.Time),
		Currency: optionalString(raw.Currency),
		Impact:   optionalString(raw.Impact),
		Actual:   optionalString(raw.Actual),
		Forecast: optionalString(raw.Forecast),
		Previous: optionalString(raw.Previous),
	}, nil
}

// normalizeEventTime converts a clock value like "8:30am" to "08:30".
// Non-time values ("All Day", "Tentative") pass through unchanged.
func normalizeEventTime(raw string) *string {
	s := optionalString(raw)
	if s == nil {
		return nil
	}
	for _, layout := range []string{"3:04pm", "3:04 pm", "15:04"} {
		if t, err := time.Parse(layout, strings.ToLower(*s)); err == nil {
			return utils.ToPointer(t.Format("15:04"))
		}
	}
	return s
}
