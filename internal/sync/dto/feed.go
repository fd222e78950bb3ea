package dto

import "golang-market-calendar/internal/entity"

// RawRecord is one untyped record as returned by a feed, before
// normalization. Field values are strings exactly as the feed reported
// them (possibly with currency symbols, percent signs or thousand
// separators); an absent field is the empty string.
type RawRecord interface {
	RecordKind() entity.Kind
}

// RawStockCalendar is the per-ticker calendar/estimate payload.
type RawStockCalendar struct {
	Ticker          string
	DividendDate    string
	ExDividendDate  string
	EarningsDates   []string
	EarningsHigh    string
	EarningsLow     string
	EarningsAverage string
	RevenueHigh     string
	RevenueLow      string
	RevenueAverage  string
}

func (RawStockCalendar) RecordKind() entity.Kind { return entity.KindStockCalendar }

// RawEarnings is one per-ticker earnings print.
type RawEarnings struct {
	Ticker      string
	Date        string
	EPSEstimate string
	ReportedEPS string
	SurprisePct string
}

func (RawEarnings) RecordKind() entity.Kind { return entity.KindStockEarnings }

// RawDividend is one per-ticker dividend payment.
type RawDividend struct {
	Ticker string
	Date   string
	Amount string
}

func (RawDividend) RecordKind() entity.Kind { return entity.KindStockDividend }

// RawSplit is one per-ticker split.
type RawSplit struct {
	Ticker string
	Date   string
	Ratio  string
}

func (RawSplit) RecordKind() entity.Kind { return entity.KindStockSplit }

// RawEarningsCalendarItem is one broad-market earnings calendar row.
type RawEarningsCalendarItem struct {
	Symbol      string
	Company     string
	Date        string
	Timing      string
	EventName   string
	Marketcap   string
	EPSEstimate string
	ReportedEPS string
	SurprisePct string
}

func (RawEarningsCalendarItem) RecordKind() entity.Kind { return entity.KindEarningsCalendar }

// RawEconomicEvent is one macro release row.
type RawEconomicEvent struct {
	Date     string
	Time     string
	Currency string
	Impact   string
	Event    string
	Actual   string
	Forecast string
	Previous string
}

func (RawEconomicEvent) RecordKind() entity.Kind { return entity.KindEconomicCalendar }
