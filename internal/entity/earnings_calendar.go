package entity

import "time"

// EarningsCalendarEntry is one broad-market earnings event, keyed by
// (symbol, date). Not limited to watchlist tickers.
type EarningsCalendarEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Day         time.Time `gorm:"column:day" json:"day"`
	Company     string    `gorm:"column:company" json:"company"`
	Symbol      string    `gorm:"column:symbol;uniqueIndex:ux_earnings_calendar_symbol_date" json:"symbol"`
	Marketcap   *float64  `gorm:"column:marketcap" json:"marketcap"`
	EventName   *string   `gorm:"column:event_name" json:"event_name"`
	Date        time.Time `gorm:"column:date;uniqueIndex:ux_earnings_calendar_symbol_date" json:"date"`
	Timing      *string   `gorm:"column:timing" json:"timing"`
	EPSEstimate *float64  `gorm:"column:eps_estimate" json:"eps_estimate"`
	ReportedEPS *float64  `gorm:"column:reported_eps" json:"reported_eps"`
	SurprisePct *float64  `gorm:"column:surprise_pct" json:"surprise_pct"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EarningsCalendarEntry) TableName() string {
	return "earnings_calendar"
}
