package entity

import "time"

// StockEarnings is one earnings print for a ticker, keyed by (ticker, date).
// EPSEstimate is volatile; ReportedEPS and SurprisePct are sticky once set.
type StockEarnings struct {
	Ticker      string    `gorm:"primaryKey" json:"ticker"`
	Date        time.Time `gorm:"primaryKey;column:date" json:"date"`
	EPSEstimate *float64  `gorm:"column:eps_estimate" json:"eps_estimate"`
	ReportedEPS *float64  `gorm:"column:reported_eps" json:"reported_eps"`
	SurprisePct *float64  `gorm:"column:surprise_pct" json:"surprise_pct"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StockEarnings) TableName() string {
	return "stock_earnings"
}
