package entity

import "time"

// StockDividend is one dividend payment for a ticker, keyed by
// (ticker, date). Amount is sticky once known; updates only backfill.
type StockDividend struct {
	Ticker    string    `gorm:"primaryKey" json:"ticker"`
	Date      time.Time `gorm:"primaryKey;column:date" json:"date"`
	Amount    *float64  `gorm:"column:amount" json:"amount"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StockDividend) TableName() string {
	return "stock_dividends"
}
