package entity

import "time"

// StockSplit is one corporate split for a ticker, keyed by (ticker, date).
// The ratio is stored as the feed reports it (e.g. "4:1") and is sticky
// once recorded.
type StockSplit struct {
	Ticker    string    `gorm:"primaryKey" json:"ticker"`
	Date      time.Time `gorm:"primaryKey;column:date" json:"date"`
	Ratio     *string   `gorm:"column:ratio" json:"ratio"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StockSplit) TableName() string {
	return "stock_splits"
}
