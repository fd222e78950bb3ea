package entity

import (
	"time"

	"gorm.io/datatypes"
)

// StockCalendar is the per-ticker snapshot of upcoming calendar data.
// It is a derived cache recomputed from the earnings/dividend rows plus
// the latest estimate fetch, and is always replaced wholesale.
type StockCalendar struct {
	Ticker          string         `gorm:"primaryKey" json:"ticker"`
	DividendDate    *time.Time     `gorm:"column:dividend_date" json:"dividend_date"`
	ExDividendDate  *time.Time     `gorm:"column:ex_dividend_date" json:"ex_dividend_date"`
	EarningsDates   datatypes.JSON `gorm:"column:earnings_dates;type:jsonb" json:"earnings_dates"`
	EarningsHigh    *float64       `gorm:"column:earnings_high" json:"earnings_high"`
	EarningsLow     *float64       `gorm:"column:earnings_low" json:"earnings_low"`
	EarningsAverage *float64       `gorm:"column:earnings_average" json:"earnings_average"`
	RevenueHigh     *float64       `gorm:"column:revenue_high" json:"revenue_high"`
	RevenueLow      *float64       `gorm:"column:revenue_low" json:"revenue_low"`
	RevenueAverage  *float64       `gorm:"column:revenue_average" json:"revenue_average"`
	// Set explicitly to the reconciliation time; never auto-managed so
	// monotonicity can be enforced at write time.
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at"`
}

func (StockCalendar) TableName() string {
	return "stock_calendar"
}
