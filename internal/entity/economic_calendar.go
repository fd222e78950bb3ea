package entity

import "time"

// EconomicCalendarEntry is one macro release (CPI, rate decision, ...),
// keyed by (day, event). Actual/forecast/previous stay free-form text
// because feeds report mixed units and formats.
type EconomicCalendarEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Day       time.Time `gorm:"column:day;uniqueIndex:ux_economics_calendar_day_event" json:"day"`
	Time      *string   `gorm:"column:time" json:"time"`
	Currency  *string   `gorm:"column:currency" json:"currency"`
	Impact    *string   `gorm:"column:impact" json:"impact"`
	Event     string    `gorm:"column:event;uniqueIndex:ux_economics_calendar_day_event" json:"event"`
	Actual    *string   `gorm:"column:actual" json:"actual"`
	Forecast  *string   `gorm:"column:forecast" json:"forecast"`
	Previous  *string   `gorm:"column:previous" json:"previous"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EconomicCalendarEntry) TableName() string {
	return "economics_calendar"
}
