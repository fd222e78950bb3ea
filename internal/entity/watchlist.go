package entity

import "time"

// WatchlistEntry marks a ticker as tracked. Its presence is the sole
// trigger for per-ticker refresh scheduling; removing it keeps history.
type WatchlistEntry struct {
	Ticker    string    `gorm:"primaryKey" json:"ticker"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WatchlistEntry) TableName() string {
	return "watchlist"
}
