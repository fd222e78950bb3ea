package dto

import (
	"golang-market-calendar/internal/entity"
)

// ErrorResponse is the error body returned by the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AddWatchlistRequest is the body for adding a ticker to the watchlist.
type AddWatchlistRequest struct {
	Ticker string `json:"ticker"`
}

// WatchlistResponse lists the tracked tickers.
type WatchlistResponse struct {
	Tickers []string `json:"tickers"`
}

// EarningsCalendarDay groups broad-market earnings events by calendar day.
type EarningsCalendarDay struct {
	Day    string                         `json:"day"`
	Events []entity.EarningsCalendarEntry `json:"events"`
}

// EconomicCalendarDay groups macro releases by calendar day.
type EconomicCalendarDay struct {
	Day    string                         `json:"day"`
	Events []entity.EconomicCalendarEntry `json:"events"`
}

// SyncResponse reports the outcome of a manually triggered refresh.
type SyncResponse struct {
	Stats TaskStats `json:"stats"`
}
