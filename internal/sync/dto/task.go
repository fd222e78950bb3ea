package dto

import (
	"time"

	"golang-market-calendar/internal/entity"
)

// RefreshTask is one unit of work published by the scheduler: refresh the
// given kind for the given ticker (empty for global feeds).
type RefreshTask struct {
	Ticker      string      `json:"ticker,omitempty"`
	Kind        entity.Kind `json:"kind"`
	ScheduledAt time.Time   `json:"scheduled_at"`
}

// TaskStats counts the per-record outcomes of one refresh task.
type TaskStats struct {
	Fetched            int `json:"fetched"`
	Inserted           int `json:"inserted"`
	Updated            int `json:"updated"`
	Unchanged          int `json:"unchanged"`
	ValidationFailures int `json:"validation_failures"`
	Anomalies          int `json:"anomalies"`
	StoreFailures      int `json:"store_failures"`
}

// Add folds other into s.
func (s *TaskStats) Add(other TaskStats) {
	s.Fetched += other.Fetched
	s.Inserted += other.Inserted
	s.Updated += other.Updated
	s.Unchanged += other.Unchanged
	s.ValidationFailures += other.ValidationFailures
	s.Anomalies += other.Anomalies
	s.StoreFailures += other.StoreFailures
}
