package utils

import (
	"time"
)

// TimeNowUTC returns the current time in UTC. All stored timestamps use UTC.
func TimeNowUTC() time.Time {
	return time.Now().UTC()
}

// TruncateToDay drops the time-of-day component, keeping the date in UTC.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
