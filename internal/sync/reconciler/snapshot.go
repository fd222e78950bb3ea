package reconciler

import (
	"encoding/json"
	"sort"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/pkg/utils"
)

// BuildSnapshot recomputes the stock calendar snapshot for a ticker from
// the stored earnings and dividend rows plus the latest estimate fetch.
// The snapshot is a derived cache: this function is the only way its
// values come to exist.
//
// The estimate fields come from est when the refresh carried one and are
// otherwise carried over from prev (a refresh of earnings rows alone must
// not erase the last known estimates). The earnings date list is derived
// from the stored earnings rows; the feed's own date list is used only
// when no rows exist yet. updated_at is monotonically non-decreasing.
func BuildSnapshot(
	ticker string,
	est *dto.CalendarEstimates,
	earnings []entity.StockEarnings,
	dividends []entity.StockDividend,
	prev *entity.StockCalendar,
	now time.Time,
) (entity.StockCalendar, error) {
	snap := entity.StockCalendar{Ticker: ticker}

	switch {
	case est != nil:
		snap.DividendDate = est.DividendDate
		snap.ExDividendDate = est.ExDividendDate
		snap.EarningsHigh = est.EarningsHigh
		snap.EarningsLow = est.EarningsLow
		snap.EarningsAverage = est.EarningsAverage
		snap.RevenueHigh = est.RevenueHigh
		snap.RevenueLow = est.RevenueLow
		snap.RevenueAverage = est.RevenueAverage
	case prev != nil:
		snap.DividendDate = prev.DividendDate
		snap.ExDividendDate = prev.ExDividendDate
		snap.EarningsHigh = prev.EarningsHigh
		snap.EarningsLow = prev.EarningsLow
		snap.EarningsAverage = prev.EarningsAverage
		snap.RevenueHigh = prev.RevenueHigh
		snap.RevenueLow = prev.RevenueLow
		snap.RevenueAverage = prev.RevenueAverage
	}

	if snap.ExDividendDate == nil {
		if latest := latestDividendDate(dividends); latest != nil {
			snap.ExDividendDate = latest
		}
	}

	dates := upcomingEarningsDates(earnings, now)
	if len(dates) == 0 && est != nil {
		for _, d := range est.EarningsDates {
			if !d.Before(utils.TruncateToDay(now)) {
				dates = append(dates, d.Format("2006-01-02"))
			}
		}
	}
	if dates == nil {
		dates = []string{}
	}
	encoded, err := json.Marshal(dates)
	if err != nil {
		return entity.StockCalendar{}, err
	}
	snap.EarningsDates = encoded

	snap.UpdatedAt = now.UTC()
	if prev != nil && prev.UpdatedAt.After(snap.UpdatedAt) {
		snap.UpdatedAt = prev.UpdatedAt
	}

	return snap, nil
}

func upcomingEarningsDates(earnings []entity.StockEarnings, now time.Time) []string {
	today := utils.TruncateToDay(now)
	var dates []string
	for _, e := range earnings {
		if !utils.TruncateToDay(e.Date).Before(today) {
			dates = append(dates, e.Date.UTC().Format("2006-01-02"))
		}
	}
	sort.Strings(dates)
	return dates
}

func latestDividendDate(dividends []entity.StockDividend) *time.Time {
	var latest *time.Time
	for i := range dividends {
		d := dividends[i].Date
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}
	return latest
}
