package scheduler

import (
	"sync"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/config"
	"golang-market-calendar/internal/sync/dto"

	"github.com/robfig/cron/v3"
)

// Planner computes which refresh tasks are due. Watchlist membership is
// read fresh by the caller each cycle; the planner only keeps in-memory
// last-run times, seeded from store timestamps the first time a ticker is
// seen so a restart degrades to at most one early refresh per task.
type Planner struct {
	cfg        config.Scheduler
	cronParser cron.Parser

	mu       sync.Mutex
	lastRun  map[taskKey]time.Time
	cronNext map[entity.Kind]time.Time
}

type taskKey struct {
	ticker string
	kind   entity.Kind
}

// SeedFunc recovers the last refresh time for a kind from the store;
// nil means the store holds nothing yet (cold start).
type SeedFunc func(kind entity.Kind) *time.Time

// NewPlanner creates a Planner, applying defaults for unset intervals.
func NewPlanner(cfg config.Scheduler) *Planner {
	iv := &cfg.Intervals
	applyDefault(&iv.StockCalendar, 6*time.Hour)
	applyDefault(&iv.StockEarnings, 6*time.Hour)
	applyDefault(&iv.StockDividends, 24*time.Hour)
	applyDefault(&iv.StockSplits, 24*time.Hour)
	applyDefault(&iv.EarningsNearWindow, 7*24*time.Hour)
	applyDefault(&iv.EarningsNearInterval, time.Hour)
	applyDefault(&iv.EarningsImminentWindow, 24*time.Hour)
	applyDefault(&iv.EarningsImminentInterval, 15*time.Minute)

	return &Planner{
		cfg:        cfg,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		lastRun:    make(map[taskKey]time.Time),
		cronNext:   make(map[entity.Kind]time.Time),
	}
}

func applyDefault(d *time.Duration, def time.Duration) {
	if *d <= 0 {
		*d = def
	}
}

// PlanTicker returns the refresh tasks due now for one watched ticker.
// nextEarnings is the ticker's next known earnings date (nil if unknown)
// and tightens the earnings cadence as it approaches.
func (p *Planner) PlanTicker(ticker string, seed SeedFunc, nextEarnings *time.Time, now time.Time) []dto.RefreshTask {
	p.mu.Lock()
	defer p.mu.Unlock()

	var tasks []dto.RefreshTask
	for _, kind := range entity.TickerKinds {
		key := taskKey{ticker: ticker, kind: kind}
		last, seen := p.lastRun[key]
		if !seen {
			if anchor := seed(kind); anchor != nil {
				last = *anchor
				p.lastRun[key] = last
			}
		}

		interval := p.Interval(kind, nextEarnings, now)
		if last.IsZero() || now.Sub(last) >= interval {
			tasks = append(tasks, dto.RefreshTask{Ticker: ticker, Kind: kind, ScheduledAt: now})
		}
	}
	return tasks
}

// PlanGlobal returns the broad-market feed tasks due now, following the
// configured cron cadence independent of the watchlist.
func (p *Planner) PlanGlobal(seed SeedFunc, now time.Time) []dto.RefreshTask {
	p.mu.Lock()
	defer p.mu.Unlock()

	exprs := map[entity.Kind]string{
		entity.KindEarningsCalendar: p.cfg.EarningsCalendarCron,
		entity.KindEconomicCalendar: p.cfg.EconomicCalendarCron,
	}

	var tasks []dto.RefreshTask
	for _, kind := range entity.GlobalKinds {
		expr := exprs[kind]
		if expr == "" {
			expr = "@hourly"
		}
		schedule, err := p.cronParser.Parse(expr)
		if err != nil {
			continue
		}

		next, seen := p.cronNext[kind]
		if !seen {
			if anchor := seed(kind); anchor != nil {
				next = schedule.Next(*anchor)
			}
		}
		if next.IsZero() || !now.Before(next) {
			tasks = append(tasks, dto.RefreshTask{Kind: kind, ScheduledAt: now})
			p.cronNext[kind] = schedule.Next(now)
		}
	}
	return tasks
}

// MarkCompleted records a successful refresh so the task is not due again
// until its interval elapses.
func (p *Planner) MarkCompleted(ticker string, kind entity.Kind, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastRun[taskKey{ticker: ticker, kind: kind}] = at
}

// Interval returns the effective refresh interval for a kind. The
// earnings interval tightens inside the near and imminent windows before
// the next known earnings date and relaxes back to the base afterwards.
func (p *Planner) Interval(kind entity.Kind, nextEarnings *time.Time, now time.Time) time.Duration {
	iv := p.cfg.Intervals
	switch kind {
	case entity.KindStockCalendar:
		return iv.StockCalendar
	case entity.KindStockDividend:
		return iv.StockDividends
	case entity.KindStockSplit:
		return iv.StockSplits
	case entity.KindStockEarnings:
		if nextEarnings != nil {
			until := nextEarnings.Sub(now)
			if until >= 0 {
				if until <= iv.EarningsImminentWindow {
					return iv.EarningsImminentInterval
				}
				if until <= iv.EarningsNearWindow {
					return iv.EarningsNearInterval
				}
			}
		}
		return iv.StockEarnings
	default:
		return iv.StockCalendar
	}
}
