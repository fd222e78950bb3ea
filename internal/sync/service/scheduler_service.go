package service

import (
	"context"
	"encoding/json"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/config"
	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/internal/sync/repository"
	"golang-market-calendar/internal/sync/scheduler"
	"golang-market-calendar/pkg/common"
	"golang-market-calendar/pkg/logger"
	"golang-market-calendar/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// SchedulerService drives the refresh cycle: each cycle reads the
// watchlist fresh, asks the planner which tasks are due and publishes
// them to the task stream.
type SchedulerService interface {
	Start(ctx context.Context)
	ProcessCycle(ctx context.Context)
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(
	watchlistRepo repository.WatchlistRepository,
	stockRepo repository.StockRepository,
	stalenessRepo repository.StalenessRepository,
	planner *scheduler.Planner,
	redisClient *redis.Client,
	log *logger.Logger,
	cfg *config.Config,
) SchedulerService {
	pollingInterval := cfg.Scheduler.PollingInterval
	if pollingInterval <= 0 {
		pollingInterval = time.Minute
	}
	return &schedulerService{
		watchlistRepo:   watchlistRepo,
		stockRepo:       stockRepo,
		stalenessRepo:   stalenessRepo,
		planner:         planner,
		redisClient:     redisClient,
		logger:          log,
		cfg:             cfg,
		pollingInterval: pollingInterval,
	}
}

type schedulerService struct {
	watchlistRepo   repository.WatchlistRepository
	stockRepo       repository.StockRepository
	stalenessRepo   repository.StalenessRepository
	planner         *scheduler.Planner
	redisClient     *redis.Client
	logger          *logger.Logger
	cfg             *config.Config
	pollingInterval time.Duration
}

// Start begins the periodic scheduling loop.
func (s *schedulerService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	// First cycle immediately so a fresh process starts refreshing
	// without waiting out the polling interval.
	s.ProcessCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler service stopping")
			return
		case <-ticker.C:
			s.ProcessCycle(ctx)
		}
	}
}

// ProcessCycle publishes every task due now. The watchlist is read at the
// start of each cycle so membership changes take effect on the next cycle.
func (s *schedulerService) ProcessCycle(ctx context.Context) {
	now := utils.TimeNowUTC()

	tickers, err := s.watchlistRepo.GetTickers(ctx)
	if err != nil {
		s.logger.Error("Failed to read watchlist", logger.ErrorField(err))
		return
	}

	published := 0
	for _, ticker := range tickers {
		seed := s.storeSeed(ctx, ticker)
		nextEarnings := s.nextEarningsDate(ctx, ticker, now)
		for _, task := range s.planner.PlanTicker(ticker, seed, nextEarnings, now) {
			if s.publishTask(ctx, task) {
				published++
			}
		}
	}

	for _, task := range s.planner.PlanGlobal(s.storeSeed(ctx, ""), now) {
		if s.publishTask(ctx, task) {
			published++
		}
	}

	if published > 0 {
		s.logger.Info("Scheduling cycle complete",
			logger.IntField("watchlist_size", len(tickers)),
			logger.IntField("tasks_published", published))
	}
}

// storeSeed recovers last-refresh anchors from store timestamps for
// tickers (or global kinds) the planner has not seen since startup.
func (s *schedulerService) storeSeed(ctx context.Context, ticker string) scheduler.SeedFunc {
	return func(kind entity.Kind) *time.Time {
		anchor, err := s.stalenessRepo.LastRefresh(ctx, kind, ticker)
		if err != nil {
			s.logger.Error("Failed to read staleness anchor",
				logger.ErrorField(err),
				logger.StringField("ticker", ticker),
				logger.StringField("kind", string(kind)))
			return nil
		}
		return anchor
	}
}

// nextEarningsDate reads the ticker's next known earnings date from the
// snapshot's derived date list.
func (s *schedulerService) nextEarningsDate(ctx context.Context, ticker string, now time.Time) *time.Time {
	cal, err := s.stockRepo.GetCalendar(ctx, ticker)
	if err != nil || cal == nil || len(cal.EarningsDates) == 0 {
		return nil
	}

	var dates []string
	if err := json.Unmarshal(cal.EarningsDates, &dates); err != nil {
		return nil
	}
	today := utils.TruncateToDay(now)
	for _, raw := range dates {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			continue
		}
		if !d.Before(today) {
			return &d
		}
	}
	return nil
}

func (s *schedulerService) publishTask(ctx context.Context, task dto.RefreshTask) bool {
	payload, err := json.Marshal(task)
	if err != nil {
		s.logger.Error("Failed to marshal refresh task", logger.ErrorField(err))
		return false
	}

	err = s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamRefreshTasks,
		Values: map[string]interface{}{"payload": payload},
		MaxLen: s.cfg.Redis.StreamMaxLen,
	}).Err()
	if err != nil {
		s.logger.Error("Failed to enqueue refresh task",
			logger.ErrorField(err),
			logger.StringField("ticker", task.Ticker),
			logger.StringField("kind", string(task.Kind)))
		return false
	}

	s.logger.Debug("Refresh task published",
		logger.StringField("ticker", task.Ticker),
		logger.StringField("kind", string(task.Kind)))
	return true
}
