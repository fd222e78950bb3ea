package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/config"
	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/internal/sync/feed"
	"golang-market-calendar/internal/sync/normalizer"
	"golang-market-calendar/internal/sync/reconciler"
	"golang-market-calendar/internal/sync/scheduler"
	"golang-market-calendar/pkg/common"
	"golang-market-calendar/pkg/logger"
	"golang-market-calendar/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// SyncService executes refresh tasks: fetch from the feed, normalize,
// reconcile record by record, and for ticker-scoped kinds rebuild the
// derived snapshot as part of the same refresh.
type SyncService interface {
	// ProcessTask dequeues and executes a single refresh task.
	ProcessTask(ctx context.Context)

	// HandleTaskMessage processes one serialized refresh task from the
	// task stream.
	HandleTaskMessage(ctx context.Context, payload []byte) error

	// SyncTicker refreshes every ticker-scoped kind for one ticker.
	SyncTicker(ctx context.Context, ticker string) (dto.TaskStats, error)

	// SyncAll refreshes every watchlist ticker plus the global feeds.
	SyncAll(ctx context.Context) (dto.TaskStats, error)
}

// NewSyncService creates a new sync service.
func NewSyncService(
	cfg *config.Config,
	redisClient *redis.Client,
	adapter feed.Adapter,
	norm *normalizer.Normalizer,
	engine reconciler.Engine,
	planner *scheduler.Planner,
	watchlistRepo WatchlistTickers,
	log *logger.Logger,
) SyncService {
	readTimeout := cfg.Sync.StreamReadTimeout
	if readTimeout <= 0 {
		readTimeout = 2 * time.Second
	}
	return &syncService{
		cfg:           cfg,
		redisClient:   redisClient,
		adapter:       adapter,
		normalizer:    norm,
		engine:        engine,
		planner:       planner,
		watchlistRepo: watchlistRepo,
		logger:        log,
		readTimeout:   readTimeout,
	}
}

// WatchlistTickers is the slice of the watchlist repository SyncAll needs.
type WatchlistTickers interface {
	GetTickers(ctx context.Context) ([]string, error)
}

type syncService struct {
	cfg           *config.Config
	redisClient   *redis.Client
	adapter       feed.Adapter
	normalizer    *normalizer.Normalizer
	engine        reconciler.Engine
	planner       *scheduler.Planner
	watchlistRepo WatchlistTickers
	logger        *logger.Logger
	readTimeout   time.Duration
}

// ProcessTask blocks briefly on the task stream and executes at most one
// task. Messages are acknowledged and deleted once handled; a failed task
// is acknowledged too since the scheduler republishes anything still stale.
func (s *syncService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamRefreshTasks, ">"}, // ">" means only new messages
		Count:    1,
		Block:    s.readTimeout,
	}).Result()
	if err != nil {
		// Expected during shutdown or idle periods.
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.logger.Error("Failed to read from task stream", logger.ErrorField(err))
		return
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			payload, ok := message.Values["payload"].(string)
			if !ok {
				s.logger.Error("Task message has no payload", logger.StringField("message_id", message.ID))
			} else if err := s.HandleTaskMessage(ctx, []byte(payload)); err != nil {
				s.logger.Error("Task message handling failed",
					logger.ErrorField(err),
					logger.StringField("message_id", message.ID))
			}
			s.ackAndDelete(ctx, message.ID)
		}
	}
}

func (s *syncService) ackAndDelete(ctx context.Context, messageID string) {
	if err := s.redisClient.XAck(ctx, common.RedisStreamRefreshTasks, common.RedisStreamGroup, messageID).Err(); err != nil {
		s.logger.Error("Failed to acknowledge task message",
			logger.ErrorField(err),
			logger.StringField("message_id", messageID))
		return
	}
	if err := s.redisClient.XDel(ctx, common.RedisStreamRefreshTasks, messageID).Err(); err != nil {
		s.logger.Error("Failed to delete task message",
			logger.ErrorField(err),
			logger.StringField("message_id", messageID))
	}
}

func (s *syncService) HandleTaskMessage(ctx context.Context, payload []byte) error {
	var task dto.RefreshTask
	if err := json.Unmarshal(payload, &task); err != nil {
		return fmt.Errorf("failed to unmarshal refresh task: %w", err)
	}
	if !task.Kind.Valid() {
		return fmt.Errorf("refresh task has unknown kind %q", task.Kind)
	}

	stats, err := s.executeTask(ctx, task)
	if err != nil {
		s.logger.Error("Refresh task failed",
			logger.ErrorField(err),
			logger.StringField("ticker", task.Ticker),
			logger.StringField("kind", string(task.Kind)))
		return err
	}

	s.logger.Info("Refresh task complete",
		logger.StringField("ticker", task.Ticker),
		logger.StringField("kind", string(task.Kind)),
		logger.IntField("fetched", stats.Fetched),
		logger.IntField("inserted", stats.Inserted),
		logger.IntField("updated", stats.Updated),
		logger.IntField("unchanged", stats.Unchanged),
		logger.IntField("validation_failures", stats.ValidationFailures),
		logger.IntField("store_failures", stats.StoreFailures))
	return nil
}

func (s *syncService) SyncTicker(ctx context.Context, ticker string) (dto.TaskStats, error) {
	var total dto.TaskStats
	now := utils.TimeNowUTC()
	var firstErr error
	for _, kind := range entity.TickerKinds {
		stats, err := s.executeTask(ctx, dto.RefreshTask{Ticker: ticker, Kind: kind, ScheduledAt: now})
		total.Add(stats)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return total, firstErr
}

func (s *syncService) SyncAll(ctx context.Context) (dto.TaskStats, error) {
	var total dto.TaskStats

	tickers, err := s.watchlistRepo.GetTickers(ctx)
	if err != nil {
		return total, fmt.Errorf("failed to read watchlist: %w", err)
	}

	var firstErr error
	for _, ticker := range tickers {
		stats, err := s.SyncTicker(ctx, ticker)
		total.Add(stats)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	now := utils.TimeNowUTC()
	for _, kind := range entity.GlobalKinds {
		stats, err := s.executeTask(ctx, dto.RefreshTask{Kind: kind, ScheduledAt: now})
		total.Add(stats)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return total, firstErr
}

// executeTask runs one refresh task end to end. A fetch failure leaves the
// store untouched; validation and store failures are counted per record and
// the batch continues.
func (s *syncService) executeTask(ctx context.Context, task dto.RefreshTask) (dto.TaskStats, error) {
	var stats dto.TaskStats

	records, err := s.adapter.Fetch(ctx, feed.Request{
		Ticker: task.Ticker,
		Kind:   task.Kind,
		AsOf:   utils.TimeNowUTC(),
	})
	if err != nil {
		return stats, err
	}
	stats.Fetched = len(records)

	anomaliesBefore := s.engine.AnomalyCount()
	for _, raw := range records {
		normalized, err := s.normalizer.Normalize(raw)
		if err != nil {
			stats.ValidationFailures++
			s.logger.Warn("Dropping record that failed validation",
				logger.ErrorField(err),
				logger.StringField("ticker", task.Ticker),
				logger.StringField("kind", string(task.Kind)))
			continue
		}

		outcome, err := s.engine.Reconcile(ctx, normalized)
		if err != nil {
			stats.StoreFailures++
			s.logger.Error("Failed to reconcile record",
				logger.ErrorField(err),
				logger.StringField("ticker", task.Ticker),
				logger.StringField("kind", string(task.Kind)))
			continue
		}
		countOutcome(&stats, outcome)
	}
	stats.Anomalies = int(s.engine.AnomalyCount() - anomaliesBefore)

	// Row-level kinds feed the snapshot; rebuild it in the same refresh so
	// its derived fields and freshness timestamp track what was written.
	if task.Kind.TickerScoped() && task.Kind != entity.KindStockCalendar {
		if _, err := s.engine.RebuildSnapshot(ctx, task.Ticker, nil); err != nil {
			stats.StoreFailures++
			s.logger.Error("Failed to rebuild snapshot",
				logger.ErrorField(err),
				logger.StringField("ticker", task.Ticker))
		}
	}

	// A task with store failures stays due so the next cycle retries it.
	if stats.StoreFailures == 0 {
		s.planner.MarkCompleted(task.Ticker, task.Kind, utils.TimeNowUTC())
	}
	return stats, nil
}

func countOutcome(stats *dto.TaskStats, outcome reconciler.Outcome) {
	switch outcome {
	case reconciler.OutcomeInserted:
		stats.Inserted++
	case reconciler.OutcomeUpdated:
		stats.Updated++
	default:
		stats.Unchanged++
	}
}
