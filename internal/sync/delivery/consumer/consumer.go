package consumer

import (
	"context"
	"sync"
	"time"

	"golang-market-calendar/internal/sync/config"
	"golang-market-calendar/internal/sync/service"
	"golang-market-calendar/pkg/common"
	"golang-market-calendar/pkg/logger"
	"golang-market-calendar/pkg/utils"
)

// RedisConsumer manages the consumption of refresh tasks from the task stream.
type RedisConsumer struct {
	cfg         *config.Config
	syncService service.SyncService
	logger      *logger.Logger
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(cfg *config.Config, syncService service.SyncService, log *logger.Logger) *RedisConsumer {
	return &RedisConsumer{
		cfg:         cfg,
		syncService: syncService,
		logger:      log,
		stopChan:    make(chan struct{}),
	}
}

// Start launches the worker loops. Each worker reads at most one task at a
// time, so the worker count bounds concurrent refreshes.
func (c *RedisConsumer) Start(ctx context.Context) {
	workers := c.cfg.Sync.MaxConcurrentTasks
	if workers < 1 {
		workers = 1
	}
	timeout := c.cfg.Sync.TaskTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	c.logger.Info("Redis consumer started",
		logger.StringField("stream", common.RedisStreamRefreshTasks),
		logger.IntField("workers", workers))
	for i := 0; i < workers; i++ {
		c.registerStreamHandler(ctx, c.syncService.ProcessTask, timeout)
	}
}

func (c *RedisConsumer) registerStreamHandler(ctx context.Context, fn func(ctx context.Context), timeout time.Duration) {
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
