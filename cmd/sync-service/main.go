package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-market-calendar/internal/sync/config"
	"golang-market-calendar/internal/sync/delivery/consumer"
	delivery "golang-market-calendar/internal/sync/delivery/http"
	"golang-market-calendar/internal/sync/feed"
	"golang-market-calendar/internal/sync/normalizer"
	"golang-market-calendar/internal/sync/reconciler"
	"golang-market-calendar/internal/sync/repository"
	"golang-market-calendar/internal/sync/scheduler"
	"golang-market-calendar/internal/sync/service"
	"golang-market-calendar/pkg/common"
	"golang-market-calendar/pkg/logger"
	"golang-market-calendar/pkg/postgres"
	"golang-market-calendar/pkg/redis"
	"golang-market-calendar/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the market calendar sync service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Sync Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Create the consumer group if it doesn't exist
	// MKSTREAM creates the stream if it doesn't exist
	if err := redisClient.XGroupCreateMkStream(context.Background(), common.RedisStreamRefreshTasks, common.RedisStreamGroup, "0").Err(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
	}

	// Initialize the Telegram notifier
	notifier := telegram.NewNoop()
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	watchlistRepo := repository.NewWatchlistRepository(db.DB)
	stockRepo := repository.NewStockRepository(db.DB)
	calendarRepo := repository.NewCalendarRepository(db.DB)
	stalenessRepo := repository.NewStalenessRepository(db.DB)

	// Initialize feed adapters
	yahooClient := feed.NewYahooClient(cfg, appLogger)
	forexFactoryClient := feed.NewForexFactoryClient(cfg, appLogger)
	feedRouter := feed.NewRouter(yahooClient, forexFactoryClient)

	// Initialize the reconciliation engine and planner
	engine := reconciler.New(db.DB, appLogger, notifier, cfg.Sync.StoreMaxRetries, cfg.Sync.StoreRetryBackoff)
	planner := scheduler.NewPlanner(cfg.Scheduler)

	// Initialize services
	syncSvc := service.NewSyncService(cfg, redisClient.Client, feedRouter, normalizer.New(), engine, planner, watchlistRepo, appLogger)
	schedulerSvc := service.NewSchedulerService(watchlistRepo, stockRepo, stalenessRepo, planner, redisClient.Client, appLogger, cfg)
	watchlistSvc := service.NewWatchlistService(watchlistRepo, syncSvc, appLogger)
	stockSvc := service.NewStockService(stockRepo, watchlistRepo, syncSvc, appLogger)
	calendarSvc := service.NewCalendarService(calendarRepo)

	// Start the task consumer and the scheduling loop
	redisConsumer := consumer.NewRedisConsumer(cfg, syncSvc, appLogger)
	redisConsumer.Start(ctx)
	go schedulerSvc.Start(ctx)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	watchlistHandler := delivery.NewWatchlistHandler(watchlistSvc, appLogger)
	watchlistHandler.RegisterRoutes(apiV1.Group("/watchlist"))

	stockHandler := delivery.NewStockHandler(stockSvc, appLogger)
	stockHandler.RegisterRoutes(apiV1.Group("/stocks"))

	calendarHandler := delivery.NewCalendarHandler(calendarSvc, appLogger)
	calendarHandler.RegisterRoutes(apiV1.Group("/calendar"))

	syncHandler := delivery.NewSyncHandler(syncSvc, appLogger)
	syncHandler.RegisterRoutes(apiV1.Group("/sync"))

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	redisConsumer.Stop()

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "sync-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-sync.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing sync-service CLI: %s\n", err)
		os.Exit(1)
	}
}
