package config

import (
	"time"

	"golang-market-calendar/pkg/config"
)

// Intervals holds the per-entity-kind refresh intervals. The earnings
// interval tightens as a ticker's next known earnings date approaches.
type Intervals struct {
	StockCalendar  time.Duration `mapstructure:"stock_calendar"`
	StockEarnings  time.Duration `mapstructure:"stock_earnings"`
	StockDividends time.Duration `mapstructure:"stock_dividends"`
	StockSplits    time.Duration `mapstructure:"stock_splits"`

	EarningsNearWindow       time.Duration `mapstructure:"earnings_near_window"`
	EarningsNearInterval     time.Duration `mapstructure:"earnings_near_interval"`
	EarningsImminentWindow   time.Duration `mapstructure:"earnings_imminent_window"`
	EarningsImminentInterval time.Duration `mapstructure:"earnings_imminent_interval"`
}

// Scheduler holds scheduling configuration.
type Scheduler struct {
	PollingInterval      time.Duration `mapstructure:"polling_interval"`
	EarningsCalendarCron string        `mapstructure:"earnings_calendar_cron"`
	EconomicCalendarCron string        `mapstructure:"economic_calendar_cron"`
	Intervals            Intervals     `mapstructure:"intervals"`
}

// Sync holds worker/reconciliation configuration.
type Sync struct {
	MaxConcurrentTasks int           `mapstructure:"max_concurrent_tasks"`
	TaskTimeout        time.Duration `mapstructure:"task_timeout"`
	StreamReadTimeout  time.Duration `mapstructure:"stream_read_timeout"`
	StoreMaxRetries    int           `mapstructure:"store_max_retries"`
	StoreRetryBackoff  time.Duration `mapstructure:"store_retry_backoff"`
}

// YahooFinance holds the configuration for the Yahoo Finance feed client.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MinMarketCap        float64       `mapstructure:"min_market_cap"`
	PageSize            int           `mapstructure:"page_size"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// ForexFactory holds the configuration for the economic calendar feed.
type ForexFactory struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// Config holds the full configuration for the sync service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Telegram     config.Telegram `mapstructure:"telegram"`
	Scheduler    Scheduler       `mapstructure:"scheduler"`
	Sync         Sync            `mapstructure:"sync"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	ForexFactory ForexFactory    `mapstructure:"forexfactory"`
}

// Load loads the sync service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
