package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/config"
	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// YahooClient fetches per-ticker calendar data and the broad-market
// earnings calendar from Yahoo Finance.
type YahooClient struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	responseCache  *cache.Cache
}

// NewYahooClient creates a rate-limited Yahoo Finance feed client.
func NewYahooClient(cfg *config.Config, log *logger.Logger) *YahooClient {
	perMinute := cfg.YahooFinance.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	cacheTTL := cfg.YahooFinance.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &YahooClient{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		responseCache:  cache.New(cacheTTL, 2*cacheTTL),
	}
}

// Fetch implements Adapter for all Yahoo-backed kinds.
func (c *YahooClient) Fetch(ctx context.Context, req Request) ([]dto.RawRecord, error) {
	switch req.Kind {
	case entity.KindStockCalendar:
		return c.fetchStockCalendar(ctx, req.Ticker)
	case entity.KindStockEarnings:
		return c.fetchEarningsHistory(ctx, req.Ticker)
	case entity.KindStockDividend, entity.KindStockSplit:
		return c.fetchChartEvents(ctx, req.Ticker, req.Kind)
	case entity.KindEarningsCalendar:
		return c.fetchEarningsCalendar(ctx, req.AsOf)
	default:
		return nil, fmt.Errorf("yahoo client does not serve kind %q", req.Kind)
	}
}

func (c *YahooClient) fetchStockCalendar(ctx context.Context, ticker string) ([]dto.RawRecord, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=calendarEvents", c.cfg.YahooFinance.BaseURL, url.PathEscape(ticker))

	var resp dto.QuoteSummaryResponse
	if err := c.getJSON(ctx, endpoint, entity.KindStockCalendar, ticker, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, &dto.FetchError{Kind: entity.KindStockCalendar, Ticker: ticker, Err: fmt.Errorf("%s: %s", resp.QuoteSummary.Error.Code, resp.QuoteSummary.Error.Description)}
	}
	if len(resp.QuoteSummary.Result) == 0 || resp.QuoteSummary.Result[0].CalendarEvents == nil {
		return nil, nil
	}

	ev := resp.QuoteSummary.Result[0].CalendarEvents
	raw := dto.RawStockCalendar{
		Ticker:          ticker,
		DividendDate:    ev.DividendDate.Fmt,
		ExDividendDate:  ev.ExDividendDate.Fmt,
		EarningsHigh:    ev.Earnings.EarningsHigh.Fmt,
		EarningsLow:     ev.Earnings.EarningsLow.Fmt,
		EarningsAverage: ev.Earnings.EarningsAverage.Fmt,
		RevenueHigh:     ev.Earnings.RevenueHigh.Fmt,
		RevenueLow:      ev.Earnings.RevenueLow.Fmt,
		RevenueAverage:  ev.Earnings.RevenueAverage.Fmt,
	}
	for _, d := range ev.Earnings.EarningsDate {
		if d.Fmt != "" {
			raw.EarningsDates = append(raw.EarningsDates, d.Fmt)
		}
	}
	return []dto.RawRecord{raw}, nil
}

func (c *YahooClient) fetchEarningsHistory(ctx context.Context, ticker string) ([]dto.RawRecord, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=earningsHistory", c.cfg.YahooFinance.BaseURL, url.PathEscape(ticker))

	var resp dto.QuoteSummaryResponse
	if err := c.getJSON(ctx, endpoint, entity.KindStockEarnings, ticker, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, &dto.FetchError{Kind: entity.KindStockEarnings, Ticker: ticker, Err: fmt.Errorf("%s: %s", resp.QuoteSummary.Error.Code, resp.QuoteSummary.Error.Description)}
	}
	if len(resp.QuoteSummary.Result) == 0 || resp.QuoteSummary.Result[0].EarningsHistory == nil {
		return nil, nil
	}

	var records []dto.RawRecord
	for _, h := range resp.QuoteSummary.Result[0].EarningsHistory.History {
		records = append(records, dto.RawEarnings{
			Ticker:      ticker,
			Date:        h.Quarter.Fmt,
			EPSEstimate: h.EPSEstimate.Fmt,
			ReportedEPS: h.EPSActual.Fmt,
			SurprisePct: h.SurprisePercent.Fmt,
		})
	}
	return records, nil
}

func (c *YahooClient) fetchChartEvents(ctx context.Context, ticker string, kind entity.Kind) ([]dto.RawRecord, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=10y&interval=1mo&events=div%%2Csplit", c.cfg.YahooFinance.BaseURL, url.PathEscape(ticker))

	var resp dto.ChartResponse
	if err := c.getJSON(ctx, endpoint, kind, ticker, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, &dto.FetchError{Kind: kind, Ticker: ticker, Err: fmt.Errorf("%s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	events := resp.Chart.Result[0].Events
	var records []dto.RawRecord
	if kind == entity.KindStockDividend {
		for _, d := range events.Dividends {
			records = append(records, dto.RawDividend{
				Ticker: ticker,
				Date:   time.Unix(d.Date, 0).UTC().Format("2006-01-02"),
				Amount: strconv.FormatFloat(d.Amount, 'f', -1, 64),
			})
		}
	} else {
		for _, s := range events.Splits {
			records = append(records, dto.RawSplit{
				Ticker: ticker,
				Date:   time.Unix(s.Date, 0).UTC().Format("2006-01-02"),
				Ratio:  s.SplitRatio,
			})
		}
	}
	return records, nil
}

// fetchEarningsCalendar pages through the broad-market earnings calendar
// from yesterday onwards, filtered to the configured minimum market cap.
func (c *YahooClient) fetchEarningsCalendar(ctx context.Context, asOf time.Time) ([]dto.RawRecord, error) {
	pageSize := c.cfg.YahooFinance.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	start := asOf.AddDate(0, 0, -1).Format("2006-01-02")

	var records []dto.RawRecord
	for offset := 0; ; offset += pageSize {
		endpoint := fmt.Sprintf("%s/v1/finance/calendar/earnings?start=%s&size=%d&offset=%d&minMarketCap=%.0f",
			c.cfg.YahooFinance.BaseURL, start, pageSize, offset, c.cfg.YahooFinance.MinMarketCap)

		var resp dto.EarningsCalendarResponse
		if err := c.getJSON(ctx, endpoint, entity.KindEarningsCalendar, "", &resp); err != nil {
			return nil, err
		}
		if resp.Finance.Error != nil {
			return nil, &dto.FetchError{Kind: entity.KindEarningsCalendar, Err: fmt.Errorf("%s: %s", resp.Finance.Error.Code, resp.Finance.Error.Description)}
		}
		if len(resp.Finance.Result) == 0 || len(resp.Finance.Result[0].Rows) == 0 {
			break
		}

		rows := resp.Finance.Result[0].Rows
		for _, row := range rows {
			records = append(records, dto.RawEarningsCalendarItem{
				Symbol:      row.Ticker,
				Company:     row.CompanyShortName,
				Date:        row.StartDateTime,
				Timing:      row.StartDateTimeType,
				EventName:   row.EventName,
				Marketcap:   row.MarketCap,
				EPSEstimate: row.EPSEstimate,
				ReportedEPS: row.EPSActual,
				SurprisePct: row.EPSSurprisePct,
			})
		}
		if len(rows) < pageSize {
			break
		}
	}
	return records, nil
}

// getJSON performs a rate-limited GET with a short-TTL response cache and
// decodes the JSON body into out.
func (c *YahooClient) getJSON(ctx context.Context, endpoint string, kind entity.Kind, ticker string, out interface{}) error {
	if cached, found := c.responseCache.Get(endpoint); found {
		return json.Unmarshal(cached.([]byte), out)
	}

	if err := c.requestLimiter.Wait(ctx); err != nil {
		return &dto.FetchError{Kind: kind, Ticker: ticker, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &dto.FetchError{Kind: kind, Ticker: ticker, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &dto.FetchError{Kind: kind, Ticker: ticker, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &dto.FetchError{Kind: kind, Ticker: ticker, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Yahoo request failed",
			logger.StringField("url", endpoint),
			logger.IntField("status_code", resp.StatusCode))
		return &dto.FetchError{Kind: kind, Ticker: ticker, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	c.responseCache.SetDefault(endpoint, body)
	return json.Unmarshal(body, out)
}
