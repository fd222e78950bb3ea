package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/config"
	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/internal/sync/feed"
	"golang-market-calendar/internal/sync/normalizer"
	"golang-market-calendar/internal/sync/reconciler"
	"golang-market-calendar/internal/sync/scheduler"
	"golang-market-calendar/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	records []dto.RawRecord
	err     error
}

func (a *stubAdapter) Fetch(ctx context.Context, req feed.Request) ([]dto.RawRecord, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.records, nil
}

type stubEngine struct {
	reconciled   []interface{}
	snapshots    []string
	failFirst    bool
	reconcileErr error
	outcome      reconciler.Outcome
	anomalies    int64
}

func (e *stubEngine) Reconcile(ctx context.Context, record interface{}) (reconciler.Outcome, error) {
	if e.failFirst && len(e.reconciled) == 0 && e.reconcileErr != nil {
		e.reconciled = append(e.reconciled, nil)
		return reconciler.OutcomeUnchanged, e.reconcileErr
	}
	e.reconciled = append(e.reconciled, record)
	return e.outcome, nil
}

func (e *stubEngine) RebuildSnapshot(ctx context.Context, ticker string, est *dto.CalendarEstimates) (reconciler.Outcome, error) {
	e.snapshots = append(e.snapshots, ticker)
	return reconciler.OutcomeUpdated, nil
}

func (e *stubEngine) AnomalyCount() int64 { return e.anomalies }

type stubWatchlist struct {
	tickers []string
}

func (w *stubWatchlist) GetTickers(ctx context.Context) ([]string, error) {
	return w.tickers, nil
}

func newTestSyncService(t *testing.T, adapter feed.Adapter, engine reconciler.Engine, watchlist WatchlistTickers) SyncService {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	cfg := &config.Config{}
	return NewSyncService(cfg, nil, adapter, normalizer.New(), engine, scheduler.NewPlanner(cfg.Scheduler), watchlist, log)
}

func taskPayload(t *testing.T, ticker string, kind entity.Kind) []byte {
	t.Helper()
	payload, err := json.Marshal(dto.RefreshTask{Ticker: ticker, Kind: kind})
	require.NoError(t, err)
	return payload
}

func TestHandleTaskMessage_FetchErrorLeavesStoreUntouched(t *testing.T) {
	engine := &stubEngine{}
	fetchErr := &dto.FetchError{Kind: entity.KindStockDividend, Ticker: "AAPL", Err: errors.New("feed unavailable")}
	svc := newTestSyncService(t, &stubAdapter{err: fetchErr}, engine, &stubWatchlist{})

	err := svc.HandleTaskMessage(context.Background(), taskPayload(t, "AAPL", entity.KindStockDividend))
	require.Error(t, err)
	assert.True(t, dto.IsFetchError(err))
	assert.Empty(t, engine.reconciled, "a fetch failure must not reach the store")
	assert.Empty(t, engine.snapshots)
}

func TestHandleTaskMessage_ValidationFailureDropsRecordOnly(t *testing.T) {
	engine := &stubEngine{outcome: reconciler.OutcomeInserted}
	adapter := &stubAdapter{records: []dto.RawRecord{
		dto.RawDividend{Ticker: "AAPL", Date: "", Amount: "0.25"},
		dto.RawDividend{Ticker: "AAPL", Date: "2026-08-14", Amount: "0.26"},
	}}
	svc := newTestSyncService(t, adapter, engine, &stubWatchlist{})

	err := svc.HandleTaskMessage(context.Background(), taskPayload(t, "AAPL", entity.KindStockDividend))
	require.NoError(t, err)
	assert.Len(t, engine.reconciled, 1, "the valid record still reaches the store")
}

func TestHandleTaskMessage_StoreFailureContinuesBatch(t *testing.T) {
	engine := &stubEngine{
		outcome:      reconciler.OutcomeUpdated,
		failFirst:    true,
		reconcileErr: errors.New("deadlock detected"),
	}
	adapter := &stubAdapter{records: []dto.RawRecord{
		dto.RawDividend{Ticker: "AAPL", Date: "2026-05-14", Amount: "0.25"},
		dto.RawDividend{Ticker: "AAPL", Date: "2026-08-14", Amount: "0.26"},
	}}
	svc := newTestSyncService(t, adapter, engine, &stubWatchlist{})

	err := svc.HandleTaskMessage(context.Background(), taskPayload(t, "AAPL", entity.KindStockDividend))
	require.NoError(t, err, "per-record store failures do not fail the task")
	assert.Len(t, engine.reconciled, 2)
}

func TestHandleTaskMessage_RowKindsRebuildSnapshot(t *testing.T) {
	engine := &stubEngine{outcome: reconciler.OutcomeInserted}
	adapter := &stubAdapter{records: []dto.RawRecord{
		dto.RawDividend{Ticker: "AAPL", Date: "2026-08-14", Amount: "0.26"},
	}}
	svc := newTestSyncService(t, adapter, engine, &stubWatchlist{})

	err := svc.HandleTaskMessage(context.Background(), taskPayload(t, "AAPL", entity.KindStockDividend))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, engine.snapshots)
}

func TestHandleTaskMessage_CalendarKindSkipsSnapshotRebuild(t *testing.T) {
	engine := &stubEngine{outcome: reconciler.OutcomeUpdated}
	adapter := &stubAdapter{records: []dto.RawRecord{
		dto.RawStockCalendar{Ticker: "AAPL", EarningsDates: []string{"2026-10-29"}},
	}}
	svc := newTestSyncService(t, adapter, engine, &stubWatchlist{})

	err := svc.HandleTaskMessage(context.Background(), taskPayload(t, "AAPL", entity.KindStockCalendar))
	require.NoError(t, err)
	assert.Empty(t, engine.snapshots, "the calendar reconcile already writes the snapshot")
}

func TestHandleTaskMessage_RejectsUnknownKind(t *testing.T) {
	engine := &stubEngine{}
	svc := newTestSyncService(t, &stubAdapter{}, engine, &stubWatchlist{})

	err := svc.HandleTaskMessage(context.Background(), []byte(`{"ticker":"AAPL","kind":"stock_news"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
	assert.Empty(t, engine.reconciled)
}

func TestSyncAll_CoversWatchlistAndGlobalFeeds(t *testing.T) {
	engine := &stubEngine{outcome: reconciler.OutcomeUnchanged}
	svc := newTestSyncService(t, &stubAdapter{}, engine, &stubWatchlist{tickers: []string{"AAPL", "MSFT"}})

	_, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	// Two tickers times four kinds, each row kind rebuilding the snapshot.
	assert.Len(t, engine.snapshots, 2*(len(entity.TickerKinds)-1))
}
