package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/pkg/logger"
	"golang-market-calendar/pkg/telegram"
	"golang-market-calendar/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Outcome classifies the effect of one reconciliation.
type Outcome string

const (
	OutcomeInserted  Outcome = "inserted"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
)

// errLostInsertRace signals that a concurrent reconciliation inserted the
// row first; the retry re-runs the transaction down the merge path.
var errLostInsertRace = errors.New("lost insert race for natural key")

// Engine is the only writer of the calendar tables. It applies per-field
// merge policies for source-of-truth entities and a full-replace path for
// the derived snapshot, both behind upsert-on-conflict writes so the
// store's uniqueness constraints are the sole duplicate prevention.
type Engine interface {
	// Reconcile applies one normalized record. Accepts the entity row
	// types and, for the stock calendar kind, *dto.CalendarEstimates
	// (which routes to the full-replace path).
	Reconcile(ctx context.Context, record interface{}) (Outcome, error)

	// RebuildSnapshot recomputes and replaces the snapshot for a ticker
	// from the stored rows plus the given estimates (nil to carry the
	// last known estimates forward).
	RebuildSnapshot(ctx context.Context, ticker string, est *dto.CalendarEstimates) (Outcome, error)

	// AnomalyCount returns the number of conflict anomalies observed
	// since startup.
	AnomalyCount() int64
}

// New creates the reconciliation engine.
func New(db *gorm.DB, log *logger.Logger, notifier telegram.Notifier, storeMaxRetries int, storeRetryBackoff time.Duration) Engine {
	if storeMaxRetries < 1 {
		storeMaxRetries = 3
	}
	if storeRetryBackoff <= 0 {
		storeRetryBackoff = 200 * time.Millisecond
	}
	return &engine{
		db:           db,
		log:          log,
		notifier:     notifier,
		maxRetries:   storeMaxRetries,
		retryBackoff: storeRetryBackoff,
	}
}

type engine struct {
	db           *gorm.DB
	log          *logger.Logger
	notifier     telegram.Notifier
	maxRetries   int
	retryBackoff time.Duration
	anomalies    atomic.Int64
}

func (e *engine) Reconcile(ctx context.Context, record interface{}) (Outcome, error) {
	switch rec := record.(type) {
	case *dto.CalendarEstimates:
		return e.RebuildSnapshot(ctx, rec.Ticker, rec)
	case *entity.StockEarnings:
		return e.reconcileEarnings(ctx, rec)
	case *entity.StockDividend:
		return e.reconcileDividend(ctx, rec)
	case *entity.StockSplit:
		return e.reconcileSplit(ctx, rec)
	case *entity.EarningsCalendarEntry:
		return e.reconcileEarningsCalendar(ctx, rec)
	case *entity.EconomicCalendarEntry:
		return e.reconcileEconomicEvent(ctx, rec)
	default:
		return OutcomeUnchanged, fmt.Errorf("unsupported record type %T", record)
	}
}

func (e *engine) AnomalyCount() int64 {
	return e.anomalies.Load()
}

func (e *engine) reconcileEarnings(ctx context.Context, rec *entity.StockEarnings) (Outcome, error) {
	keyColumns := []clause.Column{{Name: "ticker"}, {Name: "date"}}
	outcome := OutcomeUnchanged

	err := utils.Retry(ctx, e.maxRetries, e.retryBackoff, func(ctx context.Context) error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var stored entity.StockEarnings
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("ticker = ? AND date = ?", rec.Ticker, rec.Date).
				First(&stored).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res := tx.Clauses(clause.OnConflict{Columns: keyColumns, DoNothing: true}).Create(rec)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return errLostInsertRace
				}
				outcome = OutcomeInserted
				return nil
			}
			if err != nil {
				return err
			}

			merged, changed, anomalies := mergeEarnings(&stored, rec)
			e.reportAnomalies(anomalies)
			if !changed {
				outcome = OutcomeUnchanged
				return nil
			}

			res := tx.Clauses(clause.OnConflict{
				Columns:   keyColumns,
				DoUpdates: clause.AssignmentColumns([]string{"eps_estimate", "reported_eps", "surprise_pct", "updated_at"}),
			}).Create(&merged)
			if res.Error != nil {
				return res.Error
			}
			outcome = OutcomeUpdated
			return nil
		})
	})
	if err != nil {
		return outcome, &dto.StoreError{
			Kind: entity.KindStockEarnings,
			Key:  fmt.Sprintf("(%s, %s)", rec.Ticker, rec.Date.Format("2006-01-02")),
			Err:  err,
		}
	}
	return outcome, nil
}

func (e *engine) reconcileDividend(ctx context.Context, rec *entity.StockDividend) (Outcome, error) {
	keyColumns := []clause.Column{{Name: "ticker"}, {Name: "date"}}
	outcome := OutcomeUnchanged

	err := utils.Retry(ctx, e.maxRetries, e.retryBackoff, func(ctx context.Context) error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var stored entity.StockDividend
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("ticker = ? AND date = ?", rec.Ticker, rec.Date).
				First(&stored).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res := tx.Clauses(clause.OnConflict{Columns: keyColumns, DoNothing: true}).Create(rec)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return errLostInsertRace
				}
				outcome = OutcomeInserted
				return nil
			}
			if err != nil {
				return err
			}

			merged, changed, anomalies := mergeDividend(&stored, rec)
			e.reportAnomalies(anomalies)
			if !changed {
				outcome = OutcomeUnchanged
				return nil
			}

			res := tx.Clauses(clause.OnConflict{
				Columns:   keyColumns,
				DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
			}).Create(&merged)
			if res.Error != nil {
				return res.Error
			}
			outcome = OutcomeUpdated
			return nil
		})
	})
	if err != nil {
		return outcome, &dto.StoreError{
			Kind: entity.KindStockDividend,
			Key:  fmt.Sprintf("(%s, %s)", rec.Ticker, rec.Date.Format("2006-01-02")),
			Err:  err,
		}
	}
	return outcome, nil
}

func (e *engine) reconcileSplit(ctx context.Context, rec *entity.StockSplit) (Outcome, error) {
	keyColumns := []clause.Column{{Name: "ticker"}, {Name: "date"}}
	outcome := OutcomeUnchanged

	err := utils.Retry(ctx, e.maxRetries, e.retryBackoff, func(ctx context.Context) error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var stored entity.StockSplit
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("ticker = ? AND date = ?", rec.Ticker, rec.Date).
				First(&stored).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res := tx.Clauses(clause.OnConflict{Columns: keyColumns, DoNothing: true}).Create(rec)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return errLostInsertRace
				}
				outcome = OutcomeInserted
				return nil
			}
			if err != nil {
				return err
			}

			merged, changed, anomalies := mergeSplit(&stored, rec)
			e.reportAnomalies(anomalies)
			if !changed {
				outcome = OutcomeUnchanged
				return nil
			}

			res := tx.Clauses(clause.OnConflict{
				Columns:   keyColumns,
				DoUpdates: clause.AssignmentColumns([]string{"ratio", "updated_at"}),
			}).Create(&merged)
			if res.Error != nil {
				return res.Error
			}
			outcome = OutcomeUpdated
			return nil
		})
	})
	if err != nil {
		return outcome, &dto.StoreError{
			Kind: entity.KindStockSplit,
			Key:  fmt.Sprintf("(%s, %s)", rec.Ticker, rec.Date.Format("2006-01-02")),
			Err:  err,
		}
	}
	return outcome, nil
}

func (e *engine) reconcileEarningsCalendar(ctx context.Context, rec *entity.EarningsCalendarEntry) (Outcome, error) {
	keyColumns := []clause.Column{{Name: "symbol"}, {Name: "date"}}
	outcome := OutcomeUnchanged

	err := utils.Retry(ctx, e.maxRetries, e.retryBackoff, func(ctx context.Context) error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var stored entity.EarningsCalendarEntry
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("symbol = ? AND date = ?", rec.Symbol, rec.Date).
				First(&stored).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res := tx.Clauses(clause.OnConflict{Columns: keyColumns, DoNothing: true}).Create(rec)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return errLostInsertRace
				}
				outcome = OutcomeInserted
				return nil
			}
			if err != nil {
				return err
			}

			merged, changed, anomalies := mergeEarningsCalendar(&stored, rec)
			e.reportAnomalies(anomalies)
			if !changed {
				outcome = OutcomeUnchanged
				return nil
			}

			// The row is locked; a keyed update is race-safe here and
			// avoids fighting the surrogate primary key on re-insert.
			err = tx.Model(&entity.EarningsCalendarEntry{}).
				Where("id = ?", stored.ID).
				Updates(map[string]interface{}{
					"day":          merged.Day,
					"company":      merged.Company,
					"marketcap":    merged.Marketcap,
					"event_name":   merged.EventName,
					"timing":       merged.Timing,
					"eps_estimate": merged.EPSEstimate,
					"reported_eps": merged.ReportedEPS,
					"surprise_pct": merged.SurprisePct,
				}).Error
			if err != nil {
				return err
			}
			outcome = OutcomeUpdated
			return nil
		})
	})
	if err != nil {
		return outcome, &dto.StoreError{
			Kind: entity.KindEarningsCalendar,
			Key:  fmt.Sprintf("(%s, %s)", rec.Symbol, rec.Date.Format("2006-01-02")),
			Err:  err,
		}
	}
	return outcome, nil
}

func (e *engine) reconcileEconomicEvent(ctx context.Context, rec *entity.EconomicCalendarEntry) (Outcome, error) {
	keyColumns := []clause.Column{{Name: "day"}, {Name: "event"}}
	outcome := OutcomeUnchanged

	err := utils.Retry(ctx, e.maxRetries, e.retryBackoff, func(ctx context.Context) error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var stored entity.EconomicCalendarEntry
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("day = ? AND event = ?", rec.Day, rec.Event).
				First(&stored).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res := tx.Clauses(clause.OnConflict{Columns: keyColumns, DoNothing: true}).Create(rec)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return errLostInsertRace
				}
				outcome = OutcomeInserted
				return nil
			}
			if err != nil {
				return err
			}

			merged, changed, anomalies := mergeEconomicEvent(&stored, rec)
			e.reportAnomalies(anomalies)
			if !changed {
				outcome = OutcomeUnchanged
				return nil
			}

			err = tx.Model(&entity.EconomicCalendarEntry{}).
				Where("id = ?", stored.ID).
				Updates(map[string]interface{}{
					"time":     merged.Time,
					"currency": merged.Currency,
					"impact":   merged.Impact,
					"actual":   merged.Actual,
					"forecast": merged.Forecast,
					"previous": merged.Previous,
				}).Error
			if err != nil {
				return err
			}
			outcome = OutcomeUpdated
			return nil
		})
	})
	if err != nil {
		return outcome, &dto.StoreError{
			Kind: entity.KindEconomicCalendar,
			Key:  fmt.Sprintf("(%s, %s)", rec.Day.Format("2006-01-02"), rec.Event),
			Err:  err,
		}
	}
	return outcome, nil
}

// snapshotColumns are all non-key columns of the snapshot; the
// full-replace path always writes every one of them.
var snapshotColumns = []string{
	"dividend_date", "ex_dividend_date", "earnings_dates",
	"earnings_high", "earnings_low", "earnings_average",
	"revenue_high", "revenue_low", "revenue_average", "updated_at",
}

func (e *engine) RebuildSnapshot(ctx context.Context, ticker string, est *dto.CalendarEstimates) (Outcome, error) {
	now := utils.TimeNowUTC()
	outcome := OutcomeUnchanged

	err := utils.Retry(ctx, e.maxRetries, e.retryBackoff, func(ctx context.Context) error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var prev *entity.StockCalendar
			var existing entity.StockCalendar
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("ticker = ?", ticker).
				First(&existing).Error
			if err == nil {
				prev = &existing
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			// Same-transaction reads: the recompute observes the rows
			// written by this logical refresh.
			var earnings []entity.StockEarnings
			if err := tx.Where("ticker = ?", ticker).Order("date").Find(&earnings).Error; err != nil {
				return err
			}
			var dividends []entity.StockDividend
			if err := tx.Where("ticker = ?", ticker).Order("date").Find(&dividends).Error; err != nil {
				return err
			}

			snap, err := BuildSnapshot(ticker, est, earnings, dividends, prev, now)
			if err != nil {
				return err
			}

			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "ticker"}},
				DoUpdates: clause.AssignmentColumns(snapshotColumns),
			}).Create(&snap)
			if res.Error != nil {
				return res.Error
			}

			if prev == nil {
				outcome = OutcomeInserted
			} else {
				outcome = OutcomeUpdated
			}
			return nil
		})
	})
	if err != nil {
		return outcome, &dto.StoreError{Kind: entity.KindStockCalendar, Key: ticker, Err: err}
	}
	return outcome, nil
}

// reportAnomalies logs each conflict anomaly, bumps the counter and sends
// a best-effort notification. The offending write was already suppressed
// by the merge.
func (e *engine) reportAnomalies(anomalies []*dto.ConflictAnomaly) {
	for _, a := range anomalies {
		e.anomalies.Add(1)
		e.log.Warn("Conflict anomaly: actual value differs from stored actual, write suppressed",
			logger.StringField("kind", string(a.Kind)),
			logger.StringField("key", a.Key),
			logger.StringField("field", a.Field),
			logger.StringField("stored", a.Stored),
			logger.StringField("incoming", a.Incoming))
		if e.notifier != nil {
			msg := telegram.FormatAnomaly(string(a.Kind), a.Key, a.Field, a.Stored, a.Incoming)
			if err := e.notifier.SendMessage(msg); err != nil {
				e.log.Error("Failed to send anomaly notification", logger.ErrorField(err))
			}
		}
	}
}
