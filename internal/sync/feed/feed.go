package feed

import (
	"context"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/dto"
)

// Request identifies one fetch: a kind, the ticker for ticker-scoped
// kinds (empty otherwise), and the reference time of the refresh.
type Request struct {
	Ticker string
	Kind   entity.Kind
	AsOf   time.Time
}

// Adapter fetches raw calendar records from an external feed. Feed
// unavailability is reported as *dto.FetchError and treated as transient;
// it never implies removal of existing data.
type Adapter interface {
	Fetch(ctx context.Context, req Request) ([]dto.RawRecord, error)
}
