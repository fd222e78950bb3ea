package feed

import (
	"context"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/dto"
)

// Router dispatches fetch requests to the feed serving each kind.
type Router struct {
	yahoo        Adapter
	forexFactory Adapter
}

// NewRouter wires the concrete feeds behind one Adapter.
func NewRouter(yahoo, forexFactory Adapter) *Router {
	return &Router{yahoo: yahoo, forexFactory: forexFactory}
}

// Fetch implements Adapter.
func (r *Router) Fetch(ctx context.Context, req Request) ([]dto.RawRecord, error) {
	if req.Kind == entity.KindEconomicCalendar {
		return r.forexFactory.Fetch(ctx, req)
	}
	return r.yahoo.Fetch(ctx, req)
}
