package integration

import (
	"context"
	"log/slog"

	"github.com/padoca-erp/padoca-erp/internal/ledger"
	"github.com/padoca-erp/padoca-erp/jobs"
)

// ReportCache is the invalidation slice of the report cache.
type ReportCache interface {
	Bump(ctx context.Context) error
}

// Hooks wires ledger domain events into the report cache and job queue.
// Every posted adjustment invalidates the cached reports; adjustments that
// leave a product low additionally trigger a scoped low-stock scan.
type Hooks struct {
	cache  ReportCache
	queue  *jobs.Client
	logger *slog.Logger
}

// NewHooks constructs integration hooks. Both cache and queue are optional;
// nil dependencies disable the corresponding effect.
func NewHooks(cache ReportCache, queue *jobs.Client, logger *slog.Logger) *Hooks {
	return &Hooks{cache: cache, queue: queue, logger: logger}
}

// HandleAdjustmentPosted reacts to a committed stock movement.
func (h *Hooks) HandleAdjustmentPosted(ctx context.Context, evt ledger.AdjustmentPostedEvent) error {
	if h == nil {
		return nil
	}
	if h.cache != nil {
		if err := h.cache.Bump(ctx); err != nil {
			// Stale cached reports expire with their TTL; invalidation is
			// best effort.
			if h.logger != nil {
				h.logger.Warn("bump report cache", slog.Any("error", err))
			}
		}
	}
	if h.queue != nil && evt.Status == ledger.StatusLow {
		_, err := h.queue.EnqueueLowStockScan(ctx, jobs.LowStockScanPayload{
			Reason:    "adjustment",
			ProductID: evt.ProductID,
		})
		if err != nil {
			// Alerting is best effort; the adjustment itself already
			// committed.
			if h.logger != nil {
				h.logger.Warn("enqueue low stock scan", slog.String("product_id", evt.ProductID), slog.Any("error", err))
			}
		}
	}
	return nil
}

var _ ledger.IntegrationHandler = (*Hooks)(nil)
