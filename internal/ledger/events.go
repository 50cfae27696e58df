package ledger

import (
	"context"
	"time"
)

// AdjustmentPostedEvent is emitted after a stock adjustment commits.
type AdjustmentPostedEvent struct {
	AdjustmentID string
	ProductID    string
	ProductName  string
	Type         AdjustmentType
	Value        float64
	Stock        float64
	AverageCost  float64
	Status       StockStatus
	PostedAt     time.Time
}

// IntegrationHandler receives ledger events, e.g. for report cache
// invalidation and low-stock follow-ups.
type IntegrationHandler interface {
	HandleAdjustmentPosted(ctx context.Context, evt AdjustmentPostedEvent) error
}
