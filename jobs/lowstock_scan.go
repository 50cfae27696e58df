package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/padoca-erp/padoca-erp/internal/jobs"
	"github.com/padoca-erp/padoca-erp/internal/ledger"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// LowStockScanJob walks the ledger and logs an alert for every product at or
// below its reorder band, feeding the stock-alert counters.
type LowStockScanJob struct {
	Stock   *ledger.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewLowStockScanJob wires dependencies for the scan handler.
func NewLowStockScanJob(stock *ledger.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	return &LowStockScanJob{
		Stock:   stock,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes low-stock scan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Stock == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Reason == "" {
		payload.Reason = "cron"
	}

	tracker := j.metrics().Track(TaskLowStockScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("reason", payload.Reason))
	logger.Info("starting low stock scan")

	start := j.now()
	products, err := j.Stock.SortedProducts(ctx)
	if err != nil {
		resultErr = err
		logger.Error("list products", slog.Any("error", err))
		return resultErr
	}

	low, warning := 0, 0
	for _, p := range products {
		if payload.ProductID != "" && p.ID != payload.ProductID {
			continue
		}
		switch p.Status() {
		case ledger.StatusLow:
			low++
			logger.Warn("product below reorder level",
				slog.String("product_id", p.ID),
				slog.String("name", p.Name),
				slog.Float64("stock", p.Stock),
				slog.Float64("reorder_level", p.ReorderLevel))
		case ledger.StatusWarning:
			warning++
			logger.Info("product near reorder level",
				slog.String("product_id", p.ID),
				slog.String("name", p.Name),
				slog.Float64("stock", p.Stock),
				slog.Float64("reorder_level", p.ReorderLevel))
		}
	}
	j.metrics().AddStockAlerts(string(ledger.StatusLow), low)
	j.metrics().AddStockAlerts(string(ledger.StatusWarning), warning)

	logger.Info("completed low stock scan",
		slog.Int("low", low),
		slog.Int("warning", warning),
		slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLowStockScan))
	}
	return slog.Default().With(slog.String("job", TaskLowStockScan))
}

func (j *LowStockScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *LowStockScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
