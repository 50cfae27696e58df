package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/padoca-erp/padoca-erp/internal/jobs"
	"github.com/padoca-erp/padoca-erp/internal/reports"
)

// ReportWarmupJob pre-populates the report caches so the first dashboard
// request after an invalidation does not pay the aggregation cost.
type ReportWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(reportsSvc *reports.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Reports: reportsSvc,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Months <= 0 {
		payload.Months = 1
	}

	tracker := j.metrics().Track(TaskReportWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting report warmup", slog.Int("months", payload.Months))

	now := j.now()
	// Tighten each warmup with a timeout to avoid long-running jobs.
	warmCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	for i := 0; i < payload.Months; i++ {
		ref := now.AddDate(0, -i, 0)
		if _, err := j.Reports.Dashboard(warmCtx, ref.Month(), ref.Year()); err != nil {
			resultErr = err
			logger.Error("warm dashboard", slog.String("month", ref.Format("2006-01")), slog.Any("error", err))
			return resultErr
		}
	}
	for _, includeWarning := range []bool{false, true} {
		if _, err := j.Reports.ShoppingList(warmCtx, includeWarning); err != nil {
			resultErr = err
			logger.Error("warm shopping list", slog.Bool("include_warning", includeWarning), slog.Any("error", err))
			return resultErr
		}
	}

	logger.Info("completed report warmup", slog.Duration("duration", time.Since(now)))
	return resultErr
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportWarmup))
}

func (j *ReportWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
