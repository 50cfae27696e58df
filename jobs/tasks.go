package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan walks the ledger and raises alerts for items at or
	// below their reorder band.
	TaskLowStockScan = "inventory:low_stock_scan"
	// TaskReportWarmup pre-populates the report caches.
	TaskReportWarmup = "reports:warmup"
)

// LowStockScanPayload parametrises a low-stock scan run.
type LowStockScanPayload struct {
	// Reason records what triggered the scan: "cron" or "adjustment".
	Reason string `json:"reason"`
	// ProductID narrows an adjustment-triggered scan to one product.
	ProductID string `json:"product_id,omitempty"`
}

// NewLowStockScanTask constructs an Asynq task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}

// ReportWarmupPayload parametrises a report cache warmup run.
type ReportWarmupPayload struct {
	// Months of dashboard history to warm, current month included.
	Months int `json:"months"`
}

// NewReportWarmupTask constructs an Asynq task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}
