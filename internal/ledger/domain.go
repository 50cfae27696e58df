package ledger

import (
	"errors"
	"math"
	"time"
)

// AdjustmentType enumerates supported stock movements.
type AdjustmentType string

const (
	// AdjustmentAdd represents replenishment (purchase or donation).
	AdjustmentAdd AdjustmentType = "add"
	// AdjustmentRemove represents consumption or loss.
	AdjustmentRemove AdjustmentType = "remove"
	// AdjustmentBalance reconciles stock to an absolute counted value.
	AdjustmentBalance AdjustmentType = "balance"
)

// StockStatus classifies a product against its reorder level.
type StockStatus string

const (
	StatusOK      StockStatus = "ok"
	StatusWarning StockStatus = "warning"
	StatusLow     StockStatus = "low"
)

// warningBand is the multiplier above the reorder level that still counts
// as "attention". Stock at exactly reorderLevel*1.2 is a warning, not ok.
const warningBand = 1.2

// Product is a raw material tracked by the ledger.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Stock        float64   `json:"stock"`
	ReorderLevel float64   `json:"reorder_level"`
	AverageCost  float64   `json:"average_cost"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockRatio returns stock relative to the reorder level. Products with the
// reorder logic disabled report +Inf so they sort last and never flag urgent.
func (p Product) StockRatio() float64 {
	if p.ReorderLevel <= 0 {
		return math.Inf(1)
	}
	return p.Stock / p.ReorderLevel
}

// Status classifies the product stock level.
func (p Product) Status() StockStatus {
	if p.ReorderLevel <= 0 {
		return StatusOK
	}
	ratio := p.Stock / p.ReorderLevel
	if ratio < 1 {
		return StatusLow
	}
	if ratio <= warningBand {
		return StatusWarning
	}
	return StatusOK
}

// Adjustment is one append-only stock movement record. ProductName is a
// denormalized snapshot taken at adjustment time; it survives later renames.
type Adjustment struct {
	ID                string         `json:"id"`
	ProductID         string         `json:"product_id"`
	ProductName       string         `json:"product_name"`
	Type              AdjustmentType `json:"type"`
	Value             float64        `json:"value"`
	TotalPurchaseCost float64        `json:"total_purchase_cost,omitempty"`
	SupplierID        string         `json:"supplier_id,omitempty"`
	ExpirationDate    time.Time      `json:"expiration_date,omitzero"`
	CreatedAt         time.Time      `json:"created_at"`
}

// CreateProductInput describes a new product registration.
type CreateProductInput struct {
	Name         string
	Description  string
	Stock        float64
	ReorderLevel float64
	AverageCost  float64
}

// AdjustmentInput describes a requested stock movement.
type AdjustmentInput struct {
	Type              AdjustmentType
	Value             float64
	TotalPurchaseCost float64
	SupplierID        string
	ExpirationDate    time.Time
}

// HistoryFilter narrows adjustment history queries. Zero times are open ends.
type HistoryFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

// ErrInvalidQuantity indicates a non-positive movement quantity.
var ErrInvalidQuantity = errors.New("ledger: quantity must be positive")

// ErrInvalidCost indicates a negative cost value.
var ErrInvalidCost = errors.New("ledger: cost must be >= 0")

// ErrInvalidType indicates an unknown adjustment type.
var ErrInvalidType = errors.New("ledger: unknown adjustment type")

// ErrInsufficientStock triggered when a removal exceeds the quantity on hand.
var ErrInsufficientStock = errors.New("ledger: insufficient stock")
