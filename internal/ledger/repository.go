package ledger

import (
	"context"
	"errors"
)

// ErrProductNotFound indicates a missing product row.
var ErrProductNotFound = errors.New("ledger: product not found")

// Repository abstracts ledger persistence so the adjustment math stays
// independent of the backing store (process memory or PostgreSQL).
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	ListAdjustments(ctx context.Context, filter HistoryFilter) ([]Adjustment, error)
}

// TxRepository exposes transactional operations used by the service. The log
// append and the stock mutation commit together or not at all.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, id string) (Product, error)
	InsertProduct(ctx context.Context, product Product) error
	UpdateProduct(ctx context.Context, product Product) error
	InsertAdjustment(ctx context.Context, adj Adjustment) error
}
