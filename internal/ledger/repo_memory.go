package ledger

import (
	"context"
	"sync"
)

// MemoryRepository keeps all ledger state in process memory. It mirrors the
// transient model of the original application: state is lost on restart.
// Safe for concurrent use.
type MemoryRepository struct {
	mu          sync.RWMutex
	products    []Product    // newest first
	adjustments []Adjustment // newest first
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

type memoryTx struct {
	products    []Product
	adjustments []Adjustment
}

// WithTx runs fn against a staged copy of the store and commits it only when
// fn succeeds, so partial writes never become visible.
func (r *MemoryRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stage := &memoryTx{
		products:    append([]Product(nil), r.products...),
		adjustments: append([]Adjustment(nil), r.adjustments...),
	}
	if err := fn(ctx, stage); err != nil {
		return err
	}
	r.products = stage.products
	r.adjustments = stage.adjustments
	return nil
}

// ListProducts returns a copy of the product list, newest first.
func (r *MemoryRepository) ListProducts(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Product(nil), r.products...), nil
}

// GetProduct fetches one product by ID.
func (r *MemoryRepository) GetProduct(ctx context.Context, id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

// ListAdjustments returns history entries, newest first.
func (r *MemoryRepository) ListAdjustments(ctx context.Context, filter HistoryFilter) ([]Adjustment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Adjustment
	for _, a := range r.adjustments {
		if !filter.From.IsZero() && a.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && a.CreatedAt.After(filter.To) {
			continue
		}
		out = append(out, a)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (tx *memoryTx) GetProductForUpdate(ctx context.Context, id string) (Product, error) {
	for _, p := range tx.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

func (tx *memoryTx) InsertProduct(ctx context.Context, product Product) error {
	tx.products = append([]Product{product}, tx.products...)
	return nil
}

func (tx *memoryTx) UpdateProduct(ctx context.Context, product Product) error {
	for i, p := range tx.products {
		if p.ID == product.ID {
			tx.products[i] = product
			return nil
		}
	}
	return ErrProductNotFound
}

func (tx *memoryTx) InsertAdjustment(ctx context.Context, adj Adjustment) error {
	tx.adjustments = append([]Adjustment{adj}, tx.adjustments...)
	return nil
}
