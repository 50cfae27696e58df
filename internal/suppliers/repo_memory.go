package suppliers

import (
	"context"
	"sync"
)

// MemoryRepository keeps suppliers in process memory. Safe for concurrent use.
type MemoryRepository struct {
	mu        sync.RWMutex
	suppliers []Supplier // newest first
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) List(ctx context.Context) ([]Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Supplier(nil), r.suppliers...), nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.suppliers {
		if s.ID == id {
			return s, nil
		}
	}
	return Supplier{}, ErrSupplierNotFound
}

func (r *MemoryRepository) Insert(ctx context.Context, s Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers = append([]Supplier{s}, r.suppliers...)
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, s Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.suppliers {
		if existing.ID == s.ID {
			r.suppliers[i] = s
			return nil
		}
	}
	return ErrSupplierNotFound
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.suppliers {
		if s.ID == id {
			r.suppliers = append(r.suppliers[:i], r.suppliers[i+1:]...)
			return nil
		}
	}
	return ErrSupplierNotFound
}
