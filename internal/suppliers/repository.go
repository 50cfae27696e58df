package suppliers

import "context"

// Repository abstracts supplier persistence.
type Repository interface {
	List(ctx context.Context) ([]Supplier, error)
	Get(ctx context.Context, id string) (Supplier, error)
	Insert(ctx context.Context, s Supplier) error
	Update(ctx context.Context, s Supplier) error
	Delete(ctx context.Context, id string) error
}
