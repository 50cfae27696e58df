package recipes

import "context"

// Repository abstracts recipe persistence.
type Repository interface {
	List(ctx context.Context) ([]Recipe, error)
	Get(ctx context.Context, id string) (Recipe, error)
	Insert(ctx context.Context, r Recipe) error
	Update(ctx context.Context, r Recipe) error
	Delete(ctx context.Context, id string) error
}
