package recipes

import (
	"context"
	"sync"
)

// MemoryRepository keeps recipes in process memory. Safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	recipes []Recipe // newest first
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) List(ctx context.Context) ([]Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Recipe, len(r.recipes))
	for i, rec := range r.recipes {
		out[i] = cloneRecipe(rec)
	}
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.recipes {
		if rec.ID == id {
			return cloneRecipe(rec), nil
		}
	}
	return Recipe{}, ErrRecipeNotFound
}

func (r *MemoryRepository) Insert(ctx context.Context, rec Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes = append([]Recipe{cloneRecipe(rec)}, r.recipes...)
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, rec Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.recipes {
		if existing.ID == rec.ID {
			r.recipes[i] = cloneRecipe(rec)
			return nil
		}
	}
	return ErrRecipeNotFound
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.recipes {
		if rec.ID == id {
			r.recipes = append(r.recipes[:i], r.recipes[i+1:]...)
			return nil
		}
	}
	return ErrRecipeNotFound
}

// cloneRecipe copies the ingredient slice so callers cannot mutate stored
// state through a returned recipe.
func cloneRecipe(rec Recipe) Recipe {
	rec.Ingredients = append([]Ingredient(nil), rec.Ingredients...)
	return rec
}
