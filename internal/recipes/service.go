package recipes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/padoca-erp/padoca-erp/internal/ledger"
	"github.com/padoca-erp/padoca-erp/internal/shared"
)

// LedgerPort is the slice of the inventory ledger production needs.
type LedgerPort interface {
	GetProduct(ctx context.Context, id string) (ledger.Product, error)
	AdjustStock(ctx context.Context, productID string, input ledger.AdjustmentInput) (ledger.Product, ledger.Adjustment, error)
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates recipe CRUD and production runs.
type Service struct {
	repo  Repository
	stock LedgerPort
	audit AuditPort
}

// NewService builds Service.
func NewService(repo Repository, stock LedgerPort, audit AuditPort) *Service {
	return &Service{repo: repo, stock: stock, audit: audit}
}

// Create registers a new recipe.
func (s *Service) Create(ctx context.Context, input CreateRecipeInput) (Recipe, error) {
	if err := validateRecipe(input.Name, input.Ingredients); err != nil {
		return Recipe{}, err
	}
	now := time.Now().UTC()
	recipe := Recipe{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Instructions: input.Instructions,
		Ingredients:  input.Ingredients,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, recipe); err != nil {
		return Recipe{}, err
	}
	s.recordAudit(ctx, "recipes:created", recipe.ID, map[string]any{"name": recipe.Name})
	return recipe, nil
}

// Update replaces the stored recipe matching recipe.ID in full.
func (s *Service) Update(ctx context.Context, recipe Recipe) (Recipe, error) {
	if err := validateRecipe(recipe.Name, recipe.Ingredients); err != nil {
		return Recipe{}, err
	}
	current, err := s.repo.Get(ctx, recipe.ID)
	if err != nil {
		return Recipe{}, err
	}
	recipe.CreatedAt = current.CreatedAt
	recipe.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, recipe); err != nil {
		return Recipe{}, err
	}
	s.recordAudit(ctx, "recipes:updated", recipe.ID, map[string]any{"name": recipe.Name})
	return recipe, nil
}

// Delete removes a recipe.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, "recipes:deleted", id, nil)
	return nil
}

// List returns recipes, newest first.
func (s *Service) List(ctx context.Context) ([]Recipe, error) {
	return s.repo.List(ctx)
}

// Get fetches one recipe by ID.
func (s *Service) Get(ctx context.Context, id string) (Recipe, error) {
	if id == "" {
		return Recipe{}, ErrRecipeNotFound
	}
	return s.repo.Get(ctx, id)
}

// ListViews returns recipes with ingredient names resolved against the
// ledger, newest first.
func (s *Service) ListViews(ctx context.Context) ([]RecipeView, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		views = append(views, s.describe(ctx, recipe))
	}
	return views, nil
}

// GetView fetches one recipe with ingredient names resolved.
func (s *Service) GetView(ctx context.Context, id string) (RecipeView, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return RecipeView{}, err
	}
	return s.describe(ctx, recipe), nil
}

// describe resolves each ingredient's current product name. There is no
// referential integrity against the ledger, so dangling product IDs show up
// as UnknownIngredientName rather than failing the read.
func (s *Service) describe(ctx context.Context, recipe Recipe) RecipeView {
	view := RecipeView{
		ID:           recipe.ID,
		Name:         recipe.Name,
		Instructions: recipe.Instructions,
		Ingredients:  make([]IngredientView, 0, len(recipe.Ingredients)),
		CreatedAt:    recipe.CreatedAt,
		UpdatedAt:    recipe.UpdatedAt,
	}
	for _, ing := range recipe.Ingredients {
		name := UnknownIngredientName
		if product, err := s.stock.GetProduct(ctx, ing.ProductID); err == nil {
			name = product.Name
		}
		view.Ingredients = append(view.Ingredients, IngredientView{
			ProductID:   ing.ProductID,
			ProductName: name,
			Quantity:    ing.Quantity,
		})
	}
	return view
}

// Produce consumes ingredients for the given number of batches. The run is
// validated up-front: every ingredient must resolve to a ledger product with
// enough stock for quantity*batches, otherwise nothing is consumed. Only
// after the whole recipe clears does each ingredient get removed.
func (s *Service) Produce(ctx context.Context, recipeID string, batches float64) (ProductionResult, error) {
	if batches <= 0 {
		return ProductionResult{}, ErrInvalidBatches
	}
	recipe, err := s.repo.Get(ctx, recipeID)
	if err != nil {
		return ProductionResult{}, err
	}

	type draw struct {
		product  ledger.Product
		quantity float64
	}
	draws := make([]draw, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		product, err := s.stock.GetProduct(ctx, ing.ProductID)
		if err != nil {
			return ProductionResult{}, fmt.Errorf("%w: %s", ErrUnknownIngredient, ing.ProductID)
		}
		needed := ing.Quantity * batches
		if needed > product.Stock {
			return ProductionResult{}, fmt.Errorf("%w: %s has %.2f, needs %.2f",
				ledger.ErrInsufficientStock, product.Name, product.Stock, needed)
		}
		draws = append(draws, draw{product: product, quantity: needed})
	}

	result := ProductionResult{
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
		Batches:    batches,
		Consumed:   make([]ConsumedItem, 0, len(draws)),
		ProducedAt: time.Now().UTC(),
	}
	for _, d := range draws {
		_, _, err := s.stock.AdjustStock(ctx, d.product.ID, ledger.AdjustmentInput{
			Type:  ledger.AdjustmentRemove,
			Value: d.quantity,
		})
		if err != nil {
			return ProductionResult{}, err
		}
		result.Consumed = append(result.Consumed, ConsumedItem{
			ProductID:   d.product.ID,
			ProductName: d.product.Name,
			Quantity:    d.quantity,
		})
	}

	s.recordAudit(ctx, "recipes:produced", recipe.ID, map[string]any{
		"name":    recipe.Name,
		"batches": batches,
	})
	return result, nil
}

func validateRecipe(name string, ingredients []Ingredient) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("recipes: recipe name required")
	}
	for _, ing := range ingredients {
		if strings.TrimSpace(ing.ProductID) == "" || ing.Quantity <= 0 {
			return ErrInvalidIngredient
		}
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "recipe",
		EntityID: entityID,
		Meta:     meta,
	})
}
