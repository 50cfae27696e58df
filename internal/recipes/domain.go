package recipes

import (
	"errors"
	"time"
)

// Ingredient ties a recipe to a ledger product by ID. There is no
// referential integrity enforced at write time; a product deleted or never
// registered simply shows up as unknown when the recipe is read or produced.
type Ingredient struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// Recipe is a production formula for one batch of a finished good.
type Recipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Instructions string       `json:"instructions,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IngredientView is an ingredient line enriched with the current ledger
// product name for read views.
type IngredientView struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
}

// RecipeView is the read model of a recipe. Ingredients whose product no
// longer exists in the ledger carry UnknownIngredientName.
type RecipeView struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Instructions string           `json:"instructions,omitempty"`
	Ingredients  []IngredientView `json:"ingredients"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// UnknownIngredientName labels a dangling ingredient in read views.
const UnknownIngredientName = "unknown ingredient"

// CreateRecipeInput describes a new recipe registration.
type CreateRecipeInput struct {
	Name         string
	Instructions string
	Ingredients  []Ingredient
}

// ProductionResult reports what one production run consumed.
type ProductionResult struct {
	RecipeID   string         `json:"recipe_id"`
	RecipeName string         `json:"recipe_name"`
	Batches    float64        `json:"batches"`
	Consumed   []ConsumedItem `json:"consumed"`
	ProducedAt time.Time      `json:"produced_at"`
}

// ConsumedItem is one ingredient draw from the ledger.
type ConsumedItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
}

// ErrRecipeNotFound indicates the requested recipe does not exist.
var ErrRecipeNotFound = errors.New("recipes: recipe not found")

// ErrInvalidIngredient indicates an ingredient with a missing product ID or
// non-positive quantity.
var ErrInvalidIngredient = errors.New("recipes: ingredient needs a product and a positive quantity")

// ErrInvalidBatches indicates a non-positive batch count for production.
var ErrInvalidBatches = errors.New("recipes: batches must be positive")

// ErrUnknownIngredient indicates a recipe ingredient that no longer matches a
// ledger product at production time.
var ErrUnknownIngredient = errors.New("recipes: ingredient product not found in ledger")
