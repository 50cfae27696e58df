package recipes

// IngredientRequest is one ingredient line in a recipe payload.
type IngredientRequest struct {
	ProductID string  `json:"product_id" validate:"required,max=64"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
}

// RecipeRequest carries a recipe create or full-replace payload.
type RecipeRequest struct {
	Name         string              `json:"name" validate:"required,max=120"`
	Instructions string              `json:"instructions" validate:"max=5000"`
	Ingredients  []IngredientRequest `json:"ingredients" validate:"dive"`
}

// ProduceRequest triggers a production run.
type ProduceRequest struct {
	Batches float64 `json:"batches" validate:"gt=0"`
}

func (r RecipeRequest) ingredients() []Ingredient {
	out := make([]Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		out = append(out, Ingredient{ProductID: ing.ProductID, Quantity: ing.Quantity})
	}
	return out
}
