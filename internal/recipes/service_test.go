package recipes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padoca-erp/padoca-erp/internal/ledger"
)

func newProductionFixture(t *testing.T) (*Service, *ledger.Service, ledger.Product, ledger.Product) {
	t.Helper()
	ctx := context.Background()
	stock := ledger.NewService(ledger.NewMemoryRepository(), nil, nil)

	flour, err := stock.AddProduct(ctx, ledger.CreateProductInput{Name: "Farinha de Trigo", Stock: 10, ReorderLevel: 5, AverageCost: 4.50})
	require.NoError(t, err)
	eggs, err := stock.AddProduct(ctx, ledger.CreateProductInput{Name: "Ovos", Stock: 30, ReorderLevel: 12, AverageCost: 0.80})
	require.NoError(t, err)

	return NewService(NewMemoryRepository(), stock, nil), stock, flour, eggs
}

func TestProduceConsumesIngredients(t *testing.T) {
	svc, stock, flour, eggs := newProductionFixture(t)
	ctx := context.Background()

	recipe, err := svc.Create(ctx, CreateRecipeInput{
		Name: "Bolo de Cenoura",
		Ingredients: []Ingredient{
			{ProductID: flour.ID, Quantity: 0.5},
			{ProductID: eggs.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	result, err := svc.Produce(ctx, recipe.ID, 2)
	require.NoError(t, err)
	require.Equal(t, "Bolo de Cenoura", result.RecipeName)
	require.Len(t, result.Consumed, 2)
	require.InDelta(t, 1.0, result.Consumed[0].Quantity, 0.0001)
	require.InDelta(t, 6.0, result.Consumed[1].Quantity, 0.0001)

	gotFlour, err := stock.GetProduct(ctx, flour.ID)
	require.NoError(t, err)
	require.InDelta(t, 9.0, gotFlour.Stock, 0.0001)
	gotEggs, err := stock.GetProduct(ctx, eggs.ID)
	require.NoError(t, err)
	require.InDelta(t, 24.0, gotEggs.Stock, 0.0001)

	// Each ingredient leaves one remove entry in the ledger history.
	history, err := stock.History(ctx, ledger.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, adj := range history {
		require.Equal(t, ledger.AdjustmentRemove, adj.Type)
	}
}

func TestProduceRejectsInsufficientStockBeforeConsuming(t *testing.T) {
	svc, stock, flour, eggs := newProductionFixture(t)
	ctx := context.Background()

	recipe, err := svc.Create(ctx, CreateRecipeInput{
		Name: "Pão de Forma",
		Ingredients: []Ingredient{
			{ProductID: flour.ID, Quantity: 1},
			{ProductID: eggs.ID, Quantity: 40}, // more than on hand
		},
	})
	require.NoError(t, err)

	_, err = svc.Produce(ctx, recipe.ID, 1)
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)

	// The first ingredient must not have been drawn.
	gotFlour, err := stock.GetProduct(ctx, flour.ID)
	require.NoError(t, err)
	require.InDelta(t, 10.0, gotFlour.Stock, 0.0001)
	history, err := stock.History(ctx, ledger.HistoryFilter{})
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestProduceRejectsUnknownIngredient(t *testing.T) {
	svc, stock, flour, _ := newProductionFixture(t)
	ctx := context.Background()

	recipe, err := svc.Create(ctx, CreateRecipeInput{
		Name: "Sonho",
		Ingredients: []Ingredient{
			{ProductID: flour.ID, Quantity: 1},
			{ProductID: "deleted-product", Quantity: 2},
		},
	})
	require.NoError(t, err)

	_, err = svc.Produce(ctx, recipe.ID, 1)
	require.ErrorIs(t, err, ErrUnknownIngredient)

	history, err := stock.History(ctx, ledger.HistoryFilter{})
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestProduceValidatesBatches(t *testing.T) {
	svc, _, flour, _ := newProductionFixture(t)
	ctx := context.Background()

	recipe, err := svc.Create(ctx, CreateRecipeInput{
		Name:        "Broa de Milho",
		Ingredients: []Ingredient{{ProductID: flour.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Produce(ctx, recipe.ID, 0)
	require.ErrorIs(t, err, ErrInvalidBatches)
	_, err = svc.Produce(ctx, "missing", 1)
	require.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestReadViewsResolveIngredientNames(t *testing.T) {
	svc, _, flour, _ := newProductionFixture(t)
	ctx := context.Background()

	recipe, err := svc.Create(ctx, CreateRecipeInput{
		Name: "Rabanada",
		Ingredients: []Ingredient{
			{ProductID: flour.ID, Quantity: 0.3},
			{ProductID: "deleted-product", Quantity: 1},
		},
	})
	require.NoError(t, err)

	view, err := svc.GetView(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, view.Ingredients, 2)
	require.Equal(t, "Farinha de Trigo", view.Ingredients[0].ProductName)
	require.Equal(t, UnknownIngredientName, view.Ingredients[1].ProductName)

	// Dangling ingredients must not fail the listing either.
	views, err := svc.ListViews(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, UnknownIngredientName, views[0].Ingredients[1].ProductName)
}

func TestRecipeCRUD(t *testing.T) {
	svc, _, flour, _ := newProductionFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRecipeInput{
		Name:         "Pão Francês",
		Instructions: "Sovar, descansar 2h, assar a 220C.",
		Ingredients:  []Ingredient{{ProductID: flour.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	created.Name = "Pão Francês Tradicional"
	updated, err := svc.Update(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "Pão Francês Tradicional", updated.Name)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = svc.Create(ctx, CreateRecipeInput{
		Name:        "Inválida",
		Ingredients: []Ingredient{{ProductID: "", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrInvalidIngredient)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrRecipeNotFound)
}
