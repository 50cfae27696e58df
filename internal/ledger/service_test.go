package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	return NewService(repo, nil, nil), repo
}

func addProduct(t *testing.T, svc *Service, name string, stock, reorder, cost float64) Product {
	t.Helper()
	p, err := svc.AddProduct(context.Background(), CreateProductInput{
		Name:         name,
		Stock:        stock,
		ReorderLevel: reorder,
		AverageCost:  cost,
	})
	require.NoError(t, err)
	return p
}

func TestWeightedAverageCost(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := addProduct(t, svc, "Farinha de Trigo", 10, 5, 4.00)

	// 10kg @ 4.00 on hand, buy 5kg for 30.00 total:
	// (10*4.00 + 30.00) / 15 = 4.6667
	updated, adj, err := svc.AdjustStock(ctx, p.ID, AdjustmentInput{
		Type:              AdjustmentAdd,
		Value:             5,
		TotalPurchaseCost: 30.00,
	})
	require.NoError(t, err)
	require.InDelta(t, 15.0, updated.Stock, 0.0001)
	require.InDelta(t, 4.6667, updated.AverageCost, 0.001)
	require.Equal(t, AdjustmentAdd, adj.Type)

	// Second purchase keeps compounding against the running average.
	updated, _, err = svc.AdjustStock(ctx, p.ID, AdjustmentInput{
		Type:              AdjustmentAdd,
		Value:             5,
		TotalPurchaseCost: 50.00,
	})
	require.NoError(t, err)
	require.InDelta(t, 20.0, updated.Stock, 0.0001)
	require.InDelta(t, (15*4.666666667+50.0)/20.0, updated.AverageCost, 0.001)
}

type failingHandler struct {
	calls int
}

func (f *failingHandler) HandleAdjustmentPosted(ctx context.Context, evt AdjustmentPostedEvent) error {
	f.calls++
	return errors.New("subscriber down")
}

func TestAdjustSucceedsWhenHookFails(t *testing.T) {
	repo := NewMemoryRepository()
	handler := &failingHandler{}
	svc := NewService(repo, nil, handler)
	ctx := context.Background()

	p := addProduct(t, svc, "Leite Integral", 10, 5, 4.80)

	// The movement commits before subscribers run; a failing hook must not
	// surface as an error, or a retrying client would remove stock twice.
	updated, adj, err := svc.AdjustStock(ctx, p.ID, AdjustmentInput{
		Type:  AdjustmentRemove,
		Value: 3,
	})
	require.NoError(t, err)
	require.Equal(t, 1, handler.calls)
	require.InDelta(t, 7.0, updated.Stock, 0.0001)
	require.Equal(t, AdjustmentRemove, adj.Type)

	stored, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.InDelta(t, 7.0, stored.Stock, 0.0001)

	history, err := svc.History(ctx, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestAddWithoutCostKeepsAverage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := addProduct(t, svc, "Ovos", 48, 60, 0.80)

	updated, _, err := svc.AdjustStock(ctx, p.ID, AdjustmentInput{Type: AdjustmentAdd, Value: 12})
	require.NoError(t, err)
	require.InDelta(t, 60.0, updated.Stock, 0.0001)
	require.InDelta(t, 0.80, updated.AverageCost, 0.0001)
}

func TestRemoveKeepsAverageAndValidatesStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := addProduct(t, svc, "Manteiga", 2200, 1000, 0.08)

	updated, _, err := svc.AdjustStock(ctx, p.ID, AdjustmentInput{Type: AdjustmentRemove, Value: 200})
	require.NoError(t, err)
	require.InDelta(t, 2000.0, updated.Stock, 0.0001)
	require.InDelta(t, 0.08, updated.AverageCost, 0.0001)

	_, _, err = svc.AdjustStock(ctx, p.ID, AdjustmentInput{Type: AdjustmentRemove, Value: 5000})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The rejected removal must not have touched stock or history.
	current, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.InDelta(t, 2000.0, current.Stock, 0.0001)
	history, err := svc.History(ctx, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestBalanceSetsAbsoluteStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := addProduct(t, svc, "Leite", 12, 10, 4.80)

	updated, _, err := svc.AdjustStock(ctx, p.ID, AdjustmentInput{Type: AdjustmentBalance, Value: 7})
	require.NoError(t, err)
	require.InDelta(t, 7.0, updated.Stock, 0.0001)
	require.InDelta(t, 4.80, updated.AverageCost, 0.0001)

	updated, _, err = svc.AdjustStock(ctx, p.ID, AdjustmentInput{Type: AdjustmentBalance, Value: 0})
	require.NoError(t, err)
	require.Zero(t, updated.Stock)
}

func TestAdjustUnknownProductWritesNothing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.AdjustStock(ctx, "missing", AdjustmentInput{Type: AdjustmentAdd, Value: 1})
	require.ErrorIs(t, err, ErrProductNotFound)

	history, err := svc.History(ctx, HistoryFilter{})
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestAdjustmentSnapshotsProductName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := addProduct(t, svc, "Chocolate em Pó", 1500, 800, 0.09)

	_, adj, err := svc.AdjustStock(ctx, p.ID, AdjustmentInput{Type: AdjustmentRemove, Value: 100})
	require.NoError(t, err)
	require.Equal(t, "Chocolate em Pó", adj.ProductName)

	p.Name = "Cacau em Pó 50%"
	_, err = svc.UpdateProduct(ctx, p)
	require.NoError(t, err)

	history, err := svc.History(ctx, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "Chocolate em Pó", history[0].ProductName)
}

func TestUpdateUnknownProductFails(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateProduct(context.Background(), Product{ID: "missing", Name: "x"})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestSortedProductsByUrgency(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	noReorder := addProduct(t, svc, "Decoração", 3, 0, 1.00)
	ok := addProduct(t, svc, "Açúcar", 8, 5, 5.20)      // ratio 1.6
	low := addProduct(t, svc, "Ovos", 48, 60, 0.80)     // ratio 0.8
	warn := addProduct(t, svc, "Leite", 12, 10, 4.80)   // ratio 1.2

	sorted, err := svc.SortedProducts(ctx)
	require.NoError(t, err)
	require.Len(t, sorted, 4)
	require.Equal(t, low.ID, sorted[0].ID)
	require.Equal(t, warn.ID, sorted[1].ID)
	require.Equal(t, ok.ID, sorted[2].ID)
	require.Equal(t, noReorder.ID, sorted[3].ID)
}

func TestAdjustRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := addProduct(t, svc, "Fermento", 450, 250, 0.03)

	_, _, err := svc.AdjustStock(ctx, p.ID, AdjustmentInput{Type: AdjustmentAdd, Value: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, _, err = svc.AdjustStock(ctx, p.ID, AdjustmentInput{Type: "transfer", Value: 1})
	require.ErrorIs(t, err, ErrInvalidType)

	_, _, err = svc.AdjustStock(ctx, p.ID, AdjustmentInput{Type: AdjustmentAdd, Value: 1, TotalPurchaseCost: -5})
	require.ErrorIs(t, err, ErrInvalidCost)
}
