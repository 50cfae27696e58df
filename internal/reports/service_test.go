package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/padoca-erp/padoca-erp/internal/ledger"
)

func newReportFixture(t *testing.T) (*Service, *ledger.Service) {
	t.Helper()
	stock := ledger.NewService(ledger.NewMemoryRepository(), nil, nil)
	return NewService(stock, nil), stock
}

func seedProduct(t *testing.T, stock *ledger.Service, name string, qty, reorder, cost float64) ledger.Product {
	t.Helper()
	p, err := stock.AddProduct(context.Background(), ledger.CreateProductInput{
		Name: name, Stock: qty, ReorderLevel: reorder, AverageCost: cost,
	})
	require.NoError(t, err)
	return p
}

func TestShoppingListTargetsAndFilter(t *testing.T) {
	svc, stock := newReportFixture(t)
	ctx := context.Background()

	seedProduct(t, stock, "Farinha de Trigo", 4, 10, 4.50)  // low
	seedProduct(t, stock, "Leite", 12, 10, 4.80)            // warning (ratio 1.2)
	seedProduct(t, stock, "Açúcar", 20, 10, 5.20)           // ok
	seedProduct(t, stock, "Decoração", 1, 0, 1.00)          // reorder disabled

	list, err := svc.ShoppingList(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Farinha de Trigo", list[0].Name)
	// target = ceil(10*1.5) = 15, amount = 15-4 = 11
	require.InDelta(t, 15.0, list[0].TargetStock, 0.0001)
	require.InDelta(t, 11.0, list[0].Amount, 0.0001)
	require.InDelta(t, 11*4.50, list[0].EstimatedCost, 0.0001)

	wide, err := svc.ShoppingList(ctx, true)
	require.NoError(t, err)
	require.Len(t, wide, 2)
	// pt-BR collation sorts by name.
	require.Equal(t, "Farinha de Trigo", wide[0].Name)
	require.Equal(t, "Leite", wide[1].Name)
}

func TestShoppingListWarningBandBoundary(t *testing.T) {
	svc, stock := newReportFixture(t)
	ctx := context.Background()

	seedProduct(t, stock, "Fermento", 12, 10, 0.03)    // exactly at the 1.2 band
	seedProduct(t, stock, "Manteiga", 12.01, 10, 0.08) // just above it

	list, err := svc.ShoppingList(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Fermento", list[0].Name)
	require.InDelta(t, 3.0, list[0].Amount, 0.0001) // 15 - 12
}

func TestDashboardKPIs(t *testing.T) {
	svc, stock := newReportFixture(t)
	ctx := context.Background()

	flour := seedProduct(t, stock, "Farinha de Trigo", 10, 5, 4.00) // value 40, ok (ratio 2)
	seedProduct(t, stock, "Ovos", 48, 60, 0.80)                    // value 38.4, low
	seedProduct(t, stock, "Leite", 12, 10, 4.80)                   // value 57.6, warning

	_, _, err := stock.AdjustStock(ctx, flour.ID, ledger.AdjustmentInput{
		Type: ledger.AdjustmentAdd, Value: 5, TotalPurchaseCost: 30,
	})
	require.NoError(t, err)

	now := time.Now()
	dashboard, err := svc.Dashboard(ctx, now.Month(), now.Year())
	require.NoError(t, err)

	// Flour after purchase: 15 units at (10*4+30)/15 = 4.6667 => value 70.
	require.InDelta(t, 70.0+38.4+57.6, dashboard.KPIs.TotalInventoryValue, 0.01)
	require.Equal(t, 3, dashboard.KPIs.ProductVarieties)
	require.Equal(t, 2, dashboard.KPIs.AttentionItems) // eggs low, milk at 1.2 band edge is not < 12
	require.InDelta(t, 30.0, dashboard.KPIs.MonthlyInvestment, 0.0001)

	require.Equal(t, 1, dashboard.StatusBreakdown.OK)
	require.Equal(t, 1, dashboard.StatusBreakdown.Warning)
	require.Equal(t, 1, dashboard.StatusBreakdown.Low)

	require.Len(t, dashboard.LowStock, 1)
	require.Equal(t, "Ovos", dashboard.LowStock[0].Name)

	require.NotEmpty(t, dashboard.TopValue)
	require.Equal(t, "Farinha de Trigo", dashboard.TopValue[0].Name)

	require.Len(t, dashboard.RecentActivity, 1)
}

func TestExpiringSoonWindowAndCap(t *testing.T) {
	now := time.Now()
	mk := func(name string, daysOut int, cost float64) ledger.Adjustment {
		return ledger.Adjustment{
			Type:              ledger.AdjustmentAdd,
			ProductName:       name,
			TotalPurchaseCost: cost,
			ExpirationDate:    now.AddDate(0, 0, daysOut),
		}
	}
	history := []ledger.Adjustment{
		mk("A", 40, 10), // outside window
		mk("B", 5, 20),
		mk("C", 2, 30),
		mk("D", 20, 40),
		mk("E", 10, 50),
		mk("F", 15, 60),
		{Type: ledger.AdjustmentRemove, ProductName: "G", ExpirationDate: now.AddDate(0, 0, 3)},
		{Type: ledger.AdjustmentAdd, ProductName: "H"}, // no expiry
	}

	items := expiringSoon(history, now)
	require.Len(t, items, 4)
	require.Equal(t, "C", items[0].ProductName)
	require.Equal(t, "B", items[1].ProductName)
	require.Equal(t, "E", items[2].ProductName)
	require.Equal(t, "F", items[3].ProductName)
}

func TestAdjustmentReportTotals(t *testing.T) {
	svc, stock := newReportFixture(t)
	ctx := context.Background()

	p := seedProduct(t, stock, "Farinha de Trigo", 10, 5, 4.00)
	_, _, err := stock.AdjustStock(ctx, p.ID, ledger.AdjustmentInput{Type: ledger.AdjustmentAdd, Value: 5, TotalPurchaseCost: 30})
	require.NoError(t, err)
	_, _, err = stock.AdjustStock(ctx, p.ID, ledger.AdjustmentInput{Type: ledger.AdjustmentRemove, Value: 3})
	require.NoError(t, err)
	_, _, err = stock.AdjustStock(ctx, p.ID, ledger.AdjustmentInput{Type: ledger.AdjustmentBalance, Value: 11})
	require.NoError(t, err)

	now := time.Now()
	report, err := svc.Adjustments(ctx, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, report.Adjustments, 3)
	require.InDelta(t, 5.0, report.TotalAdded, 0.0001)
	require.InDelta(t, 3.0, report.TotalRemoved, 0.0001)
	require.InDelta(t, 30.0, report.TotalInvested, 0.0001)
}
