package reports

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/padoca-erp/padoca-erp/internal/ledger"
)

type mockLedger struct {
	products     []ledger.Product
	history      []ledger.Adjustment
	productCalls int
	historyCalls int
}

func (m *mockLedger) ListProducts(ctx context.Context) ([]ledger.Product, error) {
	m.productCalls++
	return m.products, nil
}

func (m *mockLedger) History(ctx context.Context, filter ledger.HistoryFilter) ([]ledger.Adjustment, error) {
	m.historyCalls++
	return m.history, nil
}

func newCachedService(t *testing.T, port LedgerPort) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(port, NewCache(client, time.Minute))
}

func TestShoppingListCachesUntilBump(t *testing.T) {
	port := &mockLedger{
		products: []ledger.Product{
			{ID: "1", Name: "Farinha de Trigo", Stock: 4, ReorderLevel: 10, AverageCost: 4.50},
		},
	}
	svc := newCachedService(t, port)
	ctx := context.Background()

	list, err := svc.ShoppingList(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, port.productCalls)

	// Second call should hit cache.
	_, err = svc.ShoppingList(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 1, port.productCalls)

	// Bumping the cache should trigger reload.
	require.NoError(t, svc.cache.Bump(ctx))
	port.products[0].Stock = 20
	list, err = svc.ShoppingList(ctx, false)
	require.NoError(t, err)
	require.Empty(t, list)
	require.Equal(t, 2, port.productCalls)
}

func TestDashboardKeyVariesByMonth(t *testing.T) {
	port := &mockLedger{
		products: []ledger.Product{{ID: "1", Name: "Ovos", Stock: 48, ReorderLevel: 60, AverageCost: 0.80}},
	}
	svc := newCachedService(t, port)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx, time.January, 2026)
	require.NoError(t, err)
	_, err = svc.Dashboard(ctx, time.February, 2026)
	require.NoError(t, err)
	require.Equal(t, 2, port.productCalls)

	// Same month again resolves from cache.
	_, err = svc.Dashboard(ctx, time.January, 2026)
	require.NoError(t, err)
	require.Equal(t, 2, port.productCalls)
}

func TestPassThroughWithoutRedis(t *testing.T) {
	port := &mockLedger{
		products: []ledger.Product{{ID: "1", Name: "Leite", Stock: 2, ReorderLevel: 10, AverageCost: 4.80}},
	}
	svc := NewService(port, nil)
	ctx := context.Background()

	for range 3 {
		_, err := svc.ShoppingList(ctx, false)
		require.NoError(t, err)
	}
	require.Equal(t, 3, port.productCalls)
}
