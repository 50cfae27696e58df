package suppliers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSupplierLifecycle(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSupplierInput{
		Name:          "Moinho São Jorge",
		ContactPerson: "Dona Cida",
		Phone:         "(11) 3333-1000",
		Email:         "vendas@moinhosj.com.br",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	created.Phone = "(11) 3333-2000"
	updated, err := svc.Update(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "(11) 3333-2000", updated.Phone)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrSupplierNotFound)
}

func TestSupplierValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateSupplierInput{Name: "   "})
	require.Error(t, err)

	_, err = svc.Update(ctx, Supplier{ID: "missing", Name: "Laticínios Vale"})
	require.ErrorIs(t, err, ErrSupplierNotFound)

	require.ErrorIs(t, svc.Delete(ctx, "missing"), ErrSupplierNotFound)
}

func TestSuppliersNewestFirst(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateSupplierInput{Name: "Moinho São Jorge"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateSupplierInput{Name: "Laticínios Vale"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
}
