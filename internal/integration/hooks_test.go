package integration

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padoca-erp/padoca-erp/internal/ledger"
)

type fakeCache struct {
	bumps int
	err   error
}

func (f *fakeCache) Bump(ctx context.Context) error {
	f.bumps++
	return f.err
}

func TestAdjustmentBumpsReportCache(t *testing.T) {
	cache := &fakeCache{}
	hooks := NewHooks(cache, nil, nil)

	err := hooks.HandleAdjustmentPosted(context.Background(), ledger.AdjustmentPostedEvent{
		ProductID: "p1",
		Type:      ledger.AdjustmentAdd,
		Status:    ledger.StatusOK,
	})
	require.NoError(t, err)
	require.Equal(t, 1, cache.bumps)
}

func TestCacheBumpFailureIsSwallowed(t *testing.T) {
	cache := &fakeCache{err: errors.New("redis gone")}
	hooks := NewHooks(cache, nil, slog.Default())

	err := hooks.HandleAdjustmentPosted(context.Background(), ledger.AdjustmentPostedEvent{
		ProductID: "p1",
		Type:      ledger.AdjustmentRemove,
		Status:    ledger.StatusOK,
	})
	require.NoError(t, err)
	require.Equal(t, 1, cache.bumps)
}

func TestNilDependenciesAreNoops(t *testing.T) {
	hooks := NewHooks(nil, nil, nil)
	err := hooks.HandleAdjustmentPosted(context.Background(), ledger.AdjustmentPostedEvent{
		Status: ledger.StatusLow,
	})
	require.NoError(t, err)
}
