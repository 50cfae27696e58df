package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padoca-erp/padoca-erp/internal/ledger"
	"github.com/padoca-erp/padoca-erp/internal/platform/db"
	"github.com/padoca-erp/padoca-erp/internal/recipes"
	"github.com/padoca-erp/padoca-erp/internal/suppliers"
)

// Repositories bundles the storage layer behind the configured driver.
type Repositories struct {
	Ledger    ledger.Repository
	Recipes   recipes.Repository
	Suppliers suppliers.Repository

	// Pool is non-nil only for the postgres driver.
	Pool *pgxpool.Pool
}

// Close releases driver resources.
func (r *Repositories) Close() {
	if r != nil && r.Pool != nil {
		r.Pool.Close()
	}
}

// BuildRepositories constructs the repository set for cfg.StorageDriver.
// The memory driver optionally seeds the demo dataset.
func BuildRepositories(ctx context.Context, cfg *Config, logger *slog.Logger) (*Repositories, error) {
	switch cfg.StorageDriver {
	case StorageMemory:
		repos := &Repositories{
			Ledger:    ledger.NewMemoryRepository(),
			Recipes:   recipes.NewMemoryRepository(),
			Suppliers: suppliers.NewMemoryRepository(),
		}
		if cfg.DemoData {
			if err := SeedDemoData(ctx, repos.Ledger, repos.Recipes, repos.Suppliers); err != nil {
				return nil, fmt.Errorf("seed demo data: %w", err)
			}
			logger.Info("seeded demo dataset", slog.String("driver", StorageMemory))
		}
		return repos, nil
	case StoragePostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Repositories{
			Ledger:    ledger.NewPostgresRepository(pool),
			Recipes:   recipes.NewPostgresRepository(pool),
			Suppliers: suppliers.NewPostgresRepository(pool),
			Pool:      pool,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
}
