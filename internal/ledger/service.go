package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/padoca-erp/padoca-erp/internal/shared"
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates ledger operations.
type Service struct {
	repo        Repository
	audit       AuditPort
	integration IntegrationHandler
}

// NewService builds Service.
func NewService(repo Repository, audit AuditPort, integration IntegrationHandler) *Service {
	return &Service{repo: repo, audit: audit, integration: integration}
}

// AddProduct registers a new product. New items must start with stock on
// hand; callers reject zero initial stock before reaching here as well.
func (s *Service) AddProduct(ctx context.Context, input CreateProductInput) (Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Product{}, fmt.Errorf("ledger: product name required")
	}
	if input.Stock <= 0 {
		return Product{}, ErrInvalidQuantity
	}
	if input.ReorderLevel < 0 || input.AverageCost < 0 {
		return Product{}, ErrInvalidCost
	}
	now := time.Now().UTC()
	product := Product{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Stock:        input.Stock,
		ReorderLevel: input.ReorderLevel,
		AverageCost:  input.AverageCost,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.InsertProduct(ctx, product)
	})
	if err != nil {
		return Product{}, err
	}
	s.recordAudit(ctx, "ledger:product_created", product.ID, map[string]any{
		"name":  product.Name,
		"stock": product.Stock,
	})
	return product, nil
}

// UpdateProduct replaces the stored record matching product.ID in full.
// Unknown IDs fail with ErrProductNotFound instead of being silently ignored.
func (s *Service) UpdateProduct(ctx context.Context, product Product) (Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return Product{}, fmt.Errorf("ledger: product name required")
	}
	if product.Stock < 0 || product.ReorderLevel < 0 || product.AverageCost < 0 {
		return Product{}, ErrInvalidCost
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetProductForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		product.CreatedAt = current.CreatedAt
		product.UpdatedAt = time.Now().UTC()
		return tx.UpdateProduct(ctx, product)
	})
	if err != nil {
		return Product{}, err
	}
	s.recordAudit(ctx, "ledger:product_updated", product.ID, map[string]any{"name": product.Name})
	return product, nil
}

// AdjustStock applies a stock movement and appends exactly one history entry.
// The history append and the product mutation share one transaction: a
// missing product produces ErrProductNotFound and writes nothing.
func (s *Service) AdjustStock(ctx context.Context, productID string, input AdjustmentInput) (Product, Adjustment, error) {
	switch input.Type {
	case AdjustmentAdd, AdjustmentRemove:
		if input.Value <= 0 {
			return Product{}, Adjustment{}, ErrInvalidQuantity
		}
	case AdjustmentBalance:
		if input.Value < 0 {
			return Product{}, Adjustment{}, ErrInvalidQuantity
		}
	default:
		return Product{}, Adjustment{}, ErrInvalidType
	}
	if input.TotalPurchaseCost < 0 {
		return Product{}, Adjustment{}, ErrInvalidCost
	}

	now := time.Now().UTC()
	var (
		product Product
		adj     Adjustment
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.GetProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		adj = Adjustment{
			ID:                uuid.NewString(),
			ProductID:         p.ID,
			ProductName:       p.Name,
			Type:              input.Type,
			Value:             input.Value,
			TotalPurchaseCost: input.TotalPurchaseCost,
			SupplierID:        input.SupplierID,
			ExpirationDate:    input.ExpirationDate,
			CreatedAt:         now,
		}

		newStock := p.Stock
		newAvg := p.AverageCost
		switch input.Type {
		case AdjustmentAdd:
			newStock = p.Stock + input.Value
			// Weighted average: old inventory value plus the newly invested
			// capital over the new total stock. Free replenishment (no cost
			// supplied) does not dilute the cost basis.
			if input.TotalPurchaseCost > 0 && newStock > 0 {
				newAvg = (p.Stock*p.AverageCost + input.TotalPurchaseCost) / newStock
			}
		case AdjustmentRemove:
			if input.Value > p.Stock {
				return fmt.Errorf("%w: %s has %.2f, requested %.2f", ErrInsufficientStock, p.Name, p.Stock, input.Value)
			}
			newStock = p.Stock - input.Value
		case AdjustmentBalance:
			newStock = input.Value
		}
		// Floor at zero even though callers pre-validate.
		if newStock < 0 {
			newStock = 0
		}

		p.Stock = newStock
		p.AverageCost = newAvg
		p.UpdatedAt = now

		if err := tx.InsertAdjustment(ctx, adj); err != nil {
			return err
		}
		if err := tx.UpdateProduct(ctx, p); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return Product{}, Adjustment{}, err
	}

	s.recordAudit(ctx, fmt.Sprintf("ledger:%s", input.Type), product.ID, map[string]any{
		"product_name": adj.ProductName,
		"value":        input.Value,
		"stock":        product.Stock,
	})
	if s.integration != nil {
		evt := AdjustmentPostedEvent{
			AdjustmentID: adj.ID,
			ProductID:    product.ID,
			ProductName:  adj.ProductName,
			Type:         adj.Type,
			Value:        adj.Value,
			Stock:        product.Stock,
			AverageCost:  product.AverageCost,
			Status:       product.Status(),
			PostedAt:     now,
		}
		// The adjustment is already durable at this point. Subscribers log
		// their own failures; a broken hook must not turn the committed
		// movement into an error the caller would retry.
		_ = s.integration.HandleAdjustmentPosted(ctx, evt)
	}
	return product, adj, nil
}

// ListProducts returns products in insertion order, newest first.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.ListProducts(ctx)
}

// GetProduct fetches a single product.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	if id == "" {
		return Product{}, ErrProductNotFound
	}
	return s.repo.GetProduct(ctx, id)
}

// SortedProducts orders items ascending by stock/reorder ratio so the most
// urgent items come first. Items with reorder logic disabled sort last. The
// sort is stable: equal ratios keep their original relative order.
func (s *Service) SortedProducts(ctx context.Context) ([]Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].StockRatio() < products[j].StockRatio()
	})
	return products, nil
}

// History lists adjustments, newest first, optionally filtered by date range.
func (s *Service) History(ctx context.Context, filter HistoryFilter) ([]Adjustment, error) {
	return s.repo.ListAdjustments(ctx, filter)
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "product",
		EntityID: entityID,
		Meta:     meta,
	})
}
