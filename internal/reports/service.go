package reports

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/padoca-erp/padoca-erp/internal/ledger"
)

const (
	expiringWindow  = 30 * 24 * time.Hour
	expiringSoonCap = 4
	topValueCap     = 5
	recentCap       = 10
	restockFactor   = 1.5
	attentionBand   = 1.2
)

// LedgerPort is the read slice of the inventory ledger reports consume.
type LedgerPort interface {
	ListProducts(ctx context.Context) ([]ledger.Product, error)
	History(ctx context.Context, filter ledger.HistoryFilter) ([]ledger.Adjustment, error)
}

// Service computes derived read models over the ledger. All reads flow
// through the versioned Redis cache; misses fall through to the ledger.
type Service struct {
	ledger   LedgerPort
	cache    *Cache
	collator *collate.Collator
}

// NewService builds Service.
func NewService(port LedgerPort, cache *Cache) *Service {
	return &Service{
		ledger:   port,
		cache:    cache,
		collator: collate.New(language.BrazilianPortuguese),
	}
}

// Dashboard aggregates the landing view for the given month ("2006-01").
// Product-derived and history-derived figures load concurrently.
func (s *Service) Dashboard(ctx context.Context, month time.Month, year int) (Dashboard, error) {
	monthKey := time.Date(year, month, 1, 0, 0, 0, 0, time.Local).Format("2006-01")
	key, err := s.cache.BuildKey(ctx, keyDashboard(monthKey))
	if err != nil {
		return Dashboard{}, err
	}
	var dashboard Dashboard
	err = s.cache.FetchJSON(ctx, key, &dashboard, func(ctx context.Context) (any, error) {
		return s.buildDashboard(ctx, month, year, monthKey)
	})
	return dashboard, err
}

func (s *Service) buildDashboard(ctx context.Context, month time.Month, year int, monthKey string) (Dashboard, error) {
	var (
		products []ledger.Product
		history  []ledger.Adjustment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.ledger.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.ledger.History(gctx, ledger.HistoryFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	dashboard := Dashboard{
		KPIs: DashboardKPIs{
			ProductVarieties: len(products),
			Month:            monthKey,
		},
		TopValue:       []ProductValue{},
		LowStock:       []ledger.Product{},
		RecentActivity: []ledger.Adjustment{},
		ExpiringSoon:   []ExpiringItem{},
	}

	values := make([]ProductValue, 0, len(products))
	for _, p := range products {
		value := p.Stock * p.AverageCost
		dashboard.KPIs.TotalInventoryValue += value
		if p.ReorderLevel > 0 && p.Stock < p.ReorderLevel*attentionBand {
			dashboard.KPIs.AttentionItems++
		}
		switch p.Status() {
		case ledger.StatusOK:
			dashboard.StatusBreakdown.OK++
		case ledger.StatusWarning:
			dashboard.StatusBreakdown.Warning++
		case ledger.StatusLow:
			dashboard.StatusBreakdown.Low++
		}
		if p.Status() == ledger.StatusLow {
			dashboard.LowStock = append(dashboard.LowStock, p)
		}
		values = append(values, ProductValue{ProductID: p.ID, Name: p.Name, Stock: p.Stock, Value: value})
	}

	sort.SliceStable(values, func(i, j int) bool { return values[i].Value > values[j].Value })
	if len(values) > topValueCap {
		values = values[:topValueCap]
	}
	dashboard.TopValue = values

	dashboard.KPIs.MonthlyInvestment = monthlyInvestment(history, month, year)
	dashboard.RecentActivity = history
	if len(dashboard.RecentActivity) > recentCap {
		dashboard.RecentActivity = dashboard.RecentActivity[:recentCap]
	}
	dashboard.ExpiringSoon = expiringSoon(history, time.Now())
	return dashboard, nil
}

// monthlyInvestment sums purchase costs of add movements in the given month.
func monthlyInvestment(history []ledger.Adjustment, month time.Month, year int) float64 {
	var total float64
	for _, adj := range history {
		if adj.Type != ledger.AdjustmentAdd || adj.TotalPurchaseCost <= 0 {
			continue
		}
		if adj.CreatedAt.Month() == month && adj.CreatedAt.Year() == year {
			total += adj.TotalPurchaseCost
		}
	}
	return total
}

// expiringSoon picks purchased lots expiring within the next 30 days,
// soonest first, capped at four entries.
func expiringSoon(history []ledger.Adjustment, now time.Time) []ExpiringItem {
	cutoff := now.Add(expiringWindow)
	items := []ExpiringItem{}
	for _, adj := range history {
		if adj.Type != ledger.AdjustmentAdd || adj.ExpirationDate.IsZero() {
			continue
		}
		if adj.ExpirationDate.Before(now) || adj.ExpirationDate.After(cutoff) {
			continue
		}
		items = append(items, ExpiringItem{
			ProductID:      adj.ProductID,
			ProductName:    adj.ProductName,
			Value:          adj.TotalPurchaseCost,
			ExpirationDate: adj.ExpirationDate,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ExpirationDate.Before(items[j].ExpirationDate)
	})
	if len(items) > expiringSoonCap {
		items = items[:expiringSoonCap]
	}
	return items
}

// ShoppingList suggests purchases for products at or below the reorder
// level; includeWarning widens the net to the warning band. Items sort by
// name with Brazilian Portuguese collation.
func (s *Service) ShoppingList(ctx context.Context, includeWarning bool) ([]ShoppingListItem, error) {
	key, err := s.cache.BuildKey(ctx, keyShoppingList(includeWarning))
	if err != nil {
		return nil, err
	}
	var list []ShoppingListItem
	err = s.cache.FetchJSON(ctx, key, &list, func(ctx context.Context) (any, error) {
		return s.buildShoppingList(ctx, includeWarning)
	})
	return list, err
}

func (s *Service) buildShoppingList(ctx context.Context, includeWarning bool) ([]ShoppingListItem, error) {
	products, err := s.ledger.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	list := []ShoppingListItem{}
	for _, p := range products {
		if p.ReorderLevel <= 0 {
			continue
		}
		needed := p.Stock < p.ReorderLevel
		if !needed && includeWarning {
			needed = p.Stock <= p.ReorderLevel*attentionBand
		}
		if !needed {
			continue
		}
		target := math.Ceil(p.ReorderLevel * restockFactor)
		amount := math.Max(0, target-p.Stock)
		list = append(list, ShoppingListItem{
			ProductID:     p.ID,
			Name:          p.Name,
			Stock:         p.Stock,
			ReorderLevel:  p.ReorderLevel,
			TargetStock:   target,
			Amount:        amount,
			EstimatedCost: amount * p.AverageCost,
			Status:        p.Status(),
		})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return s.collator.CompareString(list[i].Name, list[j].Name) < 0
	})
	return list, nil
}

// Adjustments reports ledger movements over an inclusive local date range.
func (s *Service) Adjustments(ctx context.Context, from, to time.Time) (AdjustmentReport, error) {
	key, err := s.cache.BuildKey(ctx, keyAdjustments(from.Format("2006-01-02"), to.Format("2006-01-02")))
	if err != nil {
		return AdjustmentReport{}, err
	}
	var report AdjustmentReport
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (any, error) {
		return s.buildAdjustments(ctx, from, to)
	})
	return report, err
}

func (s *Service) buildAdjustments(ctx context.Context, from, to time.Time) (AdjustmentReport, error) {
	history, err := s.ledger.History(ctx, ledger.HistoryFilter{From: from, To: to})
	if err != nil {
		return AdjustmentReport{}, err
	}
	report := AdjustmentReport{From: from, To: to, Adjustments: history}
	for _, adj := range history {
		switch adj.Type {
		case ledger.AdjustmentAdd:
			report.TotalAdded += adj.Value
			report.TotalInvested += adj.TotalPurchaseCost
		case ledger.AdjustmentRemove:
			report.TotalRemoved += adj.Value
		}
	}
	return report, nil
}
