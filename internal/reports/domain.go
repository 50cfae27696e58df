package reports

import (
	"time"

	"github.com/padoca-erp/padoca-erp/internal/ledger"
)

// DashboardKPIs are the headline figures for the landing dashboard.
type DashboardKPIs struct {
	TotalInventoryValue float64 `json:"total_inventory_value"`
	AttentionItems      int     `json:"attention_items"`
	ProductVarieties    int     `json:"product_varieties"`
	MonthlyInvestment   float64 `json:"monthly_investment"`
	Month               string  `json:"month"`
}

// StatusBreakdown counts products per stock status.
type StatusBreakdown struct {
	OK      int `json:"ok"`
	Warning int `json:"warning"`
	Low     int `json:"low"`
}

// ProductValue ranks a product by the capital tied up in its stock.
type ProductValue struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Stock     float64 `json:"stock"`
	Value     float64 `json:"value"`
}

// ExpiringItem is a purchased lot approaching its expiration date.
type ExpiringItem struct {
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Value          float64   `json:"value"`
	ExpirationDate time.Time `json:"expiration_date"`
}

// Dashboard is the aggregated landing view.
type Dashboard struct {
	KPIs            DashboardKPIs       `json:"kpis"`
	StatusBreakdown StatusBreakdown     `json:"status_breakdown"`
	TopValue        []ProductValue      `json:"top_value"`
	LowStock        []ledger.Product    `json:"low_stock"`
	RecentActivity  []ledger.Adjustment `json:"recent_activity"`
	ExpiringSoon    []ExpiringItem      `json:"expiring_soon"`
}

// ShoppingListItem is one suggested purchase line. Target restocks to 1.5x
// the reorder level, rounded up.
type ShoppingListItem struct {
	ProductID     string             `json:"product_id"`
	Name          string             `json:"name"`
	Stock         float64            `json:"stock"`
	ReorderLevel  float64            `json:"reorder_level"`
	TargetStock   float64            `json:"target_stock"`
	Amount        float64            `json:"amount"`
	EstimatedCost float64            `json:"estimated_cost"`
	Status        ledger.StockStatus `json:"status"`
}

// AdjustmentReport summarises ledger movements over a date range.
type AdjustmentReport struct {
	From          time.Time           `json:"from"`
	To            time.Time           `json:"to"`
	Adjustments   []ledger.Adjustment `json:"adjustments"`
	TotalAdded    float64             `json:"total_added"`
	TotalRemoved  float64             `json:"total_removed"`
	TotalInvested float64             `json:"total_invested"`
}
