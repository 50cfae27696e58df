package ledger

import "time"

// CreateProductRequest registers a new product. Initial stock must be
// positive; items are only registered once something is on the shelf.
type CreateProductRequest struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Description  string  `json:"description" validate:"max=1000"`
	Stock        float64 `json:"stock" validate:"gt=0"`
	ReorderLevel float64 `json:"reorder_level" validate:"gte=0"`
	AverageCost  float64 `json:"average_cost" validate:"gte=0"`
}

// UpdateProductRequest carries a full replacement record.
type UpdateProductRequest struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Description  string  `json:"description" validate:"max=1000"`
	Stock        float64 `json:"stock" validate:"gte=0"`
	ReorderLevel float64 `json:"reorder_level" validate:"gte=0"`
	AverageCost  float64 `json:"average_cost" validate:"gte=0"`
}

// AdjustStockRequest posts one stock movement.
type AdjustStockRequest struct {
	Type              string  `json:"type" validate:"required,oneof=add remove balance"`
	Value             float64 `json:"value" validate:"gte=0"`
	TotalPurchaseCost float64 `json:"total_purchase_cost" validate:"gte=0"`
	SupplierID        string  `json:"supplier_id" validate:"omitempty,max=64"`
	ExpirationDate    string  `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
}

// ProductResponse decorates a product with its derived stock status.
type ProductResponse struct {
	Product
	Status StockStatus `json:"status"`
}

// NewProductResponse builds the API representation of a product.
func NewProductResponse(p Product) ProductResponse {
	return ProductResponse{Product: p, Status: p.Status()}
}

// AdjustStockResponse returns the movement and the resulting product state.
type AdjustStockResponse struct {
	Product    ProductResponse `json:"product"`
	Adjustment Adjustment      `json:"adjustment"`
}

func (r AdjustStockRequest) toInput() (AdjustmentInput, error) {
	input := AdjustmentInput{
		Type:              AdjustmentType(r.Type),
		Value:             r.Value,
		TotalPurchaseCost: r.TotalPurchaseCost,
		SupplierID:        r.SupplierID,
	}
	if r.ExpirationDate != "" {
		expiry, err := time.ParseInLocation("2006-01-02", r.ExpirationDate, time.Local)
		if err != nil {
			return AdjustmentInput{}, err
		}
		input.ExpirationDate = expiry
	}
	return input, nil
}
