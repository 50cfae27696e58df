package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		name    string
		stock   float64
		reorder float64
		want    StockStatus
	}{
		{"below reorder", 9, 10, StatusLow},
		{"exactly at reorder", 10, 10, StatusWarning},
		{"inside warning band", 11.5, 10, StatusWarning},
		{"at band edge", 12, 10, StatusWarning},
		{"above band", 13, 10, StatusOK},
		{"reorder disabled", 0, 0, StatusOK},
		{"reorder disabled with stock", 100, 0, StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Stock: tc.stock, ReorderLevel: tc.reorder}
			require.Equal(t, tc.want, p.Status())
		})
	}
}

func TestStockRatio(t *testing.T) {
	require.InDelta(t, 0.5, Product{Stock: 5, ReorderLevel: 10}.StockRatio(), 0.0001)
	require.True(t, math.IsInf(Product{Stock: 5, ReorderLevel: 0}.StockRatio(), 1))
}
