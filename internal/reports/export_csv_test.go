package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteShoppingListCSV(t *testing.T) {
	list := []ShoppingListItem{
		{Name: "Açúcar Cristal", Stock: 4, ReorderLevel: 10, TargetStock: 15, Amount: 11, EstimatedCost: 57.2},
		{Name: "Farinha de Trigo", Stock: 2, ReorderLevel: 8, TargetStock: 12, Amount: 10, EstimatedCost: 45},
	}
	var sb strings.Builder
	err := WriteShoppingListCSV(&sb, list, true, time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	out := sb.String()
	require.True(t, strings.HasPrefix(out, "# Report: Lista de Compras\r\n"))
	require.Contains(t, out, "Produto,Estoque,Ponto de Pedido,Estoque Alvo,Comprar,Custo Estimado")
	require.Contains(t, out, "Açúcar Cristal")
	// Money columns use pt-BR formatting.
	require.Contains(t, out, "57,20")
	require.Contains(t, out, "R$")
	// Totals row sums the estimated costs.
	require.Contains(t, out, "102,20")
}

func TestFormatBRL(t *testing.T) {
	got := formatBRL(1234.5)
	require.Contains(t, got, "R$")
	require.Contains(t, got, "1.234,50")
}
