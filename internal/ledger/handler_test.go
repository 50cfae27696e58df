package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (chi.Router, *Service) {
	t.Helper()
	svc := NewService(NewMemoryRepository(), nil, nil)
	handler := NewHandler(slog.Default(), svc, nil)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r, svc
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndAdjustOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/products", map[string]any{
		"name":          "Farinha de Trigo",
		"stock":         10,
		"reorder_level": 5,
		"average_cost":  4.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, StatusOK, created.Status)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/products/%s/adjustments", created.ID), map[string]any{
		"type":                "add",
		"value":               5,
		"total_purchase_cost": 30,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var adjusted AdjustStockResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &adjusted))
	require.InDelta(t, 15.0, adjusted.Product.Stock, 0.0001)
	require.InDelta(t, 4.6667, adjusted.Product.AverageCost, 0.001)
}

func TestCreateRejectsZeroInitialStock(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/products", map[string]any{
		"name":  "Ovos",
		"stock": 0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdjustMissingProductReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/products/missing/adjustments", map[string]any{
		"type":  "add",
		"value": 1,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOverRemovalReturnsConflict(t *testing.T) {
	router, svc := newTestRouter(t)
	p := addProduct(t, svc, "Leite", 5, 10, 4.80)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/products/%s/adjustments", p.ID), map[string]any{
		"type":  "remove",
		"value": 6,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestHistoryPagination(t *testing.T) {
	router, svc := newTestRouter(t)
	p := addProduct(t, svc, "Fermento", 500, 100, 0.03)
	for i := 0; i < 3; i++ {
		_, _, err := svc.AdjustStock(t.Context(), p.ID, AdjustmentInput{Type: AdjustmentRemove, Value: 10})
		require.NoError(t, err)
	}

	rec := doJSON(t, router, http.MethodGet, "/adjustments?page=1&per_page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Adjustments []Adjustment `json:"adjustments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Adjustments, 2)
}
