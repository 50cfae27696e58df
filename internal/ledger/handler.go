package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/padoca-erp/padoca-erp/internal/observability"
	"github.com/padoca-erp/padoca-erp/internal/platform/httpx"
	"github.com/padoca-erp/padoca-erp/internal/shared"
)

// Handler exposes the ledger over JSON HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	metrics  *observability.Metrics
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
		metrics:  metrics,
	}
}

// MountRoutes attaches inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/sorted", h.Sorted)
	r.Post("/products", h.Create)
	r.Get("/products/{id}", h.Show)
	r.Put("/products/{id}", h.Update)
	r.Post("/products/{id}/adjustments", h.Adjust)
	r.Get("/adjustments", h.History)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.respondError(w, "list products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": toResponses(products)})
}

func (h *Handler) Sorted(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.SortedProducts(r.Context())
	if err != nil {
		h.respondError(w, "sort products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": toResponses(products)})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewProductResponse(product))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.AddProduct(r.Context(), CreateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Stock:        req.Stock,
		ReorderLevel: req.ReorderLevel,
		AverageCost:  req.AverageCost,
	})
	if err != nil {
		h.respondError(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, NewProductResponse(product))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.UpdateProduct(r.Context(), Product{
		ID:           chi.URLParam(r, "id"),
		Name:         req.Name,
		Description:  req.Description,
		Stock:        req.Stock,
		ReorderLevel: req.ReorderLevel,
		AverageCost:  req.AverageCost,
	})
	if err != nil {
		h.respondError(w, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewProductResponse(product))
}

func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustStockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid expiration date")
		return
	}
	product, adj, err := h.service.AdjustStock(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.respondError(w, "adjust stock", err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountAdjustment(string(adj.Type))
	}
	httpx.JSON(w, http.StatusCreated, AdjustStockResponse{
		Product:    NewProductResponse(product),
		Adjustment: adj,
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	filter, err := parseHistoryFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	history, err := h.service.History(r.Context(), filter)
	if err != nil {
		h.respondError(w, "list adjustments", err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := shared.NewPagination(page, perPage, len(history))
	start := (pagination.Page - 1) * pagination.PerPage
	if start > len(history) {
		start = len(history)
	}
	end := start + pagination.PerPage
	if end > len(history) {
		end = len(history)
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"adjustments": history[start:end],
		"pagination":  pagination,
	})
}

// parseHistoryFilter reads from/to date query params. The range is inclusive:
// from starts at local midnight and to covers the whole day.
func parseHistoryFilter(r *http.Request) (HistoryFilter, error) {
	var filter HistoryFilter
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return HistoryFilter{}, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		filter.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return HistoryFilter{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		filter.To = to.Add(24*time.Hour - time.Second)
	}
	return filter, nil
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidCost), errors.Is(err, ErrInvalidType):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func toResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}
