package reports

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/padoca-erp/padoca-erp/internal/platform/httpx"
)

// Handler exposes read-only report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/shopping-list", h.ShoppingList)
	r.Get("/shopping-list/export.csv", h.ShoppingListCSV)
	r.Get("/adjustments", h.Adjustments)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	month, year := now.Month(), now.Year()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid month, expected YYYY-MM")
			return
		}
		month, year = parsed.Month(), parsed.Year()
	}
	dashboard, err := h.service.Dashboard(r.Context(), month, year)
	if err != nil {
		h.respondError(w, "dashboard", err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

func (h *Handler) ShoppingList(w http.ResponseWriter, r *http.Request) {
	includeWarning := r.URL.Query().Get("include_warning") == "true"
	list, err := h.service.ShoppingList(r.Context(), includeWarning)
	if err != nil {
		h.respondError(w, "shopping list", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": list})
}

func (h *Handler) ShoppingListCSV(w http.ResponseWriter, r *http.Request) {
	includeWarning := r.URL.Query().Get("include_warning") == "true"
	list, err := h.service.ShoppingList(r.Context(), includeWarning)
	if err != nil {
		h.respondError(w, "shopping list export", err)
		return
	}
	now := time.Now()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="lista-de-compras-%s.csv"`, now.Format("2006-01-02")))
	if err := WriteShoppingListCSV(w, list, includeWarning, now); err != nil {
		h.logger.Error("shopping list export", slog.Any("error", err))
	}
}

func (h *Handler) Adjustments(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	report, err := h.service.Adjustments(r.Context(), from, to)
	if err != nil {
		h.respondError(w, "adjustment report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// parseDateRange reads the from/to query params. The range is inclusive on
// both ends; to covers its whole day. Defaults to the last 30 days.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		to = parsed.Add(24*time.Hour - time.Second)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to must not precede from")
	}
	return from, to, nil
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
