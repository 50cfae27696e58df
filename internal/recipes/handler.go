package recipes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/padoca-erp/padoca-erp/internal/ledger"
	"github.com/padoca-erp/padoca-erp/internal/platform/httpx"
)

// Handler exposes recipes and production over JSON HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches recipe routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/produce", h.Produce)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListViews(r.Context())
	if err != nil {
		h.respondError(w, "list recipes", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"recipes": list})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.service.GetView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get recipe", err)
		return
	}
	httpx.JSON(w, http.StatusOK, recipe)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	recipe, err := h.service.Create(r.Context(), CreateRecipeInput{
		Name:         req.Name,
		Instructions: req.Instructions,
		Ingredients:  req.ingredients(),
	})
	if err != nil {
		h.respondError(w, "create recipe", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, recipe)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	recipe, err := h.service.Update(r.Context(), Recipe{
		ID:           chi.URLParam(r, "id"),
		Name:         req.Name,
		Instructions: req.Instructions,
		Ingredients:  req.ingredients(),
	})
	if err != nil {
		h.respondError(w, "update recipe", err)
		return
	}
	httpx.JSON(w, http.StatusOK, recipe)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, "delete recipe", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Produce(w http.ResponseWriter, r *http.Request) {
	var req ProduceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.Produce(r.Context(), chi.URLParam(r, "id"), req.Batches)
	if err != nil {
		h.respondError(w, "produce recipe", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrRecipeNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ledger.ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	case errors.Is(err, ErrUnknownIngredient), errors.Is(err, ErrInvalidIngredient), errors.Is(err, ErrInvalidBatches):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Cannot Produce", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
