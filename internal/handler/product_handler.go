package handler

import (
	"errors"
	"net/http"
	"strconv"

	"smarthome-mall/internal/model"
	"smarthome-mall/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler serves the storefront catalogue.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products?category=&inStock=&limit=&offset=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r, 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, err.Error(), h.logger)
		return
	}

	filter := model.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Limit:    limit,
		Offset:   offset,
	}
	if s := r.URL.Query().Get("inStock"); s != "" {
		if filter.InStockOnly, err = strconv.ParseBool(s); err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid inStock parameter", h.logger)
			return
		}
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id}. An unknown product is a 404 here,
// unlike in a checkout body where it is a bad request.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, model.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, err.Error(), h.logger)
		return
	}
	if err != nil {
		writeServiceError(w, err, "failed to retrieve product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
