package handler

import (
	"net/http"

	"smarthome-mall/internal/middleware"
	"smarthome-mall/internal/model"
	"smarthome-mall/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order HTTP requests.
type OrderHandler struct {
	service  service.OrderService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

// Quote handles POST /api/checkout/quote requests.
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if !decodeAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to price order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if !decodeAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByNumber handles GET /api/orders/{number} requests.
func (h *OrderHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "order number is required", h.logger)
		return
	}

	order, err := h.service.GetByNumber(r.Context(), number)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// List handles GET /api/admin/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.IdentityFrom(r.Context())

	limit, offset, err := pagination(r, 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, err.Error(), h.logger)
		return
	}

	orders, err := h.service.List(r.Context(), caller, limit, offset)
	if err != nil {
		writeServiceError(w, err, "failed to list orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
