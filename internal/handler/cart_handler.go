package handler

import (
	"net/http"

	"smarthome-mall/internal/cart"
	"smarthome-mall/internal/model"
	"smarthome-mall/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// SessionHeader carries the shopper's cart session id.
const SessionHeader = "X-Session-ID"

// AddCartItemRequest is the payload of POST /api/cart/items.
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Variant   string `json:"variant" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// SetQuantityRequest is the payload of PUT /api/cart/items/{productId}/{variant}.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// CartHandler handles the shopper cart.
type CartHandler struct {
	service  service.CartService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(SessionHeader)
	if !cart.ValidSession(id) {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "a valid X-Session-ID header is required", h.logger)
		return "", false
	}
	return id, true
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	state, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err, "failed to load cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if !decodeAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	state, err := h.service.AddItem(r.Context(), sessionID, req.ProductID, req.Variant, req.Quantity)
	if err != nil {
		writeServiceError(w, err, "failed to add item to cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// SetQuantity handles PUT /api/cart/items/{productId}/{variant}.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SetQuantityRequest
	if !decodeAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	state, err := h.service.SetQuantity(r.Context(), sessionID, chi.URLParam(r, "productId"), chi.URLParam(r, "variant"), req.Quantity)
	if err != nil {
		writeServiceError(w, err, "failed to update cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// RemoveItem handles DELETE /api/cart/items/{productId}/{variant}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	state, err := h.service.RemoveItem(r.Context(), sessionID, chi.URLParam(r, "productId"), chi.URLParam(r, "variant"))
	if err != nil {
		writeServiceError(w, err, "failed to update cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	state, err := h.service.Clear(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err, "failed to clear cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}
