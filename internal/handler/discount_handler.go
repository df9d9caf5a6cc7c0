package handler

import (
	"errors"
	"net/http"

	"smarthome-mall/internal/middleware"
	"smarthome-mall/internal/model"
	"smarthome-mall/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// DiscountHandler handles back office discount code management.
type DiscountHandler struct {
	service  service.DiscountService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewDiscountHandler creates a new discount handler.
func NewDiscountHandler(service service.DiscountService, logger zerolog.Logger) *DiscountHandler {
	return &DiscountHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With().Str("handler", "discount").Logger(),
	}
}

// List handles GET /api/admin/discounts.
func (h *DiscountHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.IdentityFrom(r.Context())

	codes, err := h.service.List(r.Context(), caller)
	if err != nil {
		writeServiceError(w, err, "failed to list discount codes", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, codes)
}

// Create handles POST /api/admin/discounts.
func (h *DiscountHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.IdentityFrom(r.Context())

	var req model.DiscountRequest
	if !decodeAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	code, err := h.service.Create(r.Context(), caller, &req)
	if err != nil {
		writeServiceError(w, err, "failed to create discount code", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, code)
}

// Deactivate handles PUT /api/admin/discounts/{code}/deactivate.
func (h *DiscountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.IdentityFrom(r.Context())

	if err := h.service.Deactivate(r.Context(), caller, chi.URLParam(r, "code")); err != nil {
		h.writeCodeError(w, err, "failed to deactivate discount code")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/admin/discounts/{code}.
func (h *DiscountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.IdentityFrom(r.Context())

	if err := h.service.Delete(r.Context(), caller, chi.URLParam(r, "code")); err != nil {
		h.writeCodeError(w, err, "failed to delete discount code")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeCodeError treats an unknown code in the path as a missing resource.
func (h *DiscountHandler) writeCodeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, model.ErrDiscountNotFound) {
		writeError(w, http.StatusNotFound, model.ErrCodeDiscountNotFound, err.Error(), h.logger)
		return
	}
	writeServiceError(w, err, fallback, h.logger)
}
