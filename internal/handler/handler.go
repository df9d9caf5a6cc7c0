package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"smarthome-mall/internal/cart"
	"smarthome-mall/internal/middleware"
	"smarthome-mall/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: w.Header().Get(middleware.RequestIDHeader),
	})
}

// writeServiceError maps a service error onto a response. Domain errors keep
// their code and detail; anything else becomes a 500 with fallback as message.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var de *model.DomainError
	switch {
	case errors.As(err, &de):
		status := statusFor(de)
		message := err.Error()
		if status == http.StatusInternalServerError {
			logger.Error().Err(err).Msg(fallback)
			message = fallback
		}
		writeError(w, status, de.Code, message, logger)
	case errors.Is(err, cart.ErrInvalidSession):
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "a valid X-Session-ID header is required", logger)
	default:
		logger.Error().Err(err).Msg(fallback)
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, fallback, logger)
	}
}

func statusFor(de *model.DomainError) int {
	switch de.Code {
	case model.ErrCodeDiscountNotFound,
		model.ErrCodeDiscountExpired,
		model.ErrCodeDiscountExhausted,
		model.ErrCodeDiscountInvalid,
		model.ErrCodeDuplicateDiscount,
		model.ErrCodeMultipleNonCumulative,
		model.ErrCodeProductNotFound,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeEmptyCart:
		return http.StatusBadRequest
	case model.ErrCodeStockExceeded,
		model.ErrCodeDiscountExists,
		model.ErrCodeDiscountReferenced:
		return http.StatusConflict
	case model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the error response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, validate *validator.Validate, logger zerolog.Logger) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, formatValidationErrors(verrs), logger)
			return false
		}
		logger.Error().Err(err).Msg("unexpected validation failure")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal validation error", logger)
		return false
	}

	return true
}

func formatValidationErrors(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// pagination parses limit and offset query parameters.
func pagination(r *http.Request, defaultLimit int) (limit, offset int, err error) {
	limit = defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil {
			return 0, 0, fmt.Errorf("invalid limit parameter")
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if offset, err = strconv.Atoi(s); err != nil {
			return 0, 0, fmt.Errorf("invalid offset parameter")
		}
	}
	return limit, offset, nil
}
