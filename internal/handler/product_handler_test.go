package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smarthome-mall/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func thermostat() model.Product {
	return model.Product{
		ID:        "P001",
		Name:      "Smart Thermostat",
		Category:  "climate",
		CreatedAt: time.Now(),
		Variants: []model.Variant{
			{ProductID: "P001", Selector: "white", Price: decimal.RequireFromString("129.90"), Stock: 3},
		},
	}
}

func TestProductHandler_List(t *testing.T) {
	logger := zerolog.Nop()
	testProducts := []model.Product{thermostat()}

	tests := []struct {
		name           string
		queryParams    string
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
		expectService  bool
		filter         model.ProductFilter
	}{
		{
			name:           "Success with default pagination",
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
			filter:         model.ProductFilter{Limit: 10},
		},
		{
			name:           "Success with custom pagination",
			queryParams:    "?limit=5&offset=10",
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
			filter:         model.ProductFilter{Limit: 5, Offset: 10},
		},
		{
			name:           "Category and stock filter",
			queryParams:    "?category=climate&inStock=true",
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
			filter:         model.ProductFilter{Category: "climate", InStockOnly: true, Limit: 10},
		},
		{
			name:           "Invalid limit parameter",
			queryParams:    "?limit=invalid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid offset parameter",
			queryParams:    "?offset=invalid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid inStock parameter",
			queryParams:    "?inStock=maybe",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service error",
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
			filter:         model.ProductFilter{Limit: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("List", mock.Anything, tt.filter).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.queryParams, nil)
			w := httptest.NewRecorder()

			handler.List(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "List")
			}
		})
	}
}

func TestProductHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	product := thermostat()

	tests := []struct {
		name           string
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
	}{
		{name: "Success", mockReturn: &product, expectedStatus: http.StatusOK},
		{name: "Not found", mockError: model.ErrProductNotFound, expectedStatus: http.StatusNotFound},
		{name: "Wrapped not found", mockError: fmt.Errorf("%w: P001", model.ErrProductNotFound), expectedStatus: http.StatusNotFound},
		{name: "Service error", mockError: errors.New("database error"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)
			mockService.On("GetByID", mock.Anything, "P001").Return(tt.mockReturn, tt.mockError)

			req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/products/P001", nil), map[string]string{"id": "P001"})
			w := httptest.NewRecorder()

			handler.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var got model.Product
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				require.Len(t, got.Variants, 1)
				assert.True(t, product.Variants[0].Price.Equal(got.Variants[0].Price))
			}
			if tt.expectedStatus == http.StatusNotFound {
				var body model.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, model.ErrCodeProductNotFound, body.Error)
			}
			mockService.AssertExpectations(t)
		})
	}
}
