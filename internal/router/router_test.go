package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smarthome-mall/internal/cart"
	"smarthome-mall/internal/handler"
	"smarthome-mall/internal/middleware"
	"smarthome-mall/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	apiKey    = "storefront-key"
	jwtSecret = "router-test-secret"
)

type stubProducts struct{}

func (stubProducts) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	return []model.Product{{ID: "P001"}}, nil
}

func (stubProducts) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id != "P001" {
		return nil, model.ErrProductNotFound
	}
	return &model.Product{ID: id}, nil
}

type stubOrders struct{}

func (stubOrders) Quote(ctx context.Context, req *model.OrderRequest) (*model.QuoteResponse, error) {
	return &model.QuoteResponse{}, nil
}

func (stubOrders) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	return &model.OrderResponse{OrderNumber: "SHA0001"}, nil
}

func (stubOrders) GetByNumber(ctx context.Context, number string) (*model.OrderResponse, error) {
	if number != "SHA0001" {
		return nil, model.ErrOrderNotFound
	}
	return &model.OrderResponse{OrderNumber: number}, nil
}

func (stubOrders) List(ctx context.Context, caller model.Identity, limit, offset int) ([]model.Order, error) {
	if !caller.IsAdmin && !caller.IsModerator {
		return nil, model.ErrForbidden
	}
	return []model.Order{}, nil
}

type stubDiscounts struct{}

func (stubDiscounts) List(ctx context.Context, caller model.Identity) ([]model.DiscountCode, error) {
	if !caller.IsAdmin {
		return nil, model.ErrForbidden
	}
	return []model.DiscountCode{}, nil
}

func (stubDiscounts) Create(ctx context.Context, caller model.Identity, req *model.DiscountRequest) (*model.DiscountCode, error) {
	return nil, model.ErrForbidden
}

func (stubDiscounts) Deactivate(ctx context.Context, caller model.Identity, code string) error {
	return nil
}

func (stubDiscounts) Delete(ctx context.Context, caller model.Identity, code string) error {
	return nil
}

type stubCarts struct{}

func (stubCarts) Get(ctx context.Context, sessionID string) (cart.State, error) {
	return cart.Empty(), nil
}

func (stubCarts) AddItem(ctx context.Context, sessionID, productID, variant string, quantity int) (cart.State, error) {
	return cart.Empty(), nil
}

func (stubCarts) SetQuantity(ctx context.Context, sessionID, productID, variant string, quantity int) (cart.State, error) {
	return cart.Empty(), nil
}

func (stubCarts) RemoveItem(ctx context.Context, sessionID, productID, variant string) (cart.State, error) {
	return cart.Empty(), nil
}

func (stubCarts) Clear(ctx context.Context, sessionID string) (cart.State, error) {
	return cart.Empty(), nil
}

func newTestRouter() http.Handler {
	logger := zerolog.Nop()
	return New(Handlers{
		Product:  handler.NewProductHandler(stubProducts{}, logger),
		Cart:     handler.NewCartHandler(stubCarts{}, logger),
		Order:    handler.NewOrderHandler(stubOrders{}, logger),
		Discount: handler.NewDiscountHandler(stubDiscounts{}, logger),
	}, Options{APIKey: apiKey, JWTSecret: jwtSecret, AllowedOrigins: []string{"https://shop.example"}}, logger)
}

func bearer(t *testing.T, id model.Identity) string {
	token, err := middleware.IssueToken(jwtSecret, id, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		apiKey         string
		auth           string
		session        string
		expectedStatus int
	}{
		{name: "Health without key", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "Products require key", method: http.MethodGet, path: "/api/products", expectedStatus: http.StatusUnauthorized},
		{name: "Products list", method: http.MethodGet, path: "/api/products", apiKey: apiKey, expectedStatus: http.StatusOK},
		{name: "Product by id", method: http.MethodGet, path: "/api/products/P001", apiKey: apiKey, expectedStatus: http.StatusOK},
		{name: "Unknown product", method: http.MethodGet, path: "/api/products/P999", apiKey: apiKey, expectedStatus: http.StatusNotFound},
		{name: "Cart", method: http.MethodGet, path: "/api/cart", apiKey: apiKey, session: "session-0001", expectedStatus: http.StatusOK},
		{name: "Cart line removal", method: http.MethodDelete, path: "/api/cart/items/P001/white", apiKey: apiKey, session: "session-0001", expectedStatus: http.StatusOK},
		{name: "Order lookup", method: http.MethodGet, path: "/api/orders/SHA0001", apiKey: apiKey, expectedStatus: http.StatusOK},
		{name: "Unknown order", method: http.MethodGet, path: "/api/orders/SHA0002", apiKey: apiKey, expectedStatus: http.StatusNotFound},
		{name: "Wrong method", method: http.MethodPut, path: "/api/orders", apiKey: apiKey, expectedStatus: http.StatusMethodNotAllowed},
		{name: "Admin requires token", method: http.MethodGet, path: "/api/admin/orders", apiKey: apiKey, expectedStatus: http.StatusUnauthorized},
		{name: "Admin rejects bad token", method: http.MethodGet, path: "/api/admin/orders", apiKey: apiKey, auth: "Bearer nope", expectedStatus: http.StatusUnauthorized},
		{
			name: "Shopper token is forbidden", method: http.MethodGet, path: "/api/admin/discounts", apiKey: apiKey,
			auth: bearer(t, model.Identity{Subject: "u1"}), expectedStatus: http.StatusForbidden,
		},
		{
			name: "Moderator lists orders", method: http.MethodGet, path: "/api/admin/orders", apiKey: apiKey,
			auth: bearer(t, model.Identity{Subject: "m1", IsModerator: true}), expectedStatus: http.StatusOK,
		},
		{
			name: "Admin deletes discount", method: http.MethodDelete, path: "/api/admin/discounts/SPRING10", apiKey: apiKey,
			auth: bearer(t, model.Identity{Subject: "a1", IsAdmin: true}), expectedStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			if tt.session != "" {
				req.Header.Set(handler.SessionHeader, tt.session)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouter_Preflight(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://shop.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ErrorsCarryRequestID(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, model.ErrCodeUnauthorised, body.Error)
	assert.Equal(t, "req-42", body.CorrelationID)
}
