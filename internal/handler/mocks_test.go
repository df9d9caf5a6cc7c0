package handler

import (
	"context"
	"net/http"

	"smarthome-mall/internal/cart"
	"smarthome-mall/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Quote(ctx context.Context, req *model.OrderRequest) (*model.QuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuoteResponse), args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByNumber(ctx context.Context, number string) (*model.OrderResponse, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, caller model.Identity, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, caller, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

// MockDiscountService is a mock implementation of DiscountService.
type MockDiscountService struct {
	mock.Mock
}

func (m *MockDiscountService) List(ctx context.Context, caller model.Identity) ([]model.DiscountCode, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DiscountCode), args.Error(1)
}

func (m *MockDiscountService) Create(ctx context.Context, caller model.Identity, req *model.DiscountRequest) (*model.DiscountCode, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DiscountCode), args.Error(1)
}

func (m *MockDiscountService) Deactivate(ctx context.Context, caller model.Identity, code string) error {
	return m.Called(ctx, caller, code).Error(0)
}

func (m *MockDiscountService) Delete(ctx context.Context, caller model.Identity, code string) error {
	return m.Called(ctx, caller, code).Error(0)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, sessionID string) (cart.State, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(cart.State), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, sessionID, productID, variant string, quantity int) (cart.State, error) {
	args := m.Called(ctx, sessionID, productID, variant, quantity)
	return args.Get(0).(cart.State), args.Error(1)
}

func (m *MockCartService) SetQuantity(ctx context.Context, sessionID, productID, variant string, quantity int) (cart.State, error) {
	args := m.Called(ctx, sessionID, productID, variant, quantity)
	return args.Get(0).(cart.State), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, sessionID, productID, variant string) (cart.State, error) {
	args := m.Called(ctx, sessionID, productID, variant)
	return args.Get(0).(cart.State), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) (cart.State, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(cart.State), args.Error(1)
}

// withURLParams attaches chi route parameters to a request built with httptest.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
