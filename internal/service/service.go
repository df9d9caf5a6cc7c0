package service

import (
	"context"

	"smarthome-mall/internal/cart"
	"smarthome-mall/internal/model"

	"github.com/shopspring/decimal"
)

// ProductService serves the storefront catalogue.
type ProductService interface {
	// List returns a page of products matching filter, each variant labelled
	// with its availability.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// OrderService defines operations for checkout and order lookup.
type OrderService interface {
	// Quote prices a request without persisting anything or consuming uses.
	Quote(ctx context.Context, req *model.OrderRequest) (*model.QuoteResponse, error)

	// CreateOrder prices, numbers and persists an order, then opens a payment session.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByNumber retrieves an order by its order number.
	GetByNumber(ctx context.Context, number string) (*model.OrderResponse, error)

	// List returns orders for back office staff.
	List(ctx context.Context, caller model.Identity, limit, offset int) ([]model.Order, error)
}

// DiscountService defines back office operations on discount codes.
type DiscountService interface {
	List(ctx context.Context, caller model.Identity) ([]model.DiscountCode, error)
	Create(ctx context.Context, caller model.Identity, req *model.DiscountRequest) (*model.DiscountCode, error)
	Deactivate(ctx context.Context, caller model.Identity, code string) error
	Delete(ctx context.Context, caller model.Identity, code string) error
}

// CartService keeps a shopper's cart between requests.
type CartService interface {
	Get(ctx context.Context, sessionID string) (cart.State, error)
	AddItem(ctx context.Context, sessionID, productID, variant string, quantity int) (cart.State, error)
	SetQuantity(ctx context.Context, sessionID, productID, variant string, quantity int) (cart.State, error)
	RemoveItem(ctx context.Context, sessionID, productID, variant string) (cart.State, error)
	Clear(ctx context.Context, sessionID string) (cart.State, error)
}

// PricingSettings are the shop wide inputs to checkout pricing.
type PricingSettings struct {
	Shipping decimal.Decimal
	Currency string
}
