package repository

import (
	"context"

	"smarthome-mall/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll lists products with their variants, narrowed and paged by filter.
	GetAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil if absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs. Unknown IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// ReserveStock takes quantity units of a variant inside tx. Backorder
	// products never fail; others fail with model.ErrStockExceeded.
	ReserveStock(ctx context.Context, tx pgx.Tx, productID, variant string, quantity int) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// LockOrderNumbers serialises order number derivation until tx ends.
	LockOrderNumbers(ctx context.Context, tx pgx.Tx) error

	// GetLastOrderNumber returns the greatest order number, or "" when no
	// order exists yet.
	GetLastOrderNumber(ctx context.Context, tx pgx.Tx) (string, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// GetByNumber retrieves an order by its order number along with its items.
	GetByNumber(ctx context.Context, number string) (*model.Order, []model.OrderItem, error)

	// List returns orders, newest first.
	List(ctx context.Context, limit, offset int) ([]model.Order, error)

	// SetPaymentSession records the payment session opened for an order.
	SetPaymentSession(ctx context.Context, id uuid.UUID, session string) error
}

// DiscountRepository defines the interface for discount code persistence.
type DiscountRepository interface {
	// GetByCode retrieves a discount code. Returns nil if absent.
	GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)

	// List returns every discount code ordered by code.
	List(ctx context.Context) ([]model.DiscountCode, error)

	// Create inserts a new code; model.ErrDiscountExists on conflict.
	Create(ctx context.Context, code *model.DiscountCode) error

	// Deactivate sets uses_left to zero.
	Deactivate(ctx context.Context, code string) error

	// Delete removes a code that no order references.
	Delete(ctx context.Context, code string) error

	// DecrementUses consumes one use inside tx. Unlimited codes are untouched.
	DecrementUses(ctx context.Context, tx pgx.Tx, code string) error

	// Upsert inserts or replaces codes in one transaction and returns the
	// number written.
	Upsert(ctx context.Context, codes []model.DiscountCode) (int, error)
}
