package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a persisted customer order.
type Order struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrderNumber    string          `json:"orderNumber" db:"order_number"`
	DiscountCodes  []string        `json:"discountCodes" db:"discount_codes"`
	Subtotal       decimal.Decimal `json:"subtotal" db:"subtotal"`
	Shipping       decimal.Decimal `json:"shipping" db:"shipping"`
	DiscountAmount decimal.Decimal `json:"discountAmount" db:"discount_amount"`
	Total          decimal.Decimal `json:"total" db:"total"`
	PaymentSession *string         `json:"paymentSession,omitempty" db:"payment_session"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Variant   string          `json:"variant" db:"variant"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
}

// OrderRequest represents the request payload for creating an order or a quote.
type OrderRequest struct {
	DiscountCodes []string           `json:"discountCodes,omitempty" validate:"omitempty,dive,required"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Variant   string `json:"variant" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	ID          uuid.UUID         `json:"id"`
	OrderNumber string            `json:"orderNumber"`
	Items       []OrderItem       `json:"items"`
	Pricing     PricingResult     `json:"pricing"`
	Discounts   []AppliedDiscount `json:"discounts"`
	PaymentURL  string            `json:"paymentUrl,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// QuoteResponse is the priced preview of a cart before any order is persisted.
type QuoteResponse struct {
	Pricing   PricingResult     `json:"pricing"`
	Discounts []AppliedDiscount `json:"discounts"`
}

// CartLine is a priced line fed to the pricing calculator.
type CartLine struct {
	ItemID    string          `json:"itemId"`
	Variant   string          `json:"variant"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// PricingResult is the derived charge breakdown of a set of lines.
type PricingResult struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	Shipping       decimal.Decimal `json:"shipping"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
}

// Identity is the authenticated caller with pre-checked role flags.
type Identity struct {
	Subject     string
	IsAdmin     bool
	IsModerator bool
}
