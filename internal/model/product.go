package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a purchasable item in the catalogue.
type Product struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Category       string    `json:"category" db:"category"`
	AllowBackorder bool      `json:"allowBackorder" db:"allow_backorder"`
	Variants       []Variant `json:"variants"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// Variant is a sellable option of a product (colour, size, bundle size...).
type Variant struct {
	ProductID string          `json:"-" db:"product_id"`
	Selector  string          `json:"selector" db:"selector"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Stock     int             `json:"stock" db:"stock"`

	// Availability is derived by the catalogue service, never stored.
	Availability Availability `json:"availability,omitempty" db:"-"`
}

// Availability is the shopper facing stock state of a variant.
type Availability string

const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityLowStock   Availability = "low_stock"
	AvailabilityBackorder  Availability = "backorder"
	AvailabilityOutOfStock Availability = "out_of_stock"
)

// ProductFilter narrows a catalogue listing. Category matches case
// insensitively; InStockOnly keeps products with at least one variant that
// can be added to a cart.
type ProductFilter struct {
	Category    string
	InStockOnly bool
	Limit       int
	Offset      int
}

// Variant returns the variant matching selector, if any.
func (p *Product) Variant(selector string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Selector == selector {
			return v, true
		}
	}
	return Variant{}, false
}
