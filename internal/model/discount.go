package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountKind enumerates the supported discount effects.
type DiscountKind string

const (
	DiscountPercentage   DiscountKind = "percentage"
	DiscountFixed        DiscountKind = "fixed"
	DiscountFreeShipping DiscountKind = "free_shipping"
)

// Valid reports whether k is a known discount kind.
func (k DiscountKind) Valid() bool {
	switch k {
	case DiscountPercentage, DiscountFixed, DiscountFreeShipping:
		return true
	}
	return false
}

// DiscountCode is a redeemable discount rule as stored by the back office.
// A nil UsesLeft means unlimited uses; a nil ExpirationDate never expires.
type DiscountCode struct {
	Code           string              `json:"code" db:"code"`
	Kind           DiscountKind        `json:"kind" db:"kind"`
	Value          decimal.NullDecimal `json:"value" db:"value"`
	UsesLeft       *int                `json:"usesLeft,omitempty" db:"uses_left"`
	ExpirationDate *time.Time          `json:"expirationDate,omitempty" db:"expiration_date"`
	CanCumulate    bool                `json:"canCumulate" db:"can_cumulate"`
	CreatedAt      time.Time           `json:"createdAt" db:"created_at"`
}

// AppliedDiscount is the validated, detached effect of a discount code.
type AppliedDiscount struct {
	Code        string          `json:"code"`
	Kind        DiscountKind    `json:"kind"`
	Value       decimal.Decimal `json:"value"`
	CanCumulate bool            `json:"canCumulate"`
}

// DiscountRequest represents the admin payload for creating a discount code.
type DiscountRequest struct {
	Code           string           `json:"code" validate:"required,min=3,max=32"`
	Kind           DiscountKind     `json:"kind" validate:"required,oneof=percentage fixed free_shipping"`
	Value          *decimal.Decimal `json:"value,omitempty"`
	UsesLeft       *int             `json:"usesLeft,omitempty" validate:"omitempty,min=0"`
	ExpirationDate *time.Time       `json:"expirationDate,omitempty"`
	CanCumulate    bool             `json:"canCumulate"`
}
