// Package discount validates discount codes, computes their effect on a checkout
// and imports code definitions in bulk.
package discount

import (
	"fmt"
	"regexp"
	"time"

	"smarthome-mall/internal/model"

	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	codePattern = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)
)

// Validate checks that a stored discount code can be applied at time now.
// A nil code means the lookup found nothing. Validation never consumes a use.
func Validate(code *model.DiscountCode, now time.Time) (model.AppliedDiscount, error) {
	if code == nil {
		return model.AppliedDiscount{}, model.ErrDiscountNotFound
	}

	if code.ExpirationDate != nil && now.After(*code.ExpirationDate) {
		return model.AppliedDiscount{}, model.ErrDiscountExpired
	}

	if code.UsesLeft != nil && *code.UsesLeft <= 0 {
		return model.AppliedDiscount{}, model.ErrDiscountExhausted
	}

	value := decimal.Zero
	if code.Kind != model.DiscountFreeShipping && code.Value.Valid {
		value = code.Value.Decimal
	}

	return model.AppliedDiscount{
		Code:        code.Code,
		Kind:        code.Kind,
		Value:       value,
		CanCumulate: code.CanCumulate,
	}, nil
}

// Apply returns the amount a single discount takes off. Fixed amounts are not capped
// here; the pricing calculator caps the aggregate.
func Apply(subtotal, shipping decimal.Decimal, d model.AppliedDiscount) decimal.Decimal {
	switch d.Kind {
	case model.DiscountPercentage:
		return subtotal.Mul(d.Value).Div(hundred).Round(2)
	case model.DiscountFixed:
		return d.Value
	case model.DiscountFreeShipping:
		return shipping
	default:
		return decimal.Zero
	}
}

// ValidateDefinition checks a discount code before it is created or imported.
func ValidateDefinition(d model.DiscountCode) error {
	if !codePattern.MatchString(d.Code) {
		return fmt.Errorf("%w: code %q must be 3-32 characters of A-Z, 0-9, '_' or '-'", model.ErrDiscountInvalid, d.Code)
	}

	if !d.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", model.ErrDiscountInvalid, d.Kind)
	}

	if d.Kind != model.DiscountFreeShipping {
		if !d.Value.Valid || !d.Value.Decimal.IsPositive() {
			return fmt.Errorf("%w: %s discount requires a positive value", model.ErrDiscountInvalid, d.Kind)
		}
		if d.Kind == model.DiscountPercentage && d.Value.Decimal.GreaterThan(hundred) {
			return fmt.Errorf("%w: percentage cannot exceed 100", model.ErrDiscountInvalid)
		}
	}

	if d.UsesLeft != nil && *d.UsesLeft < 0 {
		return fmt.Errorf("%w: uses left cannot be negative", model.ErrDiscountInvalid)
	}

	return nil
}
