// Package pricing turns priced cart lines, a shipping charge and validated
// discounts into the amount a customer is charged.
package pricing

import (
	"smarthome-mall/internal/discount"
	"smarthome-mall/internal/model"

	"github.com/shopspring/decimal"
)

// Compute prices the lines. A non-cumulative discount must be the only discount,
// otherwise model.ErrMultipleNonCumulative is returned. The discount amount is
// capped at subtotal plus shipping so the total never drops below zero.
func Compute(lines []model.CartLine, shipping decimal.Decimal, discounts []model.AppliedDiscount) (model.PricingResult, error) {
	if err := CheckCombination(discounts); err != nil {
		return model.PricingResult{}, err
	}

	subtotal := Subtotal(lines)

	discountAmount := decimal.Zero
	for _, d := range discounts {
		discountAmount = discountAmount.Add(discount.Apply(subtotal, shipping, d))
	}

	gross := subtotal.Add(shipping)
	if discountAmount.GreaterThan(gross) {
		discountAmount = gross
	}

	total := gross.Sub(discountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return model.PricingResult{
		Subtotal:       subtotal,
		Shipping:       shipping,
		DiscountAmount: discountAmount,
		Total:          total,
	}, nil
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []model.CartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// CheckCombination rejects discount sets where a non-cumulative discount is
// combined with any other discount.
func CheckCombination(discounts []model.AppliedDiscount) error {
	if len(discounts) < 2 {
		return nil
	}
	for _, d := range discounts {
		if !d.CanCumulate {
			return model.ErrMultipleNonCumulative
		}
	}
	return nil
}

// ToMinorUnits converts an amount to integer cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}
