// Package cart holds the shopping cart aggregate. State is an explicit value
// threaded through pure transitions; every transition returns a new State and
// leaves its receiver untouched, including on rejection.
package cart

import (
	"fmt"

	"smarthome-mall/internal/model"

	"github.com/shopspring/decimal"
)

// Item is the purchasable variant being added, with its price and stock snapshot.
type Item struct {
	ID             string
	Name           string
	Variant        string
	UnitPrice      decimal.Decimal
	Stock          int
	AllowBackorder bool
}

// Line is one cart entry. StockCeiling is the stock last seen for the variant;
// a backorderable line has no ceiling.
type Line struct {
	ItemID         string          `json:"itemId"`
	Name           string          `json:"name"`
	Variant        string          `json:"variant"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	StockCeiling   int             `json:"stockCeiling"`
	AllowBackorder bool            `json:"allowBackorder"`
}

// State is the whole cart.
type State struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// Empty returns a cart with no lines and a zero total.
func Empty() State {
	return State{Lines: []Line{}, Total: decimal.Zero}
}

// Add merges quantity into the line for the same item and variant, or appends a
// new line. It fails with model.ErrStockExceeded when the resulting quantity
// would pass the stock ceiling.
func (s State) Add(item Item, quantity int) (State, error) {
	if quantity < 1 {
		return s, model.ErrInvalidQuantity
	}

	if i := s.find(item.ID, item.Variant); i >= 0 {
		existing := s.Lines[i]
		existing.StockCeiling = item.Stock
		existing.AllowBackorder = item.AllowBackorder
		if err := checkCeiling(existing, existing.Quantity+quantity); err != nil {
			return s, err
		}

		next := s.clone()
		existing.Quantity += quantity
		next.Lines[i] = existing
		next.Total = s.Total.Add(existing.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))))
		return next, nil
	}

	line := Line{
		ItemID:         item.ID,
		Name:           item.Name,
		Variant:        item.Variant,
		Quantity:       quantity,
		UnitPrice:      item.UnitPrice,
		StockCeiling:   item.Stock,
		AllowBackorder: item.AllowBackorder,
	}
	if err := checkCeiling(line, quantity); err != nil {
		return s, err
	}

	next := s.clone()
	next.Lines = append(next.Lines, line)
	next.Total = s.Total.Add(lineTotal(line))
	return next, nil
}

// Remove deletes the matching line. A missing line is a no-op.
func (s State) Remove(itemID, variant string) State {
	i := s.find(itemID, variant)
	if i < 0 {
		return s
	}

	next := s.clone()
	removed := next.Lines[i]
	next.Lines = append(next.Lines[:i], next.Lines[i+1:]...)
	next.Total = s.Total.Sub(lineTotal(removed))
	return next
}

// SetQuantity replaces the quantity of an existing line, applying the same
// ceiling check as Add. The total moves by unitPrice * (new - old).
func (s State) SetQuantity(itemID, variant string, quantity int) (State, error) {
	if quantity < 1 {
		return s, model.ErrInvalidQuantity
	}

	i := s.find(itemID, variant)
	if i < 0 {
		return s, fmt.Errorf("%w: %s/%s is not in the cart", model.ErrProductNotFound, itemID, variant)
	}

	line := s.Lines[i]
	if err := checkCeiling(line, quantity); err != nil {
		return s, err
	}

	next := s.clone()
	delta := decimal.NewFromInt(int64(quantity - line.Quantity))
	line.Quantity = quantity
	next.Lines[i] = line
	next.Total = s.Total.Add(line.UnitPrice.Mul(delta))
	return next, nil
}

// Restock updates the stock ceiling and backorder flag of the line matching
// item. The unit price snapshot is kept. A missing line is a no-op.
func (s State) Restock(item Item) State {
	i := s.find(item.ID, item.Variant)
	if i < 0 {
		return s
	}

	next := s.clone()
	next.Lines[i].StockCeiling = item.Stock
	next.Lines[i].AllowBackorder = item.AllowBackorder
	return next
}

// Clear empties the cart.
func (s State) Clear() State {
	return Empty()
}

// Recompute sums every line from scratch. It must always equal Total.
func (s State) Recompute() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(lineTotal(line))
	}
	return total
}

// PricingLines converts the cart into calculator input.
func (s State) PricingLines() []model.CartLine {
	lines := make([]model.CartLine, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = model.CartLine{
			ItemID:    l.ItemID,
			Variant:   l.Variant,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	return lines
}

func (s State) find(itemID, variant string) int {
	for i, line := range s.Lines {
		if line.ItemID == itemID && line.Variant == variant {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)
	return State{Lines: lines, Total: s.Total}
}

func checkCeiling(line Line, quantity int) error {
	if line.AllowBackorder || quantity <= line.StockCeiling {
		return nil
	}
	return fmt.Errorf("%w: %s/%s allows at most %d", model.ErrStockExceeded, line.ItemID, line.Variant, line.StockCeiling)
}

func lineTotal(line Line) decimal.Decimal {
	return line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
}
