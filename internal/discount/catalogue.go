package discount

import "smarthome-mall/internal/model"

// MapCatalogue implements Catalogue using a map for O(1) lookups.
// Later definitions of the same code replace earlier ones but keep their position.
type MapCatalogue struct {
	index map[string]int
	codes []model.DiscountCode
}

// NewMapCatalogue creates a new map-based catalogue.
func NewMapCatalogue(capacity int) *MapCatalogue {
	return &MapCatalogue{
		index: make(map[string]int, capacity),
		codes: make([]model.DiscountCode, 0, capacity),
	}
}

func (c *MapCatalogue) Get(code string) (model.DiscountCode, bool) {
	i, ok := c.index[code]
	if !ok {
		return model.DiscountCode{}, false
	}
	return c.codes[i], true
}

func (c *MapCatalogue) Size() int {
	return len(c.codes)
}

func (c *MapCatalogue) Codes() []model.DiscountCode {
	out := make([]model.DiscountCode, len(c.codes))
	copy(out, c.codes)
	return out
}

// Add adds or replaces a discount code definition.
func (c *MapCatalogue) Add(d model.DiscountCode) {
	if i, ok := c.index[d.Code]; ok {
		c.codes[i] = d
		return
	}
	c.index[d.Code] = len(c.codes)
	c.codes = append(c.codes, d)
}
