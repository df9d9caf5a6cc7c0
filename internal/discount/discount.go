package discount

import (
	"context"

	"smarthome-mall/internal/model"
)

// Catalogue is a set of discount code definitions keyed by code.
type Catalogue interface {
	// Get returns the definition for code, if present.
	Get(code string) (model.DiscountCode, bool)

	// Size returns the number of codes in the catalogue.
	Size() int

	// Codes returns the definitions in insertion order.
	Codes() []model.DiscountCode
}

// Loader defines the interface for loading discount code files.
type Loader interface {
	// Load reads a gzipped CSV discount file and returns a Catalogue.
	Load(ctx context.Context, filePath string) (Catalogue, error)
}

// Store persists imported discount codes.
type Store interface {
	Upsert(ctx context.Context, codes []model.DiscountCode) (int, error)
}
