package service

import (
	"context"
	"fmt"
	"strings"

	"smarthome-mall/internal/model"
	"smarthome-mall/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultProductPage = 10
	maxProductPage     = 100

	// LowStockThreshold is the stock at or below which a variant shows as low.
	LowStockThreshold = 5
)

// productService serves the storefront catalogue and labels every variant
// with its availability.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List returns one page of the catalogue narrowed by filter.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultProductPage
	case filter.Limit > maxProductPage:
		filter.Limit = maxProductPage
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Str("category", filter.Category).
			Bool("in_stock_only", filter.InStockOnly).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	for i := range products {
		labelAvailability(&products[i])
	}

	s.logger.Debug().
		Int("count", len(products)).
		Str("category", filter.Category).
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		Msg("listed products")

	return products, nil
}

// GetByID returns one product with labelled variants.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrProductNotFound, id)
	}

	labelAvailability(product)
	return product, nil
}

func labelAvailability(p *model.Product) {
	for i := range p.Variants {
		p.Variants[i].Availability = AvailabilityOf(p.Variants[i].Stock, p.AllowBackorder)
	}
}

// AvailabilityOf maps a stock level to what the shopper sees. Backorder only
// shows once the variant is sold out.
func AvailabilityOf(stock int, allowBackorder bool) model.Availability {
	switch {
	case stock > LowStockThreshold:
		return model.AvailabilityInStock
	case stock > 0:
		return model.AvailabilityLowStock
	case allowBackorder:
		return model.AvailabilityBackorder
	default:
		return model.AvailabilityOutOfStock
	}
}
