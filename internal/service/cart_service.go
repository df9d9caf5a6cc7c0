package service

import (
	"context"
	"fmt"

	"smarthome-mall/internal/cart"
	"smarthome-mall/internal/model"
	"smarthome-mall/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService by loading the mirrored state, applying
// one action and saving the result.
type cartService struct {
	storage     cart.Storage
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(storage cart.Storage, productRepo repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		storage:     storage,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Get(ctx context.Context, sessionID string) (cart.State, error) {
	return s.storage.Load(ctx, sessionID)
}

// AddItem snapshots the current price and stock of the variant into the cart.
func (s *cartService) AddItem(ctx context.Context, sessionID, productID, variant string, quantity int) (cart.State, error) {
	item, err := s.catalogueItem(ctx, productID, variant)
	if err != nil {
		return cart.State{}, err
	}

	return s.apply(ctx, sessionID, cart.Action{
		Type:     cart.ActionAdd,
		Item:     item,
		Quantity: quantity,
	})
}

// SetQuantity checks the new quantity against the stock the catalogue holds
// now, not the stock seen when the line was added.
func (s *cartService) SetQuantity(ctx context.Context, sessionID, productID, variant string, quantity int) (cart.State, error) {
	item, err := s.catalogueItem(ctx, productID, variant)
	if err != nil {
		return cart.State{}, err
	}

	return s.apply(ctx, sessionID, cart.Action{
		Type:     cart.ActionSetQuantity,
		Item:     item,
		ItemID:   productID,
		Variant:  variant,
		Quantity: quantity,
	})
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, productID, variant string) (cart.State, error) {
	return s.apply(ctx, sessionID, cart.Action{
		Type:    cart.ActionRemove,
		ItemID:  productID,
		Variant: variant,
	})
}

func (s *cartService) Clear(ctx context.Context, sessionID string) (cart.State, error) {
	return s.apply(ctx, sessionID, cart.Action{Type: cart.ActionClear})
}

func (s *cartService) catalogueItem(ctx context.Context, productID, variant string) (cart.Item, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return cart.Item{}, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return cart.Item{}, model.ErrProductNotFound
	}

	v, ok := product.Variant(variant)
	if !ok {
		return cart.Item{}, fmt.Errorf("%w: %s has no variant %q", model.ErrProductNotFound, productID, variant)
	}

	return cart.Item{
		ID:             product.ID,
		Name:           product.Name,
		Variant:        v.Selector,
		UnitPrice:      v.Price,
		Stock:          v.Stock,
		AllowBackorder: product.AllowBackorder,
	}, nil
}

func (s *cartService) apply(ctx context.Context, sessionID string, action cart.Action) (cart.State, error) {
	state, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return cart.State{}, err
	}

	next, err := cart.Apply(state, action)
	if err != nil {
		s.logger.Debug().Err(err).Str("action", string(action.Type)).Msg("cart action rejected")
		return state, err
	}

	if err := s.storage.Save(ctx, sessionID, next); err != nil {
		return state, err
	}

	return next, nil
}
