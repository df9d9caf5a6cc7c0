package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smarthome-mall/internal/discount"
	"smarthome-mall/internal/events"
	"smarthome-mall/internal/model"
	"smarthome-mall/internal/ordernumber"
	"smarthome-mall/internal/payment"
	"smarthome-mall/internal/pricing"
	"smarthome-mall/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	discountRepo repository.DiscountRepository
	payments     payment.Provider
	publisher    events.Publisher
	settings     PricingSettings
	now          func() time.Time
	logger       zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	discountRepo repository.DiscountRepository,
	payments payment.Provider,
	publisher events.Publisher,
	settings PricingSettings,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		discountRepo: discountRepo,
		payments:     payments,
		publisher:    publisher,
		settings:     settings,
		now:          time.Now,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// pricedRequest is a request resolved against the catalogue and priced.
type pricedRequest struct {
	lines     []model.CartLine
	discounts []model.AppliedDiscount
	pricing   model.PricingResult
}

// Quote prices a request without persisting anything.
func (s *orderService) Quote(ctx context.Context, req *model.OrderRequest) (*model.QuoteResponse, error) {
	priced, err := s.price(ctx, req)
	if err != nil {
		return nil, err
	}

	return &model.QuoteResponse{
		Pricing:   priced.pricing,
		Discounts: priced.discounts,
	}, nil
}

// CreateOrder prices the request, then derives the order number and inserts
// the order inside one transaction holding the order number lock.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	priced, err := s.price(ctx, req)
	if err != nil {
		return nil, err
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.LockOrderNumbers(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	last, err := s.orderRepo.GetLastOrderNumber(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	number, err := ordernumber.Next(last)
	if err != nil {
		s.logger.Error().Err(err).Str("last_order_number", last).Msg("order number sequence is corrupt")
		return nil, err
	}

	now := s.now().UTC()
	codes := make([]string, len(priced.discounts))
	for i, d := range priced.discounts {
		codes[i] = d.Code
	}

	order := &model.Order{
		ID:             uuid.New(),
		OrderNumber:    number,
		DiscountCodes:  codes,
		Subtotal:       priced.pricing.Subtotal,
		Shipping:       priced.pricing.Shipping,
		DiscountAmount: priced.pricing.DiscountAmount,
		Total:          priced.pricing.Total,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_number", number).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(priced.lines))
	for i, line := range priced.lines {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ItemID,
			Variant:   line.Variant,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_number", number).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	for _, line := range priced.lines {
		if err = s.productRepo.ReserveStock(ctx, tx, line.ItemID, line.Variant, line.Quantity); err != nil {
			return nil, err
		}
	}

	for _, code := range codes {
		if err = s.discountRepo.DecrementUses(ctx, tx, code); err != nil {
			return nil, err
		}
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_number", number).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", number).
		Str("total", order.Total.StringFixed(2)).
		Int("item_count", len(orderItems)).
		Msg("order created successfully")

	resp := &model.OrderResponse{
		ID:          order.ID,
		OrderNumber: number,
		Items:       orderItems,
		Pricing:     priced.pricing,
		Discounts:   priced.discounts,
		CreatedAt:   now,
	}

	resp.PaymentURL = s.openPaymentSession(ctx, order)
	s.publishPlaced(ctx, order)

	return resp, nil
}

// openPaymentSession runs after commit. A failure leaves the order without a
// session; it is logged and the order is still returned.
func (s *orderService) openPaymentSession(ctx context.Context, order *model.Order) string {
	if !order.Total.IsPositive() {
		return ""
	}

	session, err := s.payments.CreateSession(ctx, payment.Request{
		OrderNumber: order.OrderNumber,
		AmountMinor: pricing.ToMinorUnits(order.Total),
		Currency:    s.settings.Currency,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to open payment session")
		return ""
	}

	if err := s.orderRepo.SetPaymentSession(ctx, order.ID, session.ID); err != nil {
		s.logger.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to record payment session")
	}

	return session.RedirectURL
}

func (s *orderService) publishPlaced(ctx context.Context, order *model.Order) {
	err := s.publisher.PublishOrderPlaced(ctx, events.OrderPlaced{
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
		Currency:    s.settings.Currency,
		Discounts:   order.DiscountCodes,
		PlacedAt:    order.CreatedAt,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to publish order placed event")
	}
}

// GetByNumber retrieves an order with its items and applied discounts.
func (s *orderService) GetByNumber(ctx context.Context, number string) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByNumber(ctx, number)
	if err != nil {
		s.logger.Error().Err(err).Str("order_number", number).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_number", number).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	applied := make([]model.AppliedDiscount, 0, len(order.DiscountCodes))
	for _, code := range order.DiscountCodes {
		d, err := s.discountRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to get order discounts: %w", err)
		}
		if d == nil {
			applied = append(applied, model.AppliedDiscount{Code: code})
			continue
		}
		applied = append(applied, model.AppliedDiscount{
			Code:        d.Code,
			Kind:        d.Kind,
			Value:       d.Value.Decimal,
			CanCumulate: d.CanCumulate,
		})
	}

	return &model.OrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Items:       items,
		Pricing: model.PricingResult{
			Subtotal:       order.Subtotal,
			Shipping:       order.Shipping,
			DiscountAmount: order.DiscountAmount,
			Total:          order.Total,
		},
		Discounts: applied,
		CreatedAt: order.CreatedAt,
	}, nil
}

// List returns orders for administrators and moderators.
func (s *orderService) List(ctx context.Context, caller model.Identity, limit, offset int) ([]model.Order, error) {
	if !caller.IsAdmin && !caller.IsModerator {
		s.logger.Warn().Str("subject", caller.Subject).Msg("order listing refused")
		return nil, model.ErrForbidden
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orderRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// price validates a request and resolves it into priced lines and
// discounts. Nothing is written.
func (s *orderService) price(ctx context.Context, req *model.OrderRequest) (*pricedRequest, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	codes, err := normaliseCodes(req.DiscountCodes)
	if err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	applied := make([]model.AppliedDiscount, 0, len(codes))
	for _, code := range codes {
		d, err := s.discountRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up discount code: %w", err)
		}

		a, err := discount.Validate(d, now)
		if err != nil {
			s.logger.Warn().Str("discount_code", code).Err(err).Msg("discount code rejected")
			return nil, err
		}
		applied = append(applied, a)
	}

	result, err := pricing.Compute(lines, s.settings.Shipping, applied)
	if err != nil {
		return nil, err
	}

	return &pricedRequest{lines: lines, discounts: applied, pricing: result}, nil
}

// resolveLines snapshots current variant prices and checks stock. Quantities
// for the same product and variant are summed before the check.
func (s *orderService) resolveLines(ctx context.Context, items []model.OrderItemRequest) ([]model.CartLine, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	type key struct{ product, variant string }
	index := make(map[key]int)
	lines := make([]model.CartLine, 0, len(items))

	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			s.logger.Warn().Str("product_id", item.ProductID).Msg("product not found")
			return nil, model.ErrProductNotFound
		}

		v, ok := p.Variant(item.Variant)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no variant %q", model.ErrProductNotFound, p.ID, item.Variant)
		}

		k := key{p.ID, v.Selector}
		if i, ok := index[k]; ok {
			lines[i].Quantity += item.Quantity
		} else {
			index[k] = len(lines)
			lines = append(lines, model.CartLine{
				ItemID:    p.ID,
				Variant:   v.Selector,
				Quantity:  item.Quantity,
				UnitPrice: v.Price,
			})
		}

		if q := lines[index[k]].Quantity; !p.AllowBackorder && q > v.Stock {
			return nil, fmt.Errorf("%w: %s/%s allows at most %d", model.ErrStockExceeded, p.ID, v.Selector, v.Stock)
		}
	}

	return lines, nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return fmt.Errorf("order request is nil")
	}

	if len(req.Items) == 0 {
		return model.ErrEmptyCart
	}

	// Validate each item
	for i, item := range req.Items {
		if item.ProductID == "" {
			return fmt.Errorf("item %d: product ID is required", i)
		}

		if item.Variant == "" {
			return fmt.Errorf("item %d: variant is required", i)
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}

// normaliseCodes upper-cases codes and rejects repeats.
func normaliseCodes(raw []string) ([]string, error) {
	codes := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, c := range raw {
		code := strings.ToUpper(strings.TrimSpace(c))
		if code == "" {
			continue
		}
		if seen[code] {
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicateDiscount, code)
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes, nil
}
