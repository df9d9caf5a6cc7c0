package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smarthome-mall/internal/discount"
	"smarthome-mall/internal/model"
	"smarthome-mall/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// discountService implements DiscountService. Every operation requires an
// administrator.
type discountService struct {
	discountRepo repository.DiscountRepository
	now          func() time.Time
	logger       zerolog.Logger
}

// NewDiscountService creates a new discount service.
func NewDiscountService(discountRepo repository.DiscountRepository, logger zerolog.Logger) DiscountService {
	return &discountService{
		discountRepo: discountRepo,
		now:          time.Now,
		logger:       logger.With().Str("service", "discount").Logger(),
	}
}

func (s *discountService) authorise(caller model.Identity, action string) error {
	if !caller.IsAdmin {
		s.logger.Warn().Str("subject", caller.Subject).Str("action", action).Msg("discount operation refused")
		return model.ErrForbidden
	}
	return nil
}

func (s *discountService) List(ctx context.Context, caller model.Identity) ([]model.DiscountCode, error) {
	if err := s.authorise(caller, "list"); err != nil {
		return nil, err
	}

	codes, err := s.discountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount codes: %w", err)
	}
	return codes, nil
}

func (s *discountService) Create(ctx context.Context, caller model.Identity, req *model.DiscountRequest) (*model.DiscountCode, error) {
	if err := s.authorise(caller, "create"); err != nil {
		return nil, err
	}

	d := model.DiscountCode{
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		Kind:           req.Kind,
		UsesLeft:       req.UsesLeft,
		ExpirationDate: req.ExpirationDate,
		CanCumulate:    req.CanCumulate,
		CreatedAt:      s.now().UTC(),
	}
	if req.Value != nil && req.Kind != model.DiscountFreeShipping {
		d.Value = decimal.NewNullDecimal(*req.Value)
	}

	if err := discount.ValidateDefinition(d); err != nil {
		return nil, err
	}

	if err := s.discountRepo.Create(ctx, &d); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("code", d.Code).
		Str("kind", string(d.Kind)).
		Str("created_by", caller.Subject).
		Msg("discount code created")

	return &d, nil
}

func (s *discountService) Deactivate(ctx context.Context, caller model.Identity, code string) error {
	if err := s.authorise(caller, "deactivate"); err != nil {
		return err
	}
	return s.discountRepo.Deactivate(ctx, strings.ToUpper(code))
}

func (s *discountService) Delete(ctx context.Context, caller model.Identity, code string) error {
	if err := s.authorise(caller, "delete"); err != nil {
		return err
	}
	return s.discountRepo.Delete(ctx, strings.ToUpper(code))
}
