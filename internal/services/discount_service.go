package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/repositories"
	"github.com/ida-management/backoffice/internal/search"
)

// DiscountServiceDeps bundles collaborators for the discount service.
type DiscountServiceDeps struct {
	Discounts   repositories.DiscountRepository
	Clock       func() time.Time
	IDGenerator func() string
	Logger      *zap.Logger
}

type discountService struct {
	discounts repositories.DiscountRepository
	clock     func() time.Time
	newID     func() string
	logger    *zap.Logger
}

// NewDiscountService wires dependencies into a concrete DiscountService.
func NewDiscountService(deps DiscountServiceDeps) (DiscountService, error) {
	if deps.Discounts == nil {
		return nil, errors.New("discount service: discount repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &discountService{
		discounts: deps.Discounts,
		clock:     func() time.Time { return clock().UTC() },
		newID:     idGen,
		logger:    logger,
	}, nil
}

func (s *discountService) ListDiscounts(ctx context.Context, term string) ([]*domain.Discount, error) {
	discounts, err := s.discounts.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return search.Filter(discounts, term,
		func(d *domain.Discount) string { return d.Code },
	), nil
}

func (s *discountService) GetDiscount(ctx context.Context, discountID string) (*domain.Discount, error) {
	discountID = strings.TrimSpace(discountID)
	if discountID == "" {
		return nil, fmt.Errorf("%w: discount id is required", ErrInvalidInput)
	}
	discount, err := s.discounts.FindByID(ctx, discountID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return discount, nil
}

func (s *discountService) CreateDiscount(ctx context.Context, cmd UpsertDiscountCommand) (*domain.Discount, error) {
	if err := validateDiscountCommand(cmd); err != nil {
		return nil, err
	}

	now := s.clock()
	discount := &domain.Discount{
		ID:         "disc-" + strings.ToLower(s.newID()),
		Code:       strings.ToUpper(strings.TrimSpace(cmd.Code)),
		Percent:    cmd.Percent,
		Active:     cmd.Active,
		StartsAt:   cmd.StartsAt,
		EndsAt:     cmd.EndsAt,
		UsageLimit: cmd.UsageLimit,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.discounts.Insert(ctx, discount); err != nil {
		return nil, mapRepositoryError(err)
	}
	s.logger.Info("discount created", zap.String("discount_id", discount.ID), zap.String("code", discount.Code))
	return discount, nil
}

func (s *discountService) UpdateDiscount(ctx context.Context, discountID string, cmd UpsertDiscountCommand) (*domain.Discount, error) {
	if err := validateDiscountCommand(cmd); err != nil {
		return nil, err
	}

	discount, err := s.GetDiscount(ctx, discountID)
	if err != nil {
		return nil, err
	}

	discount.Code = strings.ToUpper(strings.TrimSpace(cmd.Code))
	discount.Percent = cmd.Percent
	discount.Active = cmd.Active
	discount.StartsAt = cmd.StartsAt
	discount.EndsAt = cmd.EndsAt
	discount.UsageLimit = cmd.UsageLimit
	discount.UpdatedAt = s.clock()

	if err := s.discounts.Update(ctx, discount); err != nil {
		return nil, mapRepositoryError(err)
	}
	return discount, nil
}

func (s *discountService) DeleteDiscount(ctx context.Context, discountID string) error {
	discountID = strings.TrimSpace(discountID)
	if discountID == "" {
		return fmt.Errorf("%w: discount id is required", ErrInvalidInput)
	}
	if err := s.discounts.Delete(ctx, discountID); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func validateDiscountCommand(cmd UpsertDiscountCommand) error {
	if strings.TrimSpace(cmd.Code) == "" {
		return fmt.Errorf("%w: discount code is required", ErrInvalidInput)
	}
	if cmd.Percent < 1 || cmd.Percent > 100 {
		return fmt.Errorf("%w: discount percent must be between 1 and 100", ErrInvalidInput)
	}
	if cmd.StartsAt != nil && cmd.EndsAt != nil && cmd.EndsAt.Before(*cmd.StartsAt) {
		return fmt.Errorf("%w: discount end date precedes start date", ErrInvalidInput)
	}
	if cmd.UsageLimit != nil && *cmd.UsageLimit < 1 {
		return fmt.Errorf("%w: usage limit must be positive", ErrInvalidInput)
	}
	return nil
}
