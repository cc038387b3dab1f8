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

// AffiliateServiceDeps bundles collaborators for the affiliate service.
type AffiliateServiceDeps struct {
	Affiliates  repositories.AffiliateRepository
	Orders      repositories.OrderRepository
	Clock       func() time.Time
	IDGenerator func() string
	Logger      *zap.Logger
}

type affiliateService struct {
	affiliates repositories.AffiliateRepository
	orders     repositories.OrderRepository
	clock      func() time.Time
	newID      func() string
	logger     *zap.Logger
}

// NewAffiliateService wires dependencies into a concrete AffiliateService.
func NewAffiliateService(deps AffiliateServiceDeps) (AffiliateService, error) {
	if deps.Affiliates == nil {
		return nil, errors.New("affiliate service: affiliate repository is required")
	}
	if deps.Orders == nil {
		return nil, errors.New("affiliate service: order repository is required")
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

	return &affiliateService{
		affiliates: deps.Affiliates,
		orders:     deps.Orders,
		clock:      func() time.Time { return clock().UTC() },
		newID:      idGen,
		logger:     logger,
	}, nil
}

func (s *affiliateService) ListAffiliates(ctx context.Context, term string) ([]*domain.Affiliate, error) {
	affiliates, err := s.affiliates.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return search.Filter(affiliates, term,
		func(a *domain.Affiliate) string { return a.Name },
		func(a *domain.Affiliate) string { return a.Email },
		func(a *domain.Affiliate) string { return a.ReferralCode },
		func(a *domain.Affiliate) string { return a.Channel },
	), nil
}

func (s *affiliateService) GetAffiliate(ctx context.Context, affiliateID string) (*domain.Affiliate, error) {
	affiliateID = strings.TrimSpace(affiliateID)
	if affiliateID == "" {
		return nil, fmt.Errorf("%w: affiliate id is required", ErrInvalidInput)
	}
	affiliate, err := s.affiliates.FindByID(ctx, affiliateID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return affiliate, nil
}

func (s *affiliateService) CreateAffiliate(ctx context.Context, cmd UpsertAffiliateCommand) (*domain.Affiliate, error) {
	if err := validateAffiliateCommand(cmd); err != nil {
		return nil, err
	}

	now := s.clock()
	affiliate := &domain.Affiliate{
		ID:            "aff-" + strings.ToLower(s.newID()),
		Name:          strings.TrimSpace(cmd.Name),
		Email:         strings.TrimSpace(cmd.Email),
		ReferralCode:  strings.ToUpper(strings.TrimSpace(cmd.ReferralCode)),
		Channel:       strings.TrimSpace(cmd.Channel),
		CommissionBps: cmd.CommissionBps,
		Active:        cmd.Active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.affiliates.Insert(ctx, affiliate); err != nil {
		return nil, mapRepositoryError(err)
	}
	s.logger.Info("affiliate created", zap.String("affiliate_id", affiliate.ID), zap.String("code", affiliate.ReferralCode))
	return affiliate, nil
}

func (s *affiliateService) UpdateAffiliate(ctx context.Context, affiliateID string, cmd UpsertAffiliateCommand) (*domain.Affiliate, error) {
	if err := validateAffiliateCommand(cmd); err != nil {
		return nil, err
	}

	affiliate, err := s.GetAffiliate(ctx, affiliateID)
	if err != nil {
		return nil, err
	}

	affiliate.Name = strings.TrimSpace(cmd.Name)
	affiliate.Email = strings.TrimSpace(cmd.Email)
	affiliate.ReferralCode = strings.ToUpper(strings.TrimSpace(cmd.ReferralCode))
	affiliate.Channel = strings.TrimSpace(cmd.Channel)
	affiliate.CommissionBps = cmd.CommissionBps
	affiliate.Active = cmd.Active
	affiliate.UpdatedAt = s.clock()

	if err := s.affiliates.Update(ctx, affiliate); err != nil {
		return nil, mapRepositoryError(err)
	}
	return affiliate, nil
}

func (s *affiliateService) DeleteAffiliate(ctx context.Context, affiliateID string) error {
	affiliateID = strings.TrimSpace(affiliateID)
	if affiliateID == "" {
		return fmt.Errorf("%w: affiliate id is required", ErrInvalidInput)
	}
	if err := s.affiliates.Delete(ctx, affiliateID); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

// PayoutSummary totals attributed orders by matching the affiliate's referral
// code against each order's attribution. Refunded orders do not earn
// commission; archived orders still do, since archiving tidies the list view
// and does not reverse the sale.
func (s *affiliateService) PayoutSummary(ctx context.Context, affiliateID string) (AffiliatePayout, error) {
	affiliate, err := s.GetAffiliate(ctx, affiliateID)
	if err != nil {
		return AffiliatePayout{}, err
	}

	orders, err := s.orders.List(ctx)
	if err != nil {
		return AffiliatePayout{}, mapRepositoryError(err)
	}
	archived, err := s.orders.ListArchived(ctx)
	if err != nil {
		return AffiliatePayout{}, mapRepositoryError(err)
	}
	orders = append(orders, archived...)

	payout := AffiliatePayout{Affiliate: affiliate}
	for _, order := range orders {
		if order.Affiliate == nil {
			continue
		}
		if !strings.EqualFold(order.Affiliate.ReferralCode, affiliate.ReferralCode) {
			continue
		}
		if order.Status == domain.OrderStatusRefunded {
			continue
		}
		payout.OrderCount++
		payout.AttributedMinor += order.AmountMinor
		payout.CommissionMinor += order.AmountMinor * int64(affiliate.CommissionBps) / 10000
		if payout.Currency == "" {
			payout.Currency = order.Currency
		}
	}
	return payout, nil
}

func validateAffiliateCommand(cmd UpsertAffiliateCommand) error {
	if strings.TrimSpace(cmd.Name) == "" {
		return fmt.Errorf("%w: affiliate name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(cmd.ReferralCode) == "" {
		return fmt.Errorf("%w: referral code is required", ErrInvalidInput)
	}
	if cmd.CommissionBps < 0 || cmd.CommissionBps > 10000 {
		return fmt.Errorf("%w: commission must be between 0 and 10000 basis points", ErrInvalidInput)
	}
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case repoErr.IsConflict():
			return fmt.Errorf("%w: %v", ErrConflict, err)
		case repoErr.IsUnavailable():
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return err
}
