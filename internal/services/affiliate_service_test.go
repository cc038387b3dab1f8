package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/repositories/memory"
)

func newTestAffiliateService(t *testing.T, affiliates *memory.AffiliateRepository, orders *memory.OrderRepository) AffiliateService {
	t.Helper()
	svc, err := NewAffiliateService(AffiliateServiceDeps{
		Affiliates: affiliates,
		Orders:     orders,
		Clock:      func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return svc
}

func TestCreateAffiliateNormalisesCode(t *testing.T) {
	svc := newTestAffiliateService(t, memory.NewAffiliateRepository(), memory.NewOrderRepository())

	affiliate, err := svc.CreateAffiliate(context.Background(), UpsertAffiliateCommand{
		Name:          "DriveAbroad Blog",
		Email:         "partners@driveabroad.example",
		ReferralCode:  " drive10 ",
		CommissionBps: 1000,
		Active:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "DRIVE10", affiliate.ReferralCode)
	assert.Equal(t, testNow, affiliate.CreatedAt)
	assert.NotEmpty(t, affiliate.ID)
}

func TestCreateAffiliateValidation(t *testing.T) {
	svc := newTestAffiliateService(t, memory.NewAffiliateRepository(), memory.NewOrderRepository())
	ctx := context.Background()

	_, err := svc.CreateAffiliate(ctx, UpsertAffiliateCommand{ReferralCode: "X", CommissionBps: 100})
	assert.ErrorIs(t, err, ErrInvalidInput, "name required")

	_, err = svc.CreateAffiliate(ctx, UpsertAffiliateCommand{Name: "X", CommissionBps: 100})
	assert.ErrorIs(t, err, ErrInvalidInput, "code required")

	_, err = svc.CreateAffiliate(ctx, UpsertAffiliateCommand{Name: "X", ReferralCode: "X", CommissionBps: 20000})
	assert.ErrorIs(t, err, ErrInvalidInput, "commission capped at 100%")
}

func TestPayoutSummary(t *testing.T) {
	affiliates := memory.NewAffiliateRepository()
	orders := memory.NewOrderRepository()

	require.NoError(t, affiliates.Insert(context.Background(), &domain.Affiliate{
		ID:            "aff-1",
		Name:          "DriveAbroad Blog",
		ReferralCode:  "DRIVE10",
		CommissionBps: 1000,
	}))

	attributed := func(id string, amount int64, status domain.OrderStatus) {
		seedOrder(orders, id, func(o *domain.Order) {
			o.AmountMinor = amount
			o.Currency = "USD"
			o.Status = status
			o.Affiliate = &domain.AffiliateAttribution{ReferralCode: "drive10"}
		})
	}
	attributed("o1", 4900, domain.OrderStatusCompleted)
	attributed("o2", 7900, domain.OrderStatusProcessing)
	attributed("o3", 4900, domain.OrderStatusRefunded)
	seedOrder(orders, "o4", nil) // unattributed

	svc := newTestAffiliateService(t, affiliates, orders)

	payout, err := svc.PayoutSummary(context.Background(), "aff-1")
	require.NoError(t, err)
	assert.Equal(t, 2, payout.OrderCount, "refunded and unattributed orders excluded")
	assert.Equal(t, int64(12800), payout.AttributedMinor)
	assert.Equal(t, int64(1280), payout.CommissionMinor)
	assert.Equal(t, "USD", payout.Currency)
}

func TestPayoutSummaryIncludesArchivedOrders(t *testing.T) {
	affiliates := memory.NewAffiliateRepository()
	orders := memory.NewOrderRepository()

	require.NoError(t, affiliates.Insert(context.Background(), &domain.Affiliate{
		ID:            "aff-1",
		Name:          "DriveAbroad Blog",
		ReferralCode:  "DRIVE10",
		CommissionBps: 1000,
	}))

	seedOrder(orders, "o1", func(o *domain.Order) {
		o.Status = domain.OrderStatusCompleted
		o.Affiliate = &domain.AffiliateAttribution{ReferralCode: "DRIVE10"}
		archivedAt := testNow.Add(-time.Hour)
		o.ArchivedAt = &archivedAt
	})

	svc := newTestAffiliateService(t, affiliates, orders)

	payout, err := svc.PayoutSummary(context.Background(), "aff-1")
	require.NoError(t, err)
	assert.Equal(t, 1, payout.OrderCount, "archiving does not reverse the sale")
	assert.Equal(t, int64(4900), payout.AttributedMinor)
	assert.Equal(t, int64(490), payout.CommissionMinor)
}

func TestDiscountServiceRejectsDuplicateCode(t *testing.T) {
	discounts := memory.NewDiscountRepository()
	svc, err := NewDiscountService(DiscountServiceDeps{
		Discounts: discounts,
		Clock:     func() time.Time { return testNow },
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.CreateDiscount(ctx, UpsertDiscountCommand{Code: "SAVE10", Percent: 10, Active: true})
	require.NoError(t, err)

	_, err = svc.CreateDiscount(ctx, UpsertDiscountCommand{Code: "save10", Percent: 20, Active: true})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDiscountServiceValidatesDates(t *testing.T) {
	svc, err := NewDiscountService(DiscountServiceDeps{
		Discounts: memory.NewDiscountRepository(),
		Clock:     func() time.Time { return testNow },
	})
	require.NoError(t, err)

	starts := testNow
	ends := testNow.Add(-time.Hour)
	_, err = svc.CreateDiscount(context.Background(), UpsertDiscountCommand{
		Code:     "LATE",
		Percent:  10,
		StartsAt: &starts,
		EndsAt:   &ends,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStaffServiceRoleValidation(t *testing.T) {
	svc, err := NewStaffService(StaffServiceDeps{
		Staff: memory.NewStaffRepository(),
		Clock: func() time.Time { return testNow },
	})
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.CreateStaff(ctx, UpsertStaffCommand{
		Name:   "Lena Hoffmann",
		Email:  "Lena@IDA.example",
		Role:   domain.StaffRoleAdmin,
		Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "lena@ida.example", created.Email, "emails are stored lowercase")

	_, err = svc.CreateStaff(ctx, UpsertStaffCommand{Name: "X", Email: "x@example.com", Role: "superuser"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
