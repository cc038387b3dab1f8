package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/repositories"
)

func TestOrderRepositoryListExcludesArchived(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	repo.Put(&domain.Order{ID: "order-1", CreatedAt: now})
	repo.Put(&domain.Order{ID: "order-2", CreatedAt: now.Add(time.Hour)})

	require.NoError(t, repo.Archive(ctx, "order-1", now.Add(2*time.Hour)))

	active, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "order-2", active[0].ID)

	archived, err := repo.ListArchived(ctx)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "order-1", archived[0].ID)
	require.NotNil(t, archived[0].ArchivedAt)

	// An archived order stays reachable by ID.
	found, err := repo.FindByID(ctx, "order-1")
	require.NoError(t, err)
	assert.NotNil(t, found.ArchivedAt)
}

func TestOrderRepositoryArchiveTwiceConflicts(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	repo.Put(&domain.Order{ID: "order-1", CreatedAt: now})
	require.NoError(t, repo.Archive(ctx, "order-1", now))

	err := repo.Archive(ctx, "order-1", now.Add(time.Minute))
	require.Error(t, err)
	assert.True(t, repositories.IsConflict(err))
}

func TestOrderRepositoryListSortsNewestFirst(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	repo.Put(&domain.Order{ID: "order-old", CreatedAt: base})
	repo.Put(&domain.Order{ID: "order-new", CreatedAt: base.Add(24 * time.Hour)})
	repo.Put(&domain.Order{ID: "order-mid", CreatedAt: base.Add(12 * time.Hour)})

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "order-new", orders[0].ID)
	assert.Equal(t, "order-mid", orders[1].ID)
	assert.Equal(t, "order-old", orders[2].ID)
}

func TestOrderRepositoryReturnsCopies(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	repo.Put(&domain.Order{
		ID:       "order-1",
		Tracking: &domain.Tracking{Carrier: "DHL", Number: "A1"},
		Documents: domain.DocumentSet{
			Front: domain.Document{Status: domain.DocumentStatusPending},
		},
	})

	first, err := repo.FindByID(ctx, "order-1")
	require.NoError(t, err)

	first.Tracking.Carrier = "mutated"
	first.Documents.Front.Status = domain.DocumentStatusApproved

	second, err := repo.FindByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "DHL", second.Tracking.Carrier)
	assert.Equal(t, domain.DocumentStatusPending, second.Documents.Front.Status)
}

func TestOrderRepositoryFindMissing(t *testing.T) {
	repo := NewOrderRepository()

	_, err := repo.FindByID(context.Background(), "order-404")
	require.Error(t, err)
	assert.True(t, repositories.IsNotFound(err))
}

func TestDiscountRepositoryCodeUniqueness(t *testing.T) {
	repo := NewDiscountRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &domain.Discount{ID: "disc-1", Code: "SAVE10"}))

	err := repo.Insert(ctx, &domain.Discount{ID: "disc-2", Code: "save10"})
	require.Error(t, err, "codes collide case-insensitively")
	assert.True(t, repositories.IsConflict(err))

	// Updating a discount to keep its own code is fine.
	require.NoError(t, repo.Update(ctx, &domain.Discount{ID: "disc-1", Code: "SAVE10", Percent: 12}))

	require.NoError(t, repo.Insert(ctx, &domain.Discount{ID: "disc-3", Code: "SAVE20"}))
	err = repo.Update(ctx, &domain.Discount{ID: "disc-3", Code: "SAVE10"})
	require.Error(t, err)
	assert.True(t, repositories.IsConflict(err))
}

func TestStaffRepositoryEmailUniqueness(t *testing.T) {
	repo := NewStaffRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &domain.StaffUser{ID: "staff-1", Email: "ops@example.com"}))

	err := repo.Insert(ctx, &domain.StaffUser{ID: "staff-2", Email: "OPS@example.com"})
	require.Error(t, err)
	assert.True(t, repositories.IsConflict(err))

	found, err := repo.FindByEmail(ctx, "Ops@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", found.ID)
}

func TestSeedPopulatesEveryStore(t *testing.T) {
	registry := NewRegistry()
	registry.Seed(time.Now())
	ctx := context.Background()

	orders, err := registry.Orders().List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, orders)

	archived, err := registry.Orders().ListArchived(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, archived, "seed includes at least one archived order")

	affiliates, err := registry.Affiliates().List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, affiliates)

	discounts, err := registry.Discounts().List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, discounts)

	products, err := registry.Products().List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, products)

	staff, err := registry.Staff().List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, staff)
}
