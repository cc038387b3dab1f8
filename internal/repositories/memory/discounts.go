package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/repositories"
)

var errDiscountNotFound = errors.New("discount not found")

// DiscountRepository stores coupon codes keyed by ID and enforces code uniqueness.
type DiscountRepository struct {
	mu        sync.Mutex
	discounts map[string]*domain.Discount
}

// NewDiscountRepository constructs an empty discount store.
func NewDiscountRepository() *DiscountRepository {
	return &DiscountRepository{discounts: make(map[string]*domain.Discount)}
}

// List returns all discounts ordered by code.
func (r *DiscountRepository) List(_ context.Context) ([]*domain.Discount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*domain.Discount, 0, len(r.discounts))
	for _, discount := range r.discounts {
		matched = append(matched, cloneDiscount(discount))
	}
	slices.SortFunc(matched, func(a, b *domain.Discount) int {
		if c := slices.Compare([]byte(a.Code), []byte(b.Code)); c != 0 {
			return c
		}
		return slices.Compare([]byte(a.ID), []byte(b.ID))
	})
	return matched, nil
}

// FindByID returns the discount with the given ID.
func (r *DiscountRepository) FindByID(_ context.Context, discountID string) (*domain.Discount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	discount, ok := r.discounts[discountID]
	if !ok {
		return nil, repositories.NewNotFoundError(fmt.Sprintf("discount %s", discountID), errDiscountNotFound)
	}
	return cloneDiscount(discount), nil
}

// FindByCode returns the discount with the given code, matched case-insensitively.
func (r *DiscountRepository) FindByCode(_ context.Context, code string) (*domain.Discount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if discount := r.findByCodeLocked(code); discount != nil {
		return cloneDiscount(discount), nil
	}
	return nil, repositories.NewNotFoundError(fmt.Sprintf("discount code %s", code), errDiscountNotFound)
}

// Insert stores a new discount. Fails with a conflict when the code is taken.
func (r *DiscountRepository) Insert(_ context.Context, discount *domain.Discount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.discounts[discount.ID]; ok {
		return repositories.NewConflictError(fmt.Sprintf("discount %s", discount.ID), errors.New("discount already exists"))
	}
	if existing := r.findByCodeLocked(discount.Code); existing != nil {
		return repositories.NewConflictError(fmt.Sprintf("discount code %s", discount.Code), errors.New("code already in use"))
	}
	r.discounts[discount.ID] = cloneDiscount(discount)
	return nil
}

// Update replaces the stored discount. Fails with a conflict when the new code
// collides with a different discount.
func (r *DiscountRepository) Update(_ context.Context, discount *domain.Discount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.discounts[discount.ID]; !ok {
		return repositories.NewNotFoundError(fmt.Sprintf("discount %s", discount.ID), errDiscountNotFound)
	}
	if existing := r.findByCodeLocked(discount.Code); existing != nil && existing.ID != discount.ID {
		return repositories.NewConflictError(fmt.Sprintf("discount code %s", discount.Code), errors.New("code already in use"))
	}
	r.discounts[discount.ID] = cloneDiscount(discount)
	return nil
}

// Delete removes the discount.
func (r *DiscountRepository) Delete(_ context.Context, discountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.discounts[discountID]; !ok {
		return repositories.NewNotFoundError(fmt.Sprintf("discount %s", discountID), errDiscountNotFound)
	}
	delete(r.discounts, discountID)
	return nil
}

func (r *DiscountRepository) findByCodeLocked(code string) *domain.Discount {
	normalized := strings.ToLower(strings.TrimSpace(code))
	for _, discount := range r.discounts {
		if strings.ToLower(discount.Code) == normalized {
			return discount
		}
	}
	return nil
}

func cloneDiscount(discount *domain.Discount) *domain.Discount {
	clone := *discount
	clone.StartsAt = cloneTime(discount.StartsAt)
	clone.EndsAt = cloneTime(discount.EndsAt)
	if discount.UsageLimit != nil {
		limit := *discount.UsageLimit
		clone.UsageLimit = &limit
	}
	return &clone
}
