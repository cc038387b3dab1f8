package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/repositories"
)

var errAffiliateNotFound = errors.New("affiliate not found")

// AffiliateRepository stores referral partners keyed by ID.
type AffiliateRepository struct {
	mu         sync.Mutex
	affiliates map[string]*domain.Affiliate
}

// NewAffiliateRepository constructs an empty affiliate store.
func NewAffiliateRepository() *AffiliateRepository {
	return &AffiliateRepository{affiliates: make(map[string]*domain.Affiliate)}
}

// List returns all affiliates ordered by name.
func (r *AffiliateRepository) List(_ context.Context) ([]*domain.Affiliate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*domain.Affiliate, 0, len(r.affiliates))
	for _, affiliate := range r.affiliates {
		clone := *affiliate
		matched = append(matched, &clone)
	}
	slices.SortFunc(matched, func(a, b *domain.Affiliate) int {
		if c := slices.Compare([]byte(a.Name), []byte(b.Name)); c != 0 {
			return c
		}
		return slices.Compare([]byte(a.ID), []byte(b.ID))
	})
	return matched, nil
}

// FindByID returns the affiliate with the given ID.
func (r *AffiliateRepository) FindByID(_ context.Context, affiliateID string) (*domain.Affiliate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	affiliate, ok := r.affiliates[affiliateID]
	if !ok {
		return nil, repositories.NewNotFoundError(fmt.Sprintf("affiliate %s", affiliateID), errAffiliateNotFound)
	}
	clone := *affiliate
	return &clone, nil
}

// Insert stores a new affiliate. The ID must not already exist.
func (r *AffiliateRepository) Insert(_ context.Context, affiliate *domain.Affiliate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.affiliates[affiliate.ID]; ok {
		return repositories.NewConflictError(fmt.Sprintf("affiliate %s", affiliate.ID), errors.New("affiliate already exists"))
	}
	clone := *affiliate
	r.affiliates[affiliate.ID] = &clone
	return nil
}

// Update replaces the stored affiliate.
func (r *AffiliateRepository) Update(_ context.Context, affiliate *domain.Affiliate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.affiliates[affiliate.ID]; !ok {
		return repositories.NewNotFoundError(fmt.Sprintf("affiliate %s", affiliate.ID), errAffiliateNotFound)
	}
	clone := *affiliate
	r.affiliates[affiliate.ID] = &clone
	return nil
}

// Delete removes the affiliate.
func (r *AffiliateRepository) Delete(_ context.Context, affiliateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.affiliates[affiliateID]; !ok {
		return repositories.NewNotFoundError(fmt.Sprintf("affiliate %s", affiliateID), errAffiliateNotFound)
	}
	delete(r.affiliates, affiliateID)
	return nil
}
