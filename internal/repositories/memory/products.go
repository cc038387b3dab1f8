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

var errProductNotFound = errors.New("product not found")

// ProductRepository stores the catalogue keyed by ID.
type ProductRepository struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

// NewProductRepository constructs an empty product store.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]*domain.Product)}
}

// List returns all products ordered by SKU.
func (r *ProductRepository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		clone := *product
		matched = append(matched, &clone)
	}
	slices.SortFunc(matched, func(a, b *domain.Product) int {
		if c := slices.Compare([]byte(a.SKU), []byte(b.SKU)); c != 0 {
			return c
		}
		return slices.Compare([]byte(a.ID), []byte(b.ID))
	})
	return matched, nil
}

// FindByID returns the product with the given ID.
func (r *ProductRepository) FindByID(_ context.Context, productID string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return nil, repositories.NewNotFoundError(fmt.Sprintf("product %s", productID), errProductNotFound)
	}
	clone := *product
	return &clone, nil
}

// Insert stores a new product.
func (r *ProductRepository) Insert(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok {
		return repositories.NewConflictError(fmt.Sprintf("product %s", product.ID), errors.New("product already exists"))
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

// Update replaces the stored product.
func (r *ProductRepository) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return repositories.NewNotFoundError(fmt.Sprintf("product %s", product.ID), errProductNotFound)
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

// Delete removes the product.
func (r *ProductRepository) Delete(_ context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[productID]; !ok {
		return repositories.NewNotFoundError(fmt.Sprintf("product %s", productID), errProductNotFound)
	}
	delete(r.products, productID)
	return nil
}
