package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/repositories"
)

var errOrderNotFound = errors.New("order not found")

// OrderRepository stores orders keyed by ID.
type OrderRepository struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

// NewOrderRepository constructs an empty order store.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*domain.Order)}
}

// List returns all non-archived orders, newest first.
func (r *OrderRepository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(order *domain.Order) bool {
		return order.ArchivedAt == nil
	}), nil
}

// ListArchived returns archived orders, newest first.
func (r *OrderRepository) ListArchived(_ context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(order *domain.Order) bool {
		return order.ArchivedAt != nil
	}), nil
}

// FindByID returns the order with the given ID, archived or not.
func (r *OrderRepository) FindByID(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, repositories.NewNotFoundError(fmt.Sprintf("order %s", orderID), errOrderNotFound)
	}
	return cloneOrder(order), nil
}

// Update replaces the stored order with the given state.
func (r *OrderRepository) Update(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return repositories.NewNotFoundError(fmt.Sprintf("order %s", order.ID), errOrderNotFound)
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

// Archive marks the order archived. Archiving an archived order is an error.
func (r *OrderRepository) Archive(_ context.Context, orderID string, archivedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return repositories.NewNotFoundError(fmt.Sprintf("order %s", orderID), errOrderNotFound)
	}
	if order.ArchivedAt != nil {
		return repositories.NewConflictError(fmt.Sprintf("order %s", orderID), errors.New("order already archived"))
	}
	at := archivedAt
	order.ArchivedAt = &at
	order.UpdatedAt = archivedAt
	return nil
}

// Put inserts or replaces an order. Used by seeding and tests.
func (r *OrderRepository) Put(order *domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
}

func (r *OrderRepository) collect(keep func(*domain.Order) bool) []*domain.Order {
	matched := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if keep(order) {
			matched = append(matched, cloneOrder(order))
		}
	}
	slices.SortFunc(matched, func(a, b *domain.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare([]byte(a.ID), []byte(b.ID))
	})
	return matched
}

func cloneOrder(order *domain.Order) *domain.Order {
	if order == nil {
		return nil
	}
	clone := *order
	clone.Documents.Selfie.ReviewedAt = cloneTime(order.Documents.Selfie.ReviewedAt)
	clone.Documents.Front.ReviewedAt = cloneTime(order.Documents.Front.ReviewedAt)
	clone.Documents.Back.ReviewedAt = cloneTime(order.Documents.Back.ReviewedAt)
	if order.Tracking != nil {
		tracking := *order.Tracking
		clone.Tracking = &tracking
	}
	if order.Affiliate != nil {
		affiliate := *order.Affiliate
		clone.Affiliate = &affiliate
	}
	clone.Activity = slices.Clone(order.Activity)
	clone.ArchivedAt = cloneTime(order.ArchivedAt)
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
