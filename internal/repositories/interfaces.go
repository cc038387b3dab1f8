// Package repositories declares the persistence contracts the services depend
// on. Implementations live in subpackages; the bundled deployment ships the
// memory implementation.
package repositories

import (
	"context"
	"time"

	"github.com/ida-management/backoffice/internal/domain"
)

// Registry exposes typed repository accessors for dependency injection.
type Registry interface {
	Orders() OrderRepository
	Affiliates() AffiliateRepository
	Discounts() DiscountRepository
	Products() ProductRepository
	Staff() StaffRepository
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// OrderRepository persists orders. List returns active orders only; archived
// orders are reachable through ListArchived.
type OrderRepository interface {
	List(ctx context.Context) ([]*domain.Order, error)
	ListArchived(ctx context.Context) ([]*domain.Order, error)
	FindByID(ctx context.Context, orderID string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	Archive(ctx context.Context, orderID string, archivedAt time.Time) error
}

// AffiliateRepository persists referral partners.
type AffiliateRepository interface {
	List(ctx context.Context) ([]*domain.Affiliate, error)
	FindByID(ctx context.Context, affiliateID string) (*domain.Affiliate, error)
	Insert(ctx context.Context, affiliate *domain.Affiliate) error
	Update(ctx context.Context, affiliate *domain.Affiliate) error
	Delete(ctx context.Context, affiliateID string) error
}

// DiscountRepository persists coupon codes. Insert and Update fail with a
// conflict error when another discount already holds the same code.
type DiscountRepository interface {
	List(ctx context.Context) ([]*domain.Discount, error)
	FindByID(ctx context.Context, discountID string) (*domain.Discount, error)
	FindByCode(ctx context.Context, code string) (*domain.Discount, error)
	Insert(ctx context.Context, discount *domain.Discount) error
	Update(ctx context.Context, discount *domain.Discount) error
	Delete(ctx context.Context, discountID string) error
}

// ProductRepository persists the sellable catalogue.
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, productID string) (*domain.Product, error)
	Insert(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, productID string) error
}

// StaffRepository persists back-office accounts.
type StaffRepository interface {
	List(ctx context.Context) ([]*domain.StaffUser, error)
	FindByID(ctx context.Context, staffID string) (*domain.StaffUser, error)
	FindByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
	Insert(ctx context.Context, user *domain.StaffUser) error
	Update(ctx context.Context, user *domain.StaffUser) error
	Delete(ctx context.Context, staffID string) error
}
