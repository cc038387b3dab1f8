// Package memory provides mutex-guarded in-memory repositories. They back the
// bundled deployment and the test suites; all methods deep-copy on the way in
// and out so callers can never alias stored state.
package memory

import (
	"github.com/ida-management/backoffice/internal/repositories"
)

// Registry bundles the in-memory repositories behind the repositories.Registry contract.
type Registry struct {
	orders     *OrderRepository
	affiliates *AffiliateRepository
	discounts  *DiscountRepository
	products   *ProductRepository
	staff      *StaffRepository
}

// NewRegistry constructs empty repositories. Call Seed for a populated set.
func NewRegistry() *Registry {
	return &Registry{
		orders:     NewOrderRepository(),
		affiliates: NewAffiliateRepository(),
		discounts:  NewDiscountRepository(),
		products:   NewProductRepository(),
		staff:      NewStaffRepository(),
	}
}

// Orders implements repositories.Registry.
func (r *Registry) Orders() repositories.OrderRepository { return r.orders }

// Affiliates implements repositories.Registry.
func (r *Registry) Affiliates() repositories.AffiliateRepository { return r.affiliates }

// Discounts implements repositories.Registry.
func (r *Registry) Discounts() repositories.DiscountRepository { return r.discounts }

// Products implements repositories.Registry.
func (r *Registry) Products() repositories.ProductRepository { return r.products }

// Staff implements repositories.Registry.
func (r *Registry) Staff() repositories.StaffRepository { return r.staff }
