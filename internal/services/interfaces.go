// Package services implements the back-office use cases on top of the
// repository contracts. Handlers call services; services own validation,
// transition rules, audit entries, and notification dispatch.
package services

import (
	"context"
	"io"
	"time"

	"github.com/ida-management/backoffice/internal/domain"
)

// SortField names a sortable order list column.
type SortField string

const (
	// SortByDate orders by creation time.
	SortByDate SortField = "date"
	// SortByAmount orders by the order total.
	SortByAmount SortField = "amount"
	// SortByCustomer orders by customer name.
	SortByCustomer SortField = "customer"
	// SortByStatus orders by order status.
	SortByStatus SortField = "status"
)

// ListOrdersQuery captures the list view's filter, search, sort, and paging state.
// Zero values mean "no constraint"; the empty query returns every active order.
type ListOrdersQuery struct {
	Search         string
	Status         domain.OrderStatus
	InternalStatus domain.InternalStatus
	PaymentStatus  domain.PaymentStatus
	Region         domain.FulfillmentRegion
	ProductType    domain.ProductType
	DeliveryType   domain.DeliveryType
	Archived       bool

	SortBy   SortField
	SortDesc bool

	Page    int
	PerPage int
}

// OrderSummary aggregates the filtered set before pagination.
type OrderSummary struct {
	Total            int
	ByStatus         map[domain.OrderStatus]int
	ByInternalStatus map[domain.InternalStatus]int
}

// OrderList is one page of results plus the aggregate summary.
type OrderList struct {
	Orders  []*domain.Order
	Total   int
	Page    int
	PerPage int
	Summary OrderSummary
}

// ChangeStatusCommand moves an order to a new lifecycle status.
type ChangeStatusCommand struct {
	OrderID string
	Status  domain.OrderStatus
	Actor   string
}

// SetInternalStatusCommand moves an order's triage state.
type SetInternalStatusCommand struct {
	OrderID        string
	InternalStatus domain.InternalStatus
	Actor          string
}

// ReviewDocumentCommand records a review decision for one document slot.
// RejectionNote is required when Status is rejected and ignored otherwise.
type ReviewDocumentCommand struct {
	OrderID       string
	Slot          domain.DocumentSlot
	Status        domain.DocumentStatus
	RejectionNote string
	Actor         string
}

// ReviewDocumentResult reports the updated order and whether a rejection
// notice was handed to the customer notification channel.
type ReviewDocumentResult struct {
	Order            *domain.Order
	NotificationSent bool
}

// SetTrackingCommand attaches carrier details to an order.
type SetTrackingCommand struct {
	OrderID string
	Carrier string
	Number  string
	Actor   string
}

// AssignFulfillmentCommand routes an order to an operations centre. An empty
// Region asks the service to derive it from the shipping country.
type AssignFulfillmentCommand struct {
	OrderID string
	Region  domain.FulfillmentRegion
	Actor   string
}

// SetProductionFlagsCommand updates licence production progress.
type SetProductionFlagsCommand struct {
	OrderID   string
	Generated *bool
	Printed   *bool
	Actor     string
}

// ArchiveOrderCommand removes an order from the active list.
type ArchiveOrderCommand struct {
	OrderID string
	Actor   string
}

// OrderService exposes every order operation the back office performs.
type OrderService interface {
	ListOrders(ctx context.Context, query ListOrdersQuery) (OrderList, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ChangeStatus(ctx context.Context, cmd ChangeStatusCommand) (*domain.Order, error)
	SetInternalStatus(ctx context.Context, cmd SetInternalStatusCommand) (*domain.Order, error)
	ReviewDocument(ctx context.Context, cmd ReviewDocumentCommand) (ReviewDocumentResult, error)
	SetTracking(ctx context.Context, cmd SetTrackingCommand) (*domain.Order, error)
	AssignFulfillment(ctx context.Context, cmd AssignFulfillmentCommand) (*domain.Order, error)
	SetProductionFlags(ctx context.Context, cmd SetProductionFlagsCommand) (*domain.Order, error)
	ArchiveOrder(ctx context.Context, cmd ArchiveOrderCommand) (*domain.Order, error)
	ExportCSV(ctx context.Context, query ListOrdersQuery, w io.Writer) error
}

// UpsertAffiliateCommand carries affiliate create/update fields.
type UpsertAffiliateCommand struct {
	Name          string
	Email         string
	ReferralCode  string
	Channel       string
	CommissionBps int
	Active        bool
}

// AffiliatePayout summarises commission owed to one affiliate.
type AffiliatePayout struct {
	Affiliate       *domain.Affiliate
	OrderCount      int
	AttributedMinor int64
	CommissionMinor int64
	Currency        string
}

// AffiliateService manages referral partners.
type AffiliateService interface {
	ListAffiliates(ctx context.Context, search string) ([]*domain.Affiliate, error)
	GetAffiliate(ctx context.Context, affiliateID string) (*domain.Affiliate, error)
	CreateAffiliate(ctx context.Context, cmd UpsertAffiliateCommand) (*domain.Affiliate, error)
	UpdateAffiliate(ctx context.Context, affiliateID string, cmd UpsertAffiliateCommand) (*domain.Affiliate, error)
	DeleteAffiliate(ctx context.Context, affiliateID string) error
	PayoutSummary(ctx context.Context, affiliateID string) (AffiliatePayout, error)
}

// UpsertDiscountCommand carries discount create/update fields.
type UpsertDiscountCommand struct {
	Code       string
	Percent    int
	Active     bool
	StartsAt   *time.Time
	EndsAt     *time.Time
	UsageLimit *int
}

// DiscountService manages coupon codes.
type DiscountService interface {
	ListDiscounts(ctx context.Context, search string) ([]*domain.Discount, error)
	GetDiscount(ctx context.Context, discountID string) (*domain.Discount, error)
	CreateDiscount(ctx context.Context, cmd UpsertDiscountCommand) (*domain.Discount, error)
	UpdateDiscount(ctx context.Context, discountID string, cmd UpsertDiscountCommand) (*domain.Discount, error)
	DeleteDiscount(ctx context.Context, discountID string) error
}

// UpsertProductCommand carries product create/update fields.
type UpsertProductCommand struct {
	SKU        string
	Name       string
	Type       domain.ProductType
	PriceMinor int64
	Currency   string
	Active     bool
}

// ProductService manages the sellable catalogue.
type ProductService interface {
	ListProducts(ctx context.Context, search string) ([]*domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, cmd UpsertProductCommand) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, cmd UpsertProductCommand) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// UpsertStaffCommand carries staff create/update fields.
type UpsertStaffCommand struct {
	Name   string
	Email  string
	Role   domain.StaffRole
	Active bool
}

// StaffService manages back-office accounts.
type StaffService interface {
	ListStaff(ctx context.Context, search string) ([]*domain.StaffUser, error)
	GetStaff(ctx context.Context, staffID string) (*domain.StaffUser, error)
	CreateStaff(ctx context.Context, cmd UpsertStaffCommand) (*domain.StaffUser, error)
	UpdateStaff(ctx context.Context, staffID string, cmd UpsertStaffCommand) (*domain.StaffUser, error)
	DeleteStaff(ctx context.Context, staffID string) error
}
