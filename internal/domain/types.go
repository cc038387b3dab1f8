package domain

import (
	"time"
)

// OrderStatus enumerates the customer-facing lifecycle states of an order.
type OrderStatus string

const (
	// OrderStatusProcessing indicates the order is being prepared.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipmentInProgress indicates the licence pack has been handed to a carrier.
	OrderStatusShipmentInProgress OrderStatus = "shipment_in_progress"
	// OrderStatusCompleted indicates the order was fulfilled.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusOnHold indicates fulfilment is paused pending operator action.
	OrderStatusOnHold OrderStatus = "on_hold"
	// OrderStatusRefunded indicates the payment was returned to the customer.
	OrderStatusRefunded OrderStatus = "refunded"
)

// InternalStatus is the operator triage state, independent of the order status.
type InternalStatus string

const (
	// InternalStatusPendingReview indicates the order awaits document review.
	InternalStatusPendingReview InternalStatus = "pending_review"
	// InternalStatusOnHold indicates review is paused, usually awaiting the customer.
	InternalStatusOnHold InternalStatus = "on_hold"
	// InternalStatusReviewed indicates the operator finished reviewing the order.
	InternalStatusReviewed InternalStatus = "reviewed"
)

// DocumentStatus enumerates per-document approval states.
type DocumentStatus string

const (
	// DocumentStatusMissing is the initial state before the customer uploads anything.
	// It is never settable by an operator.
	DocumentStatusMissing DocumentStatus = "missing"
	// DocumentStatusPending indicates the document awaits review.
	DocumentStatusPending DocumentStatus = "pending"
	// DocumentStatusApproved indicates the document passed review.
	DocumentStatusApproved DocumentStatus = "approved"
	// DocumentStatusRejected indicates the document failed review and must be re-uploaded.
	DocumentStatusRejected DocumentStatus = "rejected"
)

// DocumentSlot identifies one of the three required document uploads.
type DocumentSlot string

const (
	// DocumentSlotSelfie is the applicant photo.
	DocumentSlotSelfie DocumentSlot = "selfie"
	// DocumentSlotFront is the front of the domestic licence.
	DocumentSlotFront DocumentSlot = "front"
	// DocumentSlotBack is the back of the domestic licence.
	DocumentSlotBack DocumentSlot = "back"
)

// DocumentSlots lists the slots in canonical order.
func DocumentSlots() []DocumentSlot {
	return []DocumentSlot{DocumentSlotSelfie, DocumentSlotFront, DocumentSlotBack}
}

// PaymentStatus enumerates payment settlement states.
type PaymentStatus string

const (
	// PaymentStatusPaid indicates the payment settled.
	PaymentStatusPaid PaymentStatus = "paid"
	// PaymentStatusPending indicates settlement is outstanding.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusFailed indicates the payment attempt failed.
	PaymentStatusFailed PaymentStatus = "failed"
)

// ProductType distinguishes the purchased licence formats.
type ProductType string

const (
	// ProductTypeDigital covers the digital-only licence.
	ProductTypeDigital ProductType = "digital"
	// ProductTypePrintAndDigital covers the printed card plus the digital licence.
	ProductTypePrintAndDigital ProductType = "print_and_digital"
)

// DeliveryType distinguishes shipping service levels.
type DeliveryType string

const (
	// DeliveryTypeStandard is untracked standard post.
	DeliveryTypeStandard DeliveryType = "standard"
	// DeliveryTypeVIPExpress is the expedited courier option.
	DeliveryTypeVIPExpress DeliveryType = "vip_express"
)

// FulfillmentRegion identifies the operations centre responsible for printing and dispatch.
type FulfillmentRegion string

const (
	// RegionUK is the UK operations centre serving Europe and the Americas.
	RegionUK FulfillmentRegion = "uk_op"
	// RegionChina is the China operations centre serving everywhere else.
	RegionChina FulfillmentRegion = "china_op"
)

// Customer holds the purchaser's contact details.
type Customer struct {
	Name  string
	Email string
	Phone string
}

// ShippingAddress is the destination for printed licence packs.
type ShippingAddress struct {
	Address    string
	City       string
	Country    string
	PostalCode string
}

// Payment summarises the settlement state of an order.
type Payment struct {
	Status        PaymentStatus
	Method        string
	TransactionID string
}

// Document is one reviewed upload slot.
type Document struct {
	Status        DocumentStatus
	RejectionNote string
	ReviewedAt    *time.Time
	ReviewedBy    string
}

// DocumentSet holds the three required document slots.
type DocumentSet struct {
	Selfie Document
	Front  Document
	Back   Document
}

// Slot returns a pointer to the document in the given slot, or nil for an unknown slot.
func (d *DocumentSet) Slot(slot DocumentSlot) *Document {
	switch slot {
	case DocumentSlotSelfie:
		return &d.Selfie
	case DocumentSlotFront:
		return &d.Front
	case DocumentSlotBack:
		return &d.Back
	default:
		return nil
	}
}

// AllApproved reports whether every slot has reached approved.
func (d *DocumentSet) AllApproved() bool {
	for _, slot := range DocumentSlots() {
		if d.Slot(slot).Status != DocumentStatusApproved {
			return false
		}
	}
	return true
}

// Tracking records carrier details once a shipment exists.
type Tracking struct {
	Carrier string
	Number  string
}

// Fulfillment captures the assigned operations centre and production flags.
type Fulfillment struct {
	Region    FulfillmentRegion
	Generated bool
	Printed   bool
}

// ActivityEntry is one append-only audit record on an order.
type ActivityEntry struct {
	ID         string
	Type       string
	Message    string
	Actor      string
	OccurredAt time.Time
}

// AffiliateAttribution links an order to the affiliate that referred it.
type AffiliateAttribution struct {
	Name         string
	ReferralCode string
	CouponCode   string
	Channel      string
}

// Order represents one customer purchase and its fulfilment journey.
type Order struct {
	ID           string
	Number       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Customer     Customer
	Shipping     ShippingAddress
	AmountMinor  int64
	Currency     string
	ProductType  ProductType
	DeliveryType DeliveryType
	Payment      Payment

	Status         OrderStatus
	InternalStatus InternalStatus
	Documents      DocumentSet

	Tracking    *Tracking
	Fulfillment Fulfillment
	Activity    []ActivityEntry
	Affiliate   *AffiliateAttribution

	ArchivedAt *time.Time
}

// Affiliate is a referral partner paid a commission on attributed orders.
type Affiliate struct {
	ID            string
	Name          string
	Email         string
	ReferralCode  string
	Channel       string
	CommissionBps int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Discount is a coupon code applied at checkout.
type Discount struct {
	ID         string
	Code       string
	Percent    int
	Active     bool
	StartsAt   *time.Time
	EndsAt     *time.Time
	UsageLimit *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Product is a sellable licence offering.
type Product struct {
	ID         string
	SKU        string
	Name       string
	Type       ProductType
	PriceMinor int64
	Currency   string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StaffRole enumerates back-office access levels.
type StaffRole string

const (
	// StaffRoleAdmin can manage staff accounts in addition to operator capabilities.
	StaffRoleAdmin StaffRole = "admin"
	// StaffRoleOperator can review documents and manage orders.
	StaffRoleOperator StaffRole = "operator"
	// StaffRoleViewer has read-only access.
	StaffRoleViewer StaffRole = "viewer"
)

// StaffUser is a back-office operator account.
type StaffUser struct {
	ID        string
	Name      string
	Email     string
	Role      StaffRole
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
