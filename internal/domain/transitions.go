package domain

import (
	"slices"
	"strings"
)

// TransitionTable declares, per order status, which target statuses an operator may select.
// The table is data rather than code so deployments can tighten the graph without a rebuild.
type TransitionTable map[OrderStatus][]OrderStatus

// DefaultOrderTransitions returns the graph the back office has historically allowed:
// every status reachable from every other. Terminality of completed/refunded is a
// product decision that has not been confirmed, so the default does not encode it.
func DefaultOrderTransitions() TransitionTable {
	all := []OrderStatus{
		OrderStatusProcessing,
		OrderStatusShipmentInProgress,
		OrderStatusCompleted,
		OrderStatusOnHold,
		OrderStatusRefunded,
	}

	table := make(TransitionTable, len(all))
	for _, from := range all {
		targets := make([]OrderStatus, 0, len(all)-1)
		for _, to := range all {
			if to != from {
				targets = append(targets, to)
			}
		}
		table[from] = targets
	}
	return table
}

// Allowed returns the selectable targets for the given status.
func (t TransitionTable) Allowed(from OrderStatus) []OrderStatus {
	targets, ok := t[from]
	if !ok {
		return nil
	}
	return slices.Clone(targets)
}

// CanTransition reports whether the table permits moving from one status to another.
// Re-selecting the current status is never a transition.
func (t TransitionTable) CanTransition(from, to OrderStatus) bool {
	if from == to {
		return false
	}
	return slices.Contains(t[from], to)
}

// ParseOrderStatus maps a wire value onto a known order status.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case OrderStatusProcessing:
		return OrderStatusProcessing, true
	case OrderStatusShipmentInProgress:
		return OrderStatusShipmentInProgress, true
	case OrderStatusCompleted:
		return OrderStatusCompleted, true
	case OrderStatusOnHold:
		return OrderStatusOnHold, true
	case OrderStatusRefunded:
		return OrderStatusRefunded, true
	default:
		return "", false
	}
}

// ParseInternalStatus maps a wire value onto a known internal status.
func ParseInternalStatus(raw string) (InternalStatus, bool) {
	switch InternalStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case InternalStatusPendingReview:
		return InternalStatusPendingReview, true
	case InternalStatusOnHold:
		return InternalStatusOnHold, true
	case InternalStatusReviewed:
		return InternalStatusReviewed, true
	default:
		return "", false
	}
}

// ParseDocumentSlot maps a wire value onto a known document slot.
func ParseDocumentSlot(raw string) (DocumentSlot, bool) {
	switch DocumentSlot(strings.ToLower(strings.TrimSpace(raw))) {
	case DocumentSlotSelfie:
		return DocumentSlotSelfie, true
	case DocumentSlotFront:
		return DocumentSlotFront, true
	case DocumentSlotBack:
		return DocumentSlotBack, true
	default:
		return "", false
	}
}

// ParseDocumentStatus maps a wire value onto a known document status.
func ParseDocumentStatus(raw string) (DocumentStatus, bool) {
	switch DocumentStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case DocumentStatusMissing:
		return DocumentStatusMissing, true
	case DocumentStatusPending:
		return DocumentStatusPending, true
	case DocumentStatusApproved:
		return DocumentStatusApproved, true
	case DocumentStatusRejected:
		return DocumentStatusRejected, true
	default:
		return "", false
	}
}

// ParsePaymentStatus maps a wire value onto a known payment status.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	switch PaymentStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentStatusPaid:
		return PaymentStatusPaid, true
	case PaymentStatusPending:
		return PaymentStatusPending, true
	case PaymentStatusFailed:
		return PaymentStatusFailed, true
	default:
		return "", false
	}
}

// ParseProductType maps a wire value onto a known product type.
func ParseProductType(raw string) (ProductType, bool) {
	switch ProductType(strings.ToLower(strings.TrimSpace(raw))) {
	case ProductTypeDigital:
		return ProductTypeDigital, true
	case ProductTypePrintAndDigital:
		return ProductTypePrintAndDigital, true
	default:
		return "", false
	}
}

// ParseDeliveryType maps a wire value onto a known delivery type.
func ParseDeliveryType(raw string) (DeliveryType, bool) {
	switch DeliveryType(strings.ToLower(strings.TrimSpace(raw))) {
	case DeliveryTypeStandard:
		return DeliveryTypeStandard, true
	case DeliveryTypeVIPExpress:
		return DeliveryTypeVIPExpress, true
	default:
		return "", false
	}
}

// ParseFulfillmentRegion maps a wire value onto a known fulfilment region.
func ParseFulfillmentRegion(raw string) (FulfillmentRegion, bool) {
	switch FulfillmentRegion(strings.ToLower(strings.TrimSpace(raw))) {
	case RegionUK:
		return RegionUK, true
	case RegionChina:
		return RegionChina, true
	default:
		return "", false
	}
}

// DocumentStatusSettable reports whether an operator may select the given document
// status. Missing is the synthetic initial state and cannot be restored.
func DocumentStatusSettable(status DocumentStatus) bool {
	switch status {
	case DocumentStatusPending, DocumentStatusApproved, DocumentStatusRejected:
		return true
	default:
		return false
	}
}
