package domain

import "time"

// ApplyReviewSideEffects enforces the rule that marking an order as reviewed
// approves every document slot, whatever state the slots were in. It returns the
// slots whose status actually changed so callers can audit the side effect.
//
// This coupling is intentional: an order cannot be "reviewed" while any of its
// documents remain unapproved, so finishing the review settles all three slots.
func ApplyReviewSideEffects(order *Order, reviewedBy string, now time.Time) []DocumentSlot {
	if order == nil {
		return nil
	}

	var changed []DocumentSlot
	for _, slot := range DocumentSlots() {
		doc := order.Documents.Slot(slot)
		if doc.Status == DocumentStatusApproved {
			continue
		}
		doc.Status = DocumentStatusApproved
		doc.RejectionNote = ""
		doc.ReviewedBy = reviewedBy
		reviewedAt := now
		doc.ReviewedAt = &reviewedAt
		changed = append(changed, slot)
	}
	return changed
}
