package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyReviewSideEffectsApprovesEverySlot(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	order := &Order{
		Documents: DocumentSet{
			Selfie: Document{Status: DocumentStatusPending},
			Front:  Document{Status: DocumentStatusRejected, RejectionNote: "glare on the photo"},
			Back:   Document{Status: DocumentStatusMissing},
		},
	}

	changed := ApplyReviewSideEffects(order, "ops@example.com", now)

	assert.ElementsMatch(t, []DocumentSlot{DocumentSlotSelfie, DocumentSlotFront, DocumentSlotBack}, changed)
	assert.True(t, order.Documents.AllApproved())
	assert.Empty(t, order.Documents.Front.RejectionNote, "rejection note is cleared on approval")

	for _, slot := range DocumentSlots() {
		doc := order.Documents.Slot(slot)
		assert.Equal(t, "ops@example.com", doc.ReviewedBy, "slot %s", slot)
		require.NotNil(t, doc.ReviewedAt, "slot %s", slot)
		assert.Equal(t, now, *doc.ReviewedAt, "slot %s", slot)
	}
}

func TestApplyReviewSideEffectsSkipsAlreadyApproved(t *testing.T) {
	earlier := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	now := earlier.Add(48 * time.Hour)

	order := &Order{
		Documents: DocumentSet{
			Selfie: Document{Status: DocumentStatusApproved, ReviewedBy: "first@example.com", ReviewedAt: &earlier},
			Front:  Document{Status: DocumentStatusApproved, ReviewedBy: "first@example.com", ReviewedAt: &earlier},
			Back:   Document{Status: DocumentStatusPending},
		},
	}

	changed := ApplyReviewSideEffects(order, "second@example.com", now)

	assert.Equal(t, []DocumentSlot{DocumentSlotBack}, changed)
	assert.Equal(t, "first@example.com", order.Documents.Selfie.ReviewedBy, "prior review attribution is preserved")
	assert.Equal(t, earlier, *order.Documents.Selfie.ReviewedAt)
	assert.Equal(t, "second@example.com", order.Documents.Back.ReviewedBy)
}

func TestApplyReviewSideEffectsNilOrder(t *testing.T) {
	assert.Nil(t, ApplyReviewSideEffects(nil, "ops@example.com", time.Now()))
}
