// Package notifications dispatches customer-facing messages triggered by
// back-office actions, currently document rejection notices asking the
// customer to re-upload.
package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ida-management/backoffice/internal/domain"
)

// DocumentRejection is the notice sent when an operator rejects a document.
type DocumentRejection struct {
	MessageID     string
	OrderID       string
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	Slot          domain.DocumentSlot
	Reason        string
	RejectedAt    time.Time
}

// NewDocumentRejection builds a notice with a fresh message ID.
func NewDocumentRejection(order *domain.Order, slot domain.DocumentSlot, reason string, at time.Time) DocumentRejection {
	return DocumentRejection{
		MessageID:     uuid.NewString(),
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		CustomerName:  order.Customer.Name,
		CustomerEmail: order.Customer.Email,
		Slot:          slot,
		Reason:        reason,
		RejectedAt:    at,
	}
}

// Sender delivers rejection notices to the customer.
type Sender interface {
	SendDocumentRejection(ctx context.Context, msg DocumentRejection) error
}

// LogSender records notices in the structured log instead of delivering them.
// It backs local development and deployments without an email provider.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender constructs a log-backed sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// SendDocumentRejection implements Sender.
func (s *LogSender) SendDocumentRejection(_ context.Context, msg DocumentRejection) error {
	s.logger.Info("document rejection notice",
		zap.String("message_id", msg.MessageID),
		zap.String("order_id", msg.OrderID),
		zap.String("order_number", msg.OrderNumber),
		zap.String("customer_email", msg.CustomerEmail),
		zap.String("slot", string(msg.Slot)),
		zap.String("reason", msg.Reason),
		zap.Time("rejected_at", msg.RejectedAt),
	)
	return nil
}
