package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ida-management/backoffice/internal/domain"
)

type stubSender struct {
	calls   int
	failFor int
	err     error
}

func (s *stubSender) SendDocumentRejection(_ context.Context, _ DocumentRejection) error {
	s.calls++
	if s.calls <= s.failFor {
		return s.err
	}
	return nil
}

func TestRetryingSenderSucceedsAfterFailures(t *testing.T) {
	stub := &stubSender{failFor: 2, err: errors.New("smtp unavailable")}
	sender := NewRetryingSender(stub, 3, 0, nil)

	err := sender.SendDocumentRejection(context.Background(), DocumentRejection{MessageID: "msg-1"})
	require.NoError(t, err)
	assert.Equal(t, 3, stub.calls)
}

func TestRetryingSenderExhaustsAttempts(t *testing.T) {
	stub := &stubSender{failFor: 10, err: errors.New("smtp unavailable")}
	sender := NewRetryingSender(stub, 3, 0, nil)

	err := sender.SendDocumentRejection(context.Background(), DocumentRejection{MessageID: "msg-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, stub.err)
	assert.Equal(t, 3, stub.calls)
}

func TestRetryingSenderStopsOnCancelledContext(t *testing.T) {
	stub := &stubSender{failFor: 10, err: errors.New("smtp unavailable")}
	sender := NewRetryingSender(stub, 5, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.SendDocumentRejection(ctx, DocumentRejection{MessageID: "msg-1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stub.calls)
}

func TestRetryingSenderClampsAttempts(t *testing.T) {
	stub := &stubSender{failFor: 10, err: errors.New("smtp unavailable")}
	sender := NewRetryingSender(stub, 0, 0, nil)

	err := sender.SendDocumentRejection(context.Background(), DocumentRejection{MessageID: "msg-1"})
	require.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestNewDocumentRejection(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	order := &domain.Order{
		ID:       "order-1",
		Number:   "IDA-1001",
		Customer: domain.Customer{Name: "Maria Silva", Email: "maria@example.com"},
	}

	msg := NewDocumentRejection(order, domain.DocumentSlotFront, "photo is blurry", at)

	assert.NotEmpty(t, msg.MessageID)
	assert.Equal(t, "order-1", msg.OrderID)
	assert.Equal(t, "IDA-1001", msg.OrderNumber)
	assert.Equal(t, "maria@example.com", msg.CustomerEmail)
	assert.Equal(t, domain.DocumentSlotFront, msg.Slot)
	assert.Equal(t, "photo is blurry", msg.Reason)
	assert.Equal(t, at, msg.RejectedAt)

	other := NewDocumentRejection(order, domain.DocumentSlotFront, "photo is blurry", at)
	assert.NotEqual(t, msg.MessageID, other.MessageID)
}
