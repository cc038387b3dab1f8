package notifications

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryingSender wraps a Sender with bounded retries. Delivery failures are
// operational noise, not review blockers, so callers treat the final error as
// advisory and the review itself always stands.
type RetryingSender struct {
	next     Sender
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
}

// NewRetryingSender wraps next with up to attempts tries, waiting backoff
// between them. Attempts below one are clamped to one.
func NewRetryingSender(next Sender, attempts int, backoff time.Duration, logger *zap.Logger) *RetryingSender {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingSender{next: next, attempts: attempts, backoff: backoff, logger: logger}
}

// SendDocumentRejection implements Sender. It stops early when the context is
// cancelled and returns the last delivery error once attempts are exhausted.
func (s *RetryingSender) SendDocumentRejection(ctx context.Context, msg DocumentRejection) error {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = s.next.SendDocumentRejection(ctx, msg)
		if lastErr == nil {
			return nil
		}

		s.logger.Warn("rejection notice delivery failed",
			zap.String("message_id", msg.MessageID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.attempts),
			zap.Error(lastErr),
		)

		if attempt < s.attempts && s.backoff > 0 {
			timer := time.NewTimer(s.backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return fmt.Errorf("send rejection notice after %d attempts: %w", s.attempts, lastErr)
}
