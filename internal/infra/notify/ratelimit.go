package notify

import (
	"context"

	"roombook/internal/usecase"

	"golang.org/x/time/rate"
)

// RateLimitedSender wraps another sender with a token bucket so a burst of
// due reminders cannot flood the downstream transport. Waiting counts
// against the caller's deadline; running out of time is a delivery failure
// and the sweep retries on the next cycle.
type RateLimitedSender struct {
	inner   usecase.Notifier
	limiter *rate.Limiter
}

func NewRateLimitedSender(inner usecase.Notifier, perSecond float64, burst int) *RateLimitedSender {
	return &RateLimitedSender{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (s *RateLimitedSender) Send(ctx context.Context, recipientAddress, recipientName string, reminder usecase.Reminder) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.inner.Send(ctx, recipientAddress, recipientName, reminder)
}
