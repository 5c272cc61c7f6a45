package sms

import (
	"context"
	"time"

	"contact-sms-relay/internal/domain"

	"golang.org/x/time/rate"
)

// ThrottledSender caps the process-wide send rate to protect the provider
// account quota. It is independent of the per-client HTTP limiter and is only
// installed when a rate is configured.
type ThrottledSender struct {
	next    domain.SMSSender
	limiter *rate.Limiter
	timeout time.Duration
}

// WithThrottle wraps next in a ThrottledSender when perSecond is positive and
// returns next unchanged otherwise.
func WithThrottle(next domain.SMSSender, perSecond float64, burst int, timeout time.Duration) domain.SMSSender {
	if perSecond <= 0 {
		return next
	}
	return NewThrottledSender(next, perSecond, burst, timeout)
}

func NewThrottledSender(next domain.SMSSender, perSecond float64, burst int, timeout time.Duration) *ThrottledSender {
	if burst < 1 {
		burst = 1
	}
	return &ThrottledSender{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		timeout: timeout,
	}
}

// Send waits for a token and delivers under a single deadline covering both
// the wait and the provider call.
func (s *ThrottledSender) Send(ctx context.Context, msg domain.OutboundSMS) domain.DeliveryResult {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// Wait fails fast when the reservation would overrun the deadline.
	if err := s.limiter.Wait(ctx); err != nil {
		return domain.Failed(domain.FailureTimeout, TimeoutDetail)
	}
	return s.next.Send(ctx, msg)
}
