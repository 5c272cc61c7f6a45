package sms

import (
	"context"
	"errors"
	"net"
	"time"

	"contact-sms-relay/internal/domain"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	// TimeoutDetail is the error text attached to deliveries that hit the deadline.
	TimeoutDetail = "SMS provider timed out"
	// UnknownErrorDetail stands in for provider errors that carry no text.
	UnknownErrorDetail = "SMS provider error"
)

// messageCreator is the subset of the Twilio API used for sending.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioConfig holds the provider credentials and the per-send deadline.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	Timeout    time.Duration
}

// TwilioSender delivers messages through the Twilio Messages API.
type TwilioSender struct {
	api     messageCreator
	timeout time.Duration
}

// NewTwilioSender creates a sender backed by the Twilio REST client. The HTTP
// client timeout matches the send deadline so an abandoned call does not
// linger past it.
func NewTwilioSender(cfg TwilioConfig) *TwilioSender {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	if cfg.Timeout > 0 {
		rest.SetTimeout(cfg.Timeout)
	}
	return &TwilioSender{
		api:     rest.Api,
		timeout: cfg.Timeout,
	}
}

type createOutcome struct {
	msg *twilioApi.ApiV2010Message
	err error
}

// Send makes exactly one CreateMessage call and waits for it or the deadline.
func (s *TwilioSender) Send(ctx context.Context, msg domain.OutboundSMS) domain.DeliveryResult {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(msg.From)
	params.SetTo(msg.To)
	params.SetBody(msg.Body)

	done := make(chan createOutcome, 1)
	go func() {
		created, err := s.api.CreateMessage(params)
		done <- createOutcome{msg: created, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.Failed(domain.FailureTimeout, TimeoutDetail)
		}
		return domain.Failed(domain.FailureProvider, ctx.Err().Error())
	case out := <-done:
		if out.err != nil {
			return classifyError(out.err)
		}
		if out.msg == nil || out.msg.Sid == nil || *out.msg.Sid == "" {
			return domain.Failed(domain.FailureProvider, "SMS provider returned no message id")
		}
		return domain.Delivered(*out.msg.Sid)
	}
}

// classifyError keeps the provider's own message text when one is available.
func classifyError(err error) domain.DeliveryResult {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.Failed(domain.FailureTimeout, TimeoutDetail)
	}

	var restErr *client.TwilioRestError
	if errors.As(err, &restErr) && restErr.Message != "" {
		return domain.Failed(domain.FailureProvider, restErr.Message)
	}
	if msg := err.Error(); msg != "" {
		return domain.Failed(domain.FailureProvider, msg)
	}
	return domain.Failed(domain.FailureProvider, UnknownErrorDetail)
}
