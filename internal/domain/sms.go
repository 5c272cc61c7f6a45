package domain

import "context"

// FailureKind classifies an unsuccessful delivery.
type FailureKind string

const (
	FailureNone     FailureKind = ""
	FailureProvider FailureKind = "provider"
	FailureTimeout  FailureKind = "timeout"
)

// OutboundSMS is a rendered message ready for the provider.
type OutboundSMS struct {
	From string
	To   string
	Body string
}

// DeliveryResult is the outcome of a single provider call. MessageID is set
// only on success; ErrorDetail and Failure only on failure.
type DeliveryResult struct {
	Success     bool
	MessageID   string
	ErrorDetail string
	Failure     FailureKind
}

// Delivered builds a successful result.
func Delivered(messageID string) DeliveryResult {
	return DeliveryResult{Success: true, MessageID: messageID}
}

// Failed builds an unsuccessful result with the provider's error text.
func Failed(kind FailureKind, detail string) DeliveryResult {
	return DeliveryResult{Success: false, ErrorDetail: detail, Failure: kind}
}

// SMSSender hands a message to the external provider. Implementations make a
// single attempt and never retry.
type SMSSender interface {
	Send(ctx context.Context, msg OutboundSMS) DeliveryResult
}
