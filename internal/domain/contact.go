package domain

import (
	"context"
	"errors"
	"strings"
)

// ErrMissingRequiredFields is matched by every ValidationError.
var ErrMissingRequiredFields = errors.New("name and phone are required")

// ErrProviderNotConfigured is returned when the SMS provider credentials or
// numbers are missing from the process configuration.
var ErrProviderNotConfigured = errors.New("sms provider is not configured")

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Service string `json:"service"`
	Details string `json:"details"`
}

// ValidationError lists the required fields that were absent or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrMissingRequiredFields
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactSMS validates the request, renders the message and hands it to
	// the SMS provider. A non-nil error means the provider was never called.
	SendContactSMS(ctx context.Context, req *ContactRequest) (DeliveryResult, error)
	// Ready reports whether the provider is configured.
	Ready() bool
}
