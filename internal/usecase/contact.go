package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contact-sms-relay/internal/domain"
	"contact-sms-relay/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// DeliveryObserver is notified of every provider call outcome.
type DeliveryObserver interface {
	ObserveDelivery(result domain.DeliveryResult)
}

// ContactConfig carries the provider-side numbers, fixed at startup.
type ContactConfig struct {
	From string
	To   string
	// Header, when set, is sent as a first line above the field lines.
	Header string
	// Configured is false when credentials or numbers are missing.
	Configured bool
}

type contactUsecase struct {
	sender   domain.SMSSender
	validate *validator.Validate
	cfg      ContactConfig
	observer DeliveryObserver
}

// NewContactUsecase creates a new contact usecase. observer may be nil.
func NewContactUsecase(sender domain.SMSSender, validate *validator.Validate, cfg ContactConfig, observer DeliveryObserver) domain.ContactUsecase {
	if validate == nil {
		validate = validator.New()
	}
	return &contactUsecase{
		sender:   sender,
		validate: validate,
		cfg:      cfg,
		observer: observer,
	}
}

func (uc *contactUsecase) Ready() bool {
	return uc.cfg.Configured && uc.sender != nil
}

// SendContactSMS validates the contact request and sends the SMS
func (uc *contactUsecase) SendContactSMS(ctx context.Context, req *domain.ContactRequest) (domain.DeliveryResult, error) {
	if err := uc.Validate(req); err != nil {
		return domain.DeliveryResult{}, err
	}

	if !uc.Ready() {
		return domain.DeliveryResult{}, domain.ErrProviderNotConfigured
	}

	result := uc.sender.Send(ctx, domain.OutboundSMS{
		From: uc.cfg.From,
		To:   uc.cfg.To,
		Body: composeBody(uc.cfg.Header, req),
	})

	if uc.observer != nil {
		uc.observer.ObserveDelivery(result)
	}

	if result.Success {
		logger.Log.Info("SMS sent successfully", "sid", result.MessageID)
	} else {
		logger.Log.Error("Error sending SMS", "failure", string(result.Failure), "error", result.ErrorDetail)
	}
	return result, nil
}

// Validate checks that name and phone are present and non-empty. No format
// checks are applied to any field.
func (uc *contactUsecase) Validate(req *domain.ContactRequest) error {
	if req == nil {
		return &domain.ValidationError{Fields: []string{"name", "phone"}}
	}

	err := uc.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate contact request: %w", err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return &domain.ValidationError{Fields: fields}
}
