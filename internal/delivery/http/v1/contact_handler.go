package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"contact-sms-relay/internal/delivery/http/middleware"
	"contact-sms-relay/internal/delivery/http/response"
	"contact-sms-relay/internal/domain"
	"contact-sms-relay/pkg/apperror"
	"contact-sms-relay/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	msgRequiredFields     = "Name and phone are required."
	msgInvalidJSON        = "Invalid JSON payload."
	msgBodyTooLarge       = "Request body too large."
	msgServiceUnavailable = "SMS service temporarily unavailable"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
	security  *security.SecurityLogger
}

// NewContactHandler registers the send-sms route behind the given limiter middleware
func NewContactHandler(r gin.IRoutes, contactUC domain.ContactUsecase, secLog *security.SecurityLogger, limiter gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
		security:  secLog,
	}

	handlers := []gin.HandlerFunc{}
	if limiter != nil {
		handlers = append(handlers, limiter)
	}
	handlers = append(handlers, handler.SendSMS)

	r.POST("/send-sms", handlers...)
}

// SendSMS godoc
// @Summary      Send contact form as SMS
// @Description  Validates a contact form submission and forwards it as a text message to the configured recipient. Rate limited to 6 requests per minute per client.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.SMSResponse
// @Failure      400      {object}  response.SMSResponse
// @Failure      413      {object}  response.SMSResponse
// @Failure      429      {object}  response.SMSResponse
// @Failure      500      {object}  response.SMSResponse
// @Failure      503      {object}  response.SMSResponse
// @Failure      504      {object}  response.SMSResponse
// @Router       /send-sms [post]
func (h *ContactHandler) SendSMS(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		// An empty body falls through to field validation.
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.security.LogMalformedRequest(c.Request.Context(), c.ClientIP(), middleware.GetRequestID(c),
				fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
			c.Error(apperror.New(http.StatusRequestEntityTooLarge, msgBodyTooLarge, err))
			return
		}
		h.security.LogMalformedRequest(c.Request.Context(), c.ClientIP(), middleware.GetRequestID(c), err.Error())
		c.Error(apperror.BadRequest(msgInvalidJSON, err))
		return
	}

	// A client disconnect must not abort a provider call already in flight.
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.contactUC.SendContactSMS(ctx, &req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.security.LogValidationFailed(ctx, c.ClientIP(), middleware.GetRequestID(c), vErr.Fields)
			c.Error(apperror.New(http.StatusBadRequest, msgRequiredFields, err))
		case errors.Is(err, domain.ErrProviderNotConfigured):
			c.Error(apperror.ServiceUnavailable(msgServiceUnavailable, err))
		default:
			c.Error(apperror.Internal(err))
		}
		return
	}

	if result.Success {
		response.Sent(c, http.StatusOK, result.MessageID)
		return
	}

	h.security.LogDeliveryFailed(ctx, c.ClientIP(), middleware.GetRequestID(c), req.Phone, string(result.Failure), result.ErrorDetail)

	status := http.StatusInternalServerError
	if result.Failure == domain.FailureTimeout {
		status = http.StatusGatewayTimeout
	}
	c.Error(apperror.WithDetail(status, result.ErrorDetail, nil))
}
