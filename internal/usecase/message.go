package usecase

import (
	"strings"

	"contact-sms-relay/internal/domain"
)

const placeholder = "-"

// FormatContactMessage renders the SMS body: one labelled line per field in a
// fixed order. Empty optional fields become "-". Values are used as
// submitted, with no escaping or truncation.
func FormatContactMessage(req *domain.ContactRequest) string {
	lines := []string{
		"Name: " + req.Name,
		"Phone: " + req.Phone,
		"Company: " + orPlaceholder(req.Company),
		"Email: " + orPlaceholder(req.Email),
		"Service: " + orPlaceholder(req.Service),
		"Details: " + orPlaceholder(req.Details),
	}
	return strings.Join(lines, "\n")
}

// composeBody prepends the optional header line to the formatted fields.
func composeBody(header string, req *domain.ContactRequest) string {
	body := FormatContactMessage(req)
	if header == "" {
		return body
	}
	return header + "\n" + body
}

func orPlaceholder(v string) string {
	if v == "" {
		return placeholder
	}
	return v
}
