// Package email delivers customer-facing mail over SMTP. When no SMTP host
// is configured a no-op sender keeps the rest of the application working.
package email

import (
	"context"

	"inkstitch_backend/platform/config"
)

// QuoteEmailData carries everything the quote email template needs.
type QuoteEmailData struct {
	CustomerName string
	Reference    string
	TotalPrice   float64
	ValidUntil   string
	QuoteURL     string
}

// Sender delivers transactional email.
type Sender interface {
	SendQuoteEmail(ctx context.Context, toEmail string, data QuoteEmailData) error
}

// NewSender picks the SMTP sender when email is configured, otherwise a noop.
func NewSender(cfg config.SMTPConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}

// NoopSender drops all mail. Used in development and tests.
type NoopSender struct{}

func (NoopSender) SendQuoteEmail(ctx context.Context, toEmail string, data QuoteEmailData) error {
	return nil
}
