// Package email sends transactional mail for the CRM, currently the
// appointment reminder.
package email

import (
	"context"
	"time"

	"crm_backend/platform/config"
)

const subjectAppointmentReminder = "Recordatorio de cita"

// Sender delivers CRM emails.
type Sender interface {
	SendAppointmentReminder(ctx context.Context, toEmail, leadName string, scheduledAt time.Time, location string) error
}

// NewSender builds the configured sender. When email is disabled a no-op
// sender is returned so callers never branch on configuration.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return &noopSender{}, nil
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

type noopSender struct{}

func (n *noopSender) SendAppointmentReminder(context.Context, string, string, time.Time, string) error {
	return nil
}
