package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers notification emails through SendGrid.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(apiKey, fromName, fromAddress string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, toName, toAddress, subject, body string) error {
	to := mail.NewEmail(toName, toAddress)
	message := mail.NewSingleEmail(m.from, subject, to, "", body)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	slog.DebugContext(ctx, "email delivered", "to", toAddress, "status", response.StatusCode)
	return nil
}

// LogMailer logs instead of sending. Used in development when no SendGrid
// key is configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, toName, toAddress, subject, body string) error {
	slog.InfoContext(ctx, "email (log only)", "to", toAddress, "subject", subject)
	return nil
}
