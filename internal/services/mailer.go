package services

import (
	"context"
	"fmt"

	"github.com/emanmohamed354/backend-diabetic/internal/config"
	"github.com/wneessen/go-mail"
)

// Notifier dispatches a password-reset code to a user. Send failures are
// reported to the caller and never retried.
type Notifier interface {
	SendPasswordResetOTP(ctx context.Context, to string, code int) error
}

// SMTPNotifier sends the OTP mail over plain SMTP with auth.
type SMTPNotifier struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
	}
}

func (n *SMTPNotifier) SendPasswordResetOTP(ctx context.Context, to string, code int) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject("Password Reset OTP")
	msg.SetBodyString(mail.TypeTextPlain,
		fmt.Sprintf("Your OTP code is %d. It will expire in 1 hour.", code))

	client, err := mail.NewClient(n.host,
		mail.WithPort(n.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.user),
		mail.WithPassword(n.password),
	)
	if err != nil {
		return fmt.Errorf("failed to build mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send OTP mail: %w", err)
	}
	return nil
}
