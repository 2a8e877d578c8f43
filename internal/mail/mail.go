// Package mail delivers transactional email. The only message this
// system sends is the password-reset mail, so the interface is exactly
// that narrow; callers can't grow an untyped "send anything" surface.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Sender dispatches a password-reset message carrying the given token.
type Sender interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}

// resetSubject and resetBody form the reset message. The token is the
// only dynamic part; the user types it (or clicks it) back into the
// reset form within the hour.
const resetSubject = "Password reset"

const resetBody = `<p>A password reset was requested for your account.</p>
<p>Your reset code is:</p>
<h2 style="font-family: monospace">%s</h2>
<p>It expires in one hour. If you didn't request a reset, ignore this
message; your password is unchanged.</p>`

// SMTPSender sends mail through an authenticated SMTP account.
type SMTPSender struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPSender builds a sender for the given SMTP account.
func NewSMTPSender(host string, port int, username, password, from string, logger *slog.Logger) (*SMTPSender, error) {
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("mail: creating SMTP client: %w", err)
	}
	return &SMTPSender{client: client, from: from, logger: logger}, nil
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, to, token string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mail: setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: setting to address: %w", err)
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(gomail.TypeTextHTML, fmt.Sprintf(resetBody, token))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: sending reset mail to %s: %w", to, err)
	}

	s.logger.Info("password reset mail sent", slog.String("to", to))
	return nil
}

// LogSender is the no-SMTP fallback used when mail isn't configured:
// it logs the token instead of delivering it. Dev environments only;
// in production the token would end up in the logs.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendPasswordReset(ctx context.Context, to, token string) error {
	s.logger.Warn("mail delivery disabled; logging reset token",
		slog.String("to", to),
		slog.String("token", token),
	)
	return nil
}
