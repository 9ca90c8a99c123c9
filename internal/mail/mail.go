// Package mail sends outbound transactional email.
package mail

import (
	"context"
	"fmt"
	"log/slog"
)

// Message is a templated outbound email with plain-text and HTML bodies.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages. Send blocks until the message is accepted
// by the transport or the context is done.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ResetMessage builds the forgot-password email. The link embeds the
// raw single-use token.
func ResetMessage(to, resetLink string) Message {
	return Message{
		To:      to,
		Subject: "Reset password",
		Text:    "This email is to reset your password. If you haven't requested it, ignore this email.",
		HTML: fmt.Sprintf(
			"Click <a href='%s'>here</a> to reset your password. If you haven't requested it, ignore this email.",
			resetLink,
		),
	}
}

// LogMailer writes messages to the log instead of delivering them.
// Used in development when no SMTP host is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.Logger.Info("mail not sent (no SMTP configured)",
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
