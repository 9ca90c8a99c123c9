package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPMailer delivers messages over SMTP.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer builds an SMTP client with PLAIN auth. Credentials are
// validated here so a misconfigured transport fails at startup, not on
// the first forgot-password request.
func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("mail: SMTP credentials are not configured")
	}

	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("mail: creating SMTP client: %w", err)
	}

	return &SMTPMailer{client: client, from: from}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	mm := gomail.NewMsg()
	if err := mm.From(m.from); err != nil {
		return fmt.Errorf("mail: invalid sender: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("mail: invalid recipient: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(gomail.TypeTextPlain, msg.Text)
	mm.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("mail: sending message: %w", err)
	}
	return nil
}
