package mail_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/mail"
)

func TestResetMessage(t *testing.T) {
	link := "http://localhost:4000/auth/reset-password-form/tok-123"
	msg := mail.ResetMessage("a@x.com", link)

	assert.Equal(t, "a@x.com", msg.To)
	assert.Equal(t, "Reset password", msg.Subject)
	assert.Contains(t, msg.HTML, link)
	assert.NotEmpty(t, msg.Text)
}

func TestLogMailer(t *testing.T) {
	m := &mail.LogMailer{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := m.Send(context.Background(), mail.ResetMessage("a@x.com", "http://x"))
	require.NoError(t, err)
}

func TestNewSMTPMailer_MissingCredentials(t *testing.T) {
	_, err := mail.NewSMTPMailer("smtp.example.com", 587, "", "", "noreply@example.com")
	assert.Error(t, err)
}
