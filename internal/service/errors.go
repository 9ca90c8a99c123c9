package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailTaken is returned when registering an email that already
	// has an account.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials is returned for both unknown-email and
	// wrong-password logins; the two cases must be indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned by forgot-password for an unknown email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidResetToken covers absent, expired, and already-consumed
	// reset tokens.
	ErrInvalidResetToken = errors.New("invalid token")

	// ErrMailDelivery is returned when the reset email could not be sent.
	ErrMailDelivery = errors.New("could not send reset email")
)

// ValidationError carries a message safe to surface verbatim to the
// caller with a 400 status.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
