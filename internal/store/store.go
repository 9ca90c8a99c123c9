// Package store persists user records. The credential service only
// sees the UserStore interface; the Postgres implementation lives
// alongside an in-memory one used in tests and local development.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/authcore/authcore/internal/models"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when a create collides with the
	// unique-email constraint.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore is the persistence contract consumed by the credential
// service. Implementations own the atomicity of ConsumeResetToken:
// two concurrent calls with the same token must yield exactly one
// success.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Create inserts the user, assigning ID and timestamps.
	// A duplicate email fails with ErrDuplicateEmail.
	Create(ctx context.Context, u *models.User) (*models.User, error)

	// Save persists mutable fields of an existing user.
	Save(ctx context.Context, u *models.User) error

	// AttachResetToken sets the user's reset token and its expiry,
	// replacing any previous token.
	AttachResetToken(ctx context.Context, id, token string, expiresAt time.Time) error

	// ClearResetToken removes any pending reset token.
	ClearResetToken(ctx context.Context, id string) error

	// ConsumeResetToken atomically swaps the password hash and clears
	// the reset token, but only if the token is still attached and
	// unexpired. Returns ErrNotFound otherwise.
	ConsumeResetToken(ctx context.Context, token, newHash string) (*models.User, error)
}
