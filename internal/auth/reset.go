package auth

import "github.com/google/uuid"

// NewResetToken returns an opaque single-use password-reset token.
// UUIDv4 gives 122 bits from crypto/rand, which is enough to make
// guessing infeasible. The token is stored raw on the user row and
// consumed atomically by the store.
func NewResetToken() string {
	return uuid.NewString()
}
