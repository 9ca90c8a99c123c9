// Package auth provides the credential primitives: password hashing,
// session token issuance, reset tokens, and the session cookie.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the rest of the stored hashes were
// created with. Changing it only affects new hashes.
const bcryptCost = 10

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	// Hash produces a salted one-way hash of the password.
	Hash(password string) (string, error)

	// Verify reports whether the password matches the stored hash.
	// A corrupt or foreign hash verifies as false, never panics.
	Verify(password, hash string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt. It is stateless
// and safe for concurrent use.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcryptCost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
