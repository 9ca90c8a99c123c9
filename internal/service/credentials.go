// Package service implements the credential lifecycle: registration,
// login, and the forgot/reset-password flow. Storage and mail are
// reached only through their interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/authcore/authcore/internal/auth"
	mailpkg "github.com/authcore/authcore/internal/mail"
	"github.com/authcore/authcore/internal/models"
	"github.com/authcore/authcore/internal/store"
)

// Password length bounds applied at registration and reset.
const (
	minPasswordLen = 6
	maxPasswordLen = 50
)

// dummyHash is verified against when the login email is unknown, so an
// unknown email costs the same as a wrong password. It never matches.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Session is the outcome of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// CredentialService orchestrates all credential operations. It holds no
// cross-request state; every method is a single unit of work.
type CredentialService struct {
	store      store.UserStore
	mailer     mailpkg.Mailer
	hasher     auth.PasswordHasher
	tokens     *auth.TokenIssuer
	resetTTL   time.Duration
	rootDomain string
	logger     *slog.Logger
}

func NewCredentialService(
	userStore store.UserStore,
	mailer mailpkg.Mailer,
	hasher auth.PasswordHasher,
	tokens *auth.TokenIssuer,
	resetTTL time.Duration,
	rootDomain string,
	logger *slog.Logger,
) *CredentialService {
	return &CredentialService{
		store:      userStore,
		mailer:     mailer,
		hasher:     hasher,
		tokens:     tokens,
		resetTTL:   resetTTL,
		rootDomain: rootDomain,
		logger:     logger,
	}
}

// Register creates an account with role USER. The name defaults to the
// email when empty. A taken email fails with ErrEmailTaken, including
// when two registrations race: the store's unique constraint decides.
func (s *CredentialService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if name == "" {
		name = email
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.store.Create(ctx, &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Active:       false,
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies the credentials and issues a session token. Malformed
// input fails validation before any lookup. Unknown email and wrong
// password return the same error; a hash verification still runs in
// the unknown-email case to keep timing uniform.
func (s *CredentialService) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.hasher.Verify(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ForgotPassword attaches a fresh single-use reset token to the account
// and emails a link embedding it. A previous pending token is
// overwritten. If the email cannot be sent the token is detached again
// so the operation never reports failure with a live token attached.
func (s *CredentialService) ForgotPassword(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("looking up user: %w", err)
	}

	token := auth.NewResetToken()
	expiresAt := time.Now().Add(s.resetTTL)

	if err := s.store.AttachResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("attaching reset token: %w", err)
	}

	link := s.rootDomain + "/auth/reset-password-form/" + token
	if err := s.mailer.Send(ctx, mailpkg.ResetMessage(user.Email, link)); err != nil {
		s.logger.Error("reset email failed", "user_id", user.ID, "error", err)
		if clearErr := s.store.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Error("could not detach reset token after mail failure",
				"user_id", user.ID, "error", clearErr)
		}
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	s.logger.Info("reset email sent", "user_id", user.ID)
	return nil
}

// ResetPassword consumes a reset token and replaces the password hash.
// Validation runs before any storage access. The lookup and clear are a
// single atomic store operation, so a token authorizes at most one
// reset even under concurrent attempts.
func (s *CredentialService) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if newPassword != confirmPassword {
		return invalidf("passwords do not match")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.store.ConsumeResetToken(ctx, token, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("consuming reset token: %w", err)
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}

// Account returns the user behind an authenticated session.
func (s *CredentialService) Account(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

func validateEmail(email string) error {
	if email == "" {
		return invalidf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalidf("invalid email")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return invalidf("password is required")
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return invalidf("password must be between %d and %d characters", minPasswordLen, maxPasswordLen)
	}
	return nil
}
