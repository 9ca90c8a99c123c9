package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/auth"
)

const testSecret = "test-secret"

func TestNewTokenIssuer_EmptySecret(t *testing.T) {
	_, err := auth.NewTokenIssuer("", time.Hour)
	require.Error(t, err)
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	token, exp, err := issuer.Issue("user-42", "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID())
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSecret, -time.Minute)
	require.NoError(t, err)

	token, _, err := issuer.Issue("user-42", "a@x.com")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokenIssuer_Tampered(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	token, _, err := issuer.Issue("user-42", "a@x.com")
	require.NoError(t, err)

	// Flip part of the payload; the signature no longer matches.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = issuer.Verify(tampered)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenIssuer_WrongKey(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	other, err := auth.NewTokenIssuer("different-secret", time.Hour)
	require.NoError(t, err)

	token, _, err := issuer.Issue("user-42", "a@x.com")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	_, err = issuer.Verify("not.a.jwt")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}
