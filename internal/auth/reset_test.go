package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/auth"
)

func TestNewResetToken(t *testing.T) {
	token := auth.NewResetToken()

	parsed, err := uuid.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestNewResetToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		token := auth.NewResetToken()
		require.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
}
