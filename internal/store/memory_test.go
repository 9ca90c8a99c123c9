package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/models"
	"github.com/authcore/authcore/internal/store"
)

func newUser(email string) *models.User {
	return &models.User{
		Email:        email,
		Name:         email,
		PasswordHash: "hash",
		Role:         models.RoleUser,
	}
}

func TestMemoryStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	created, err := s.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byEmail, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	_, err = s.FindByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	_, err := s.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)

	_, err = s.Create(ctx, newUser("a@x.com"))
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestMemoryStore_ConsumeResetToken(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	u, err := s.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, s.AttachResetToken(ctx, u.ID, "tok", time.Now().Add(time.Hour)))

	got, err := s.ConsumeResetToken(ctx, "tok", "newhash")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "newhash", got.PasswordHash)
	assert.Nil(t, got.ResetToken)

	// Single use: the same token never authorizes a second reset.
	_, err = s.ConsumeResetToken(ctx, "tok", "otherhash")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_ConsumeExpiredToken(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	u, err := s.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, s.AttachResetToken(ctx, u.ID, "tok", time.Now().Add(-time.Minute)))

	_, err = s.ConsumeResetToken(ctx, "tok", "newhash")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_ConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	u, err := s.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)
	require.NoError(t, s.AttachResetToken(ctx, u.ID, "tok", time.Now().Add(time.Hour)))

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ConsumeResetToken(ctx, "tok", "newhash")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, store.ErrNotFound)
		}
	}
	assert.Equal(t, 1, successes, "exactly one consume must win")
}

func TestMemoryStore_ClearResetToken(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	u, err := s.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)
	require.NoError(t, s.AttachResetToken(ctx, u.ID, "tok", time.Now().Add(time.Hour)))
	require.NoError(t, s.ClearResetToken(ctx, u.ID))

	_, err = s.ConsumeResetToken(ctx, "tok", "newhash")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_Save(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	u, err := s.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)

	u.Name = "renamed"
	require.NoError(t, s.Save(ctx, u))

	got, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	err = s.Save(ctx, newUser("ghost@x.com"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}
