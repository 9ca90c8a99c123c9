package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/authcore/authcore/internal/models"
)

// MemoryStore is a mutex-guarded in-memory UserStore for tests and
// local development. The mutex makes ConsumeResetToken naturally
// atomic, matching the conditional-update guarantee of Postgres.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(u), nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s.byID[id]), nil
}

func (s *MemoryStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[u.Email]; exists {
		return nil, ErrDuplicateEmail
	}

	stored := clone(u)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.byID[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID
	return clone(stored), nil
}

func (s *MemoryStore) Save(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[u.ID]
	if !ok {
		return ErrNotFound
	}
	if id, exists := s.byEmail[u.Email]; exists && id != u.ID {
		return ErrDuplicateEmail
	}

	stored := clone(u)
	stored.CreatedAt = old.CreatedAt
	stored.UpdatedAt = time.Now()

	delete(s.byEmail, old.Email)
	s.byID[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID
	return nil
}

func (s *MemoryStore) AttachResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	exp := expiresAt
	u.ResetToken = &token
	u.ResetTokenExpiresAt = &exp
	u.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) ClearResetToken(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.ResetToken = nil
	u.ResetTokenExpiresAt = nil
	u.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) ConsumeResetToken(ctx context.Context, token, newHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.ResetToken == nil || *u.ResetToken != token {
			continue
		}
		if u.ResetTokenExpiresAt == nil || time.Now().After(*u.ResetTokenExpiresAt) {
			return nil, ErrNotFound
		}
		u.PasswordHash = newHash
		u.ResetToken = nil
		u.ResetTokenExpiresAt = nil
		u.UpdatedAt = time.Now()
		return clone(u), nil
	}
	return nil, ErrNotFound
}

func clone(u *models.User) *models.User {
	c := *u
	if u.ResetToken != nil {
		t := *u.ResetToken
		c.ResetToken = &t
	}
	if u.ResetTokenExpiresAt != nil {
		e := *u.ResetTokenExpiresAt
		c.ResetTokenExpiresAt = &e
	}
	return &c
}
