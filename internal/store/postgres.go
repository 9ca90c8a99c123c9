package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/authcore/authcore/internal/models"
)

// pgUniqueViolation is the Postgres error code for a unique constraint hit.
const pgUniqueViolation = "23505"

const userColumns = `id, email, name, password_hash, role, active,
	reset_token, reset_token_expires_at, created_at, updated_at`

// PostgresStore implements UserStore on top of sqlx/pgx.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `
		SELECT `+userColumns+`
		FROM users
		WHERE id=$1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `
		SELECT `+userColumns+`
		FROM users
		WHERE email=$1
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Active).
		Scan(&u.CreatedAt, &u.UpdatedAt)

	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) Save(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email=$2, name=$3, password_hash=$4, role=$5, active=$6,
		    reset_token=$7, reset_token_expires_at=$8, updated_at=now()
		WHERE id=$1
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Active,
		u.ResetToken, u.ResetTokenExpiresAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AttachResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET reset_token=$2, reset_token_expires_at=$3, updated_at=now()
		WHERE id=$1
	`, id, token, expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ClearResetToken(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET reset_token=NULL, reset_token_expires_at=NULL, updated_at=now()
		WHERE id=$1
	`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ConsumeResetToken is a single conditional UPDATE so that concurrent
// resets with the same token cannot both succeed: the first one clears
// the token and the second no longer matches the WHERE clause.
func (s *PostgresStore) ConsumeResetToken(ctx context.Context, token, newHash string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `
		UPDATE users
		SET password_hash=$2, reset_token=NULL, reset_token_expires_at=NULL, updated_at=now()
		WHERE reset_token=$1 AND reset_token_expires_at > now()
		RETURNING `+userColumns+`
	`, token, newHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
