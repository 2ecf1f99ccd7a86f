package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/devlink/service-social-go/internal/user/entity"
)

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the users table if not exists (idempotent).
// This is a convenience for early development; prefer migrations in production.
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE EXTENSION IF NOT EXISTS citext;
CREATE TABLE IF NOT EXISTS users (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  email CITEXT UNIQUE NOT NULL,
  password_hash TEXT NOT NULL,
  avatar TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a new user row and returns the new ID.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) (int64, error) {
	const q = `INSERT INTO users (name, email, password_hash, avatar)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, q, u.Name, u.Email, u.PasswordHash, u.Avatar).
		Scan(&u.ID, &u.CreatedAt); err != nil {
		return 0, err
	}
	return u.ID, nil
}

// GetByEmail returns the user matched by email (case-insensitive due to
// citext) or sql.ErrNoRows.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const q = `SELECT id, name, email, password_hash, avatar, created_at FROM users WHERE email=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByID fetches a full user row or sql.ErrNoRows.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	const q = `SELECT id, name, email, password_hash, avatar, created_at FROM users WHERE id=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes a user row. Deleting a missing row is not an error.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
