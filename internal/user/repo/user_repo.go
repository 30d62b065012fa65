package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/internal/user/entity"
)

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the users table if not exists (idempotent).
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
  id varchar(32) PRIMARY KEY,
  email TEXT NOT NULL,
  username TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'beginner',
  daily_edits INT NOT NULL DEFAULT 0,
  last_edit_date DATE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email));
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Insert stores a new user. Duplicate email or id surfaces as
// shared.ErrConflict via the unique constraints, which also decides the
// winner between two concurrent registrations.
func (r *UserRepo) Insert(ctx context.Context, u *entity.User) error {
	const q = `INSERT INTO users (id, email, username, password_hash, role, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return shared.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail returns the user with the given email (case-insensitive) or
// shared.ErrNotFound.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	const q = `SELECT id, email, username, password_hash, role, daily_edits, last_edit_date, created_at
	           FROM users WHERE LOWER(email) = LOWER($1)`
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID returns the user by id or shared.ErrNotFound.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	const q = `SELECT id, email, username, password_hash, role, daily_edits, last_edit_date, created_at
	           FROM users WHERE id = $1`
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ConsumeEdit atomically counts one component edit against the daily quota.
// The counter resets when the stored date is not today. Returns false when
// the user is already at the limit.
func (r *UserRepo) ConsumeEdit(ctx context.Context, id string, limit int) (bool, error) {
	const q = `UPDATE users
	           SET daily_edits = CASE WHEN last_edit_date = CURRENT_DATE THEN daily_edits + 1 ELSE 1 END,
	               last_edit_date = CURRENT_DATE
	           WHERE id = $1
	             AND (last_edit_date IS NULL OR last_edit_date <> CURRENT_DATE OR daily_edits < $2)
	           RETURNING 1`
	var one int
	err := r.db.GetContext(ctx, &one, q, id, limit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
