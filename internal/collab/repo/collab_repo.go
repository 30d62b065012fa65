package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/appforge/service-builder-go-stdlib/internal/collab/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// CollabRepo provides data access for project collaborators using sqlx.
type CollabRepo struct {
	db *sqlx.DB
}

func NewCollabRepo(db *sqlx.DB) *CollabRepo { return &CollabRepo{db: db} }

// EnsureTable creates the project_collaborators table if not exists (idempotent).
func (r *CollabRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS project_collaborators (
  project_id varchar(32) NOT NULL,
  user_id varchar(32) NOT NULL,
  role TEXT NOT NULL DEFAULT 'viewer',
  joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  PRIMARY KEY (project_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_project_collaborators_user_id ON project_collaborators (user_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func (r *CollabRepo) Insert(ctx context.Context, c *entity.Collaborator) error {
	const q = `INSERT INTO project_collaborators (project_id, user_id, role, joined_at)
	           VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, q, c.ProjectID, c.UserID, c.Role, c.JoinedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return shared.ErrConflict
		}
		return fmt.Errorf("insert collaborator: %w", err)
	}
	return nil
}

func (r *CollabRepo) Delete(ctx context.Context, projectID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM project_collaborators WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *CollabRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Collaborator, error) {
	const q = `SELECT project_id, user_id, role, joined_at
	           FROM project_collaborators WHERE project_id = $1 ORDER BY joined_at`
	var out []*entity.Collaborator
	if err := r.db.SelectContext(ctx, &out, q, projectID); err != nil {
		return nil, err
	}
	return out, nil
}

// RoleFor returns the role userID holds on projectID, if any.
func (r *CollabRepo) RoleFor(ctx context.Context, projectID, userID string) (string, bool, error) {
	const q = `SELECT role FROM project_collaborators WHERE project_id = $1 AND user_id = $2`
	var role string
	if err := r.db.GetContext(ctx, &role, q, projectID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return role, true, nil
}
