package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/appforge/service-builder-go-stdlib/internal/project/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// ProjectRepo provides data access for the projects table using sqlx.
type ProjectRepo struct {
	db *sqlx.DB
}

func NewProjectRepo(db *sqlx.DB) *ProjectRepo { return &ProjectRepo{db: db} }

// EnsureTable creates the projects table if not exists (idempotent).
func (r *ProjectRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS projects (
  id varchar(32) PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  project_type TEXT NOT NULL DEFAULT '',
  owner_id varchar(32) NOT NULL,
  template_id varchar(32) NOT NULL DEFAULT '',
  is_public BOOLEAN NOT NULL DEFAULT false,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_projects_owner_id ON projects (owner_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func (r *ProjectRepo) Insert(ctx context.Context, p *entity.Project) error {
	const q = `INSERT INTO projects (id, name, description, project_type, owner_id, template_id, is_public, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.Name, p.Description, p.ProjectType, p.OwnerID, p.TemplateID, p.IsPublic, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	const q = `SELECT id, name, description, project_type, owner_id, template_id, is_public, created_at, updated_at
	           FROM projects WHERE id = $1`
	var p entity.Project
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Project, error) {
	const q = `SELECT id, name, description, project_type, owner_id, template_id, is_public, created_at, updated_at
	           FROM projects WHERE owner_id = $1 ORDER BY created_at`
	var out []*entity.Project
	if err := r.db.SelectContext(ctx, &out, q, ownerID); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists mutable fields only; owner_id is never touched.
func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	const q = `UPDATE projects SET name=$2, description=$3, project_type=$4, is_public=$5, updated_at=$6
	           WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.Description, p.ProjectType, p.IsPublic, p.UpdatedAt)
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

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
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
