package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/appforge/service-builder-go-stdlib/internal/component/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// ComponentRepo provides data access for the components table using sqlx.
type ComponentRepo struct {
	db *sqlx.DB
}

func NewComponentRepo(db *sqlx.DB) *ComponentRepo { return &ComponentRepo{db: db} }

// EnsureTable creates the components table if not exists (idempotent).
func (r *ComponentRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS components (
  id varchar(32) PRIMARY KEY,
  project_id varchar(32) NOT NULL,
  name TEXT NOT NULL,
  component_type TEXT NOT NULL,
  content TEXT NOT NULL DEFAULT '',
  styles JSONB NOT NULL DEFAULT '{}'::jsonb,
  position JSONB NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_components_project_id ON components (project_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func (r *ComponentRepo) Insert(ctx context.Context, c *entity.Component) error {
	const q = `INSERT INTO components (id, project_id, name, component_type, content, styles, position, created_at)
	           VALUES ($1, $2, $3, $4, $5, COALESCE($6, '{}'::jsonb), COALESCE($7, '{}'::jsonb), $8)`
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.ProjectID, c.Name, c.ComponentType, c.Content, nullableRaw(c.Styles), nullableRaw(c.Position), c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert component: %w", err)
	}
	return nil
}

func (r *ComponentRepo) FindByID(ctx context.Context, id string) (*entity.Component, error) {
	const q = `SELECT id, project_id, name, component_type, content, styles, position, created_at
	           FROM components WHERE id = $1`
	var c entity.Component
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ComponentRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Component, error) {
	const q = `SELECT id, project_id, name, component_type, content, styles, position, created_at
	           FROM components WHERE project_id = $1 ORDER BY created_at`
	var out []*entity.Component
	if err := r.db.SelectContext(ctx, &out, q, projectID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ComponentRepo) Update(ctx context.Context, c *entity.Component) error {
	const q = `UPDATE components SET name=$2, component_type=$3, content=$4,
	           styles=COALESCE($5, '{}'::jsonb), position=COALESCE($6, '{}'::jsonb)
	           WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.ComponentType, c.Content, nullableRaw(c.Styles), nullableRaw(c.Position))
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

func (r *ComponentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM components WHERE id = $1`, id)
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

// nullableRaw avoids sending invalid empty JSON to the driver.
func nullableRaw(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
