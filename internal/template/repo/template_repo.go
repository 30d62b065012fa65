package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/internal/template/entity"
)

// TemplateRepo provides data access for the templates table using sqlx.
type TemplateRepo struct {
	db *sqlx.DB
}

func NewTemplateRepo(db *sqlx.DB) *TemplateRepo { return &TemplateRepo{db: db} }

// EnsureTable creates the templates table if not exists (idempotent).
func (r *TemplateRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS templates (
  id varchar(32) PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  preview_image TEXT NOT NULL DEFAULT '',
  creator_id varchar(32) NOT NULL,
  is_premium BOOLEAN NOT NULL DEFAULT false,
  html_content TEXT NOT NULL DEFAULT '',
  css_content TEXT NOT NULL DEFAULT '',
  js_content TEXT NOT NULL DEFAULT '',
  version BIGINT NOT NULL DEFAULT 1,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_templates_category ON templates (category);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func (r *TemplateRepo) Insert(ctx context.Context, t *entity.Template) error {
	const q = `INSERT INTO templates (id, name, description, category, preview_image, creator_id, is_premium,
	             html_content, css_content, js_content, version, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(ctx, q,
		t.ID, t.Name, t.Description, t.Category, t.PreviewImage, t.CreatorID, t.IsPremium,
		t.HTMLContent, t.CSSContent, t.JSContent, t.Version, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (r *TemplateRepo) FindByID(ctx context.Context, id string) (*entity.Template, error) {
	const q = `SELECT id, name, description, category, preview_image, creator_id, is_premium,
	             html_content, css_content, js_content, version, created_at, updated_at
	           FROM templates WHERE id = $1`
	var t entity.Template
	if err := r.db.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns templates, optionally filtered by category.
func (r *TemplateRepo) List(ctx context.Context, category string) ([]*entity.Template, error) {
	const base = `SELECT id, name, description, category, preview_image, creator_id, is_premium,
	               html_content, css_content, js_content, version, created_at, updated_at
	             FROM templates`
	var out []*entity.Template
	var err error
	if category != "" {
		err = r.db.SelectContext(ctx, &out, base+` WHERE category = $1 ORDER BY created_at`, category)
	} else {
		err = r.db.SelectContext(ctx, &out, base+` ORDER BY created_at`)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists mutable fields when the stored version still matches
// expectedVersion. Returns the number of rows changed; zero with a live row
// means a concurrent writer won.
func (r *TemplateRepo) Update(ctx context.Context, t *entity.Template, expectedVersion int64) (int64, error) {
	const q = `UPDATE templates SET name=$2, description=$3, category=$4, preview_image=$5, is_premium=$6,
	             html_content=$7, css_content=$8, js_content=$9, version=$10, updated_at=$11
	           WHERE id=$1 AND version=$12`
	res, err := r.db.ExecContext(ctx, q,
		t.ID, t.Name, t.Description, t.Category, t.PreviewImage, t.IsPremium,
		t.HTMLContent, t.CSSContent, t.JSContent, t.Version, t.UpdatedAt, expectedVersion)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *TemplateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
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
