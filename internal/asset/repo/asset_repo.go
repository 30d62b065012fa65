package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/appforge/service-builder-go-stdlib/internal/asset/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// AssetRepo provides data access for the assets table using sqlx.
type AssetRepo struct {
	db *sqlx.DB
}

func NewAssetRepo(db *sqlx.DB) *AssetRepo { return &AssetRepo{db: db} }

// EnsureTable creates the assets table if not exists (idempotent).
func (r *AssetRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS assets (
  id varchar(32) PRIMARY KEY,
  project_id varchar(32) NOT NULL,
  name TEXT NOT NULL,
  asset_type TEXT NOT NULL DEFAULT 'other',
  url TEXT NOT NULL,
  path TEXT NOT NULL,
  metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_assets_project_id ON assets (project_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func (r *AssetRepo) Insert(ctx context.Context, a *entity.Asset) error {
	const q = `INSERT INTO assets (id, project_id, name, asset_type, url, path, metadata, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, '{}'::jsonb), $8)`
	var meta any
	if len(a.Metadata) > 0 {
		meta = []byte(a.Metadata)
	}
	_, err := r.db.ExecContext(ctx, q, a.ID, a.ProjectID, a.Name, a.AssetType, a.URL, a.Path, meta, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (r *AssetRepo) FindByID(ctx context.Context, id string) (*entity.Asset, error) {
	const q = `SELECT id, project_id, name, asset_type, url, path, metadata, created_at
	           FROM assets WHERE id = $1`
	var a entity.Asset
	if err := r.db.GetContext(ctx, &a, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Asset, error) {
	const q = `SELECT id, project_id, name, asset_type, url, path, metadata, created_at
	           FROM assets WHERE project_id = $1 ORDER BY created_at`
	var out []*entity.Asset
	if err := r.db.SelectContext(ctx, &out, q, projectID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AssetRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
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
