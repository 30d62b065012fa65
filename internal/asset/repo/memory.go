package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/appforge/service-builder-go-stdlib/internal/asset/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// MemoryRepo is an in-memory asset store for tests and local runs.
type MemoryRepo struct {
	mu     sync.RWMutex
	assets map[string]*entity.Asset
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{assets: map[string]*entity.Asset{}}
}

func (r *MemoryRepo) Insert(_ context.Context, a *entity.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.assets[a.ID]; dup {
		return shared.ErrConflict
	}
	cp := *a
	r.assets[a.ID] = &cp
	return nil
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (*entity.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepo) ListByProject(_ context.Context, projectID string) ([]*entity.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Asset
	for _, a := range r.assets {
		if a.ProjectID == projectID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.assets, id)
	return nil
}
