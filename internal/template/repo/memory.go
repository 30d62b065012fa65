package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/internal/template/entity"
)

// MemoryRepo is an in-memory template store for tests and local runs.
type MemoryRepo struct {
	mu        sync.RWMutex
	templates map[string]*entity.Template
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{templates: map[string]*entity.Template{}}
}

func (r *MemoryRepo) Insert(_ context.Context, t *entity.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.templates[t.ID]; dup {
		return shared.ErrConflict
	}
	cp := *t
	r.templates[t.ID] = &cp
	return nil
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (*entity.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *MemoryRepo) List(_ context.Context, category string) ([]*entity.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Template
	for _, t := range r.templates {
		if category != "" && t.Category != category {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, t *entity.Template, expectedVersion int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.templates[t.ID]
	if !ok || cur.Version != expectedVersion {
		return 0, nil
	}
	cp := *t
	r.templates[t.ID] = &cp
	return 1, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}
