package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/appforge/service-builder-go-stdlib/internal/component/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// MemoryRepo is an in-memory component store for tests and local runs.
type MemoryRepo struct {
	mu         sync.RWMutex
	components map[string]*entity.Component
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{components: map[string]*entity.Component{}}
}

func (r *MemoryRepo) Insert(_ context.Context, c *entity.Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.components[c.ID]; dup {
		return shared.ErrConflict
	}
	cp := *c
	r.components[c.ID] = &cp
	return nil
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (*entity.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepo) ListByProject(_ context.Context, projectID string) ([]*entity.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Component
	for _, c := range r.components {
		if c.ProjectID == projectID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, c *entity.Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.components[c.ID]
	if !ok {
		return shared.ErrNotFound
	}
	cur.Name = c.Name
	cur.ComponentType = c.ComponentType
	cur.Content = c.Content
	cur.Styles = append([]byte(nil), c.Styles...)
	cur.Position = append([]byte(nil), c.Position...)
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.components[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.components, id)
	return nil
}
