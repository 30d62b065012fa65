package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/appforge/service-builder-go-stdlib/internal/project/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// MemoryRepo is an in-memory project store for tests and local runs.
type MemoryRepo struct {
	mu       sync.RWMutex
	projects map[string]*entity.Project
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{projects: map[string]*entity.Project{}}
}

func (r *MemoryRepo) Insert(_ context.Context, p *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.projects[p.ID]; dup {
		return shared.ErrConflict
	}
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, p *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.projects[p.ID]
	if !ok {
		return shared.ErrNotFound
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.ProjectType = p.ProjectType
	cur.IsPublic = p.IsPublic
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}
