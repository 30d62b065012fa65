package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/appforge/service-builder-go-stdlib/internal/collab/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// MemoryRepo is an in-memory collaborator store for tests and local runs.
type MemoryRepo struct {
	mu      sync.RWMutex
	entries map[string]*entity.Collaborator // "project/user"
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{entries: map[string]*entity.Collaborator{}}
}

func key(projectID, userID string) string { return projectID + "/" + userID }

func (r *MemoryRepo) Insert(_ context.Context, c *entity.Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(c.ProjectID, c.UserID)
	if _, dup := r.entries[k]; dup {
		return shared.ErrConflict
	}
	cp := *c
	r.entries[k] = &cp
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, projectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(projectID, userID)
	if _, ok := r.entries[k]; !ok {
		return shared.ErrNotFound
	}
	delete(r.entries, k)
	return nil
}

func (r *MemoryRepo) ListByProject(_ context.Context, projectID string) ([]*entity.Collaborator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Collaborator
	for _, c := range r.entries {
		if c.ProjectID == projectID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (r *MemoryRepo) RoleFor(_ context.Context, projectID, userID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[key(projectID, userID)]
	if !ok {
		return "", false, nil
	}
	return c.Role, true, nil
}
