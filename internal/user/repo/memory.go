package repo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/internal/user/entity"
)

// MemoryRepo is an in-memory user store for tests and local runs. The mutex
// makes check-then-insert on unique email atomic, so of two concurrent
// registrations with the same email exactly one wins.
type MemoryRepo struct {
	mu      sync.Mutex
	byID    map[string]*entity.User
	byEmail map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    map[string]*entity.User{},
		byEmail: map[string]string{},
	}
}

func (r *MemoryRepo) Insert(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, dup := r.byEmail[key]; dup {
		return shared.ErrConflict
	}
	if _, dup := r.byID[u.ID]; dup {
		return shared.ErrConflict
	}
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[key] = u.ID
	return nil
}

func (r *MemoryRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepo) ConsumeEdit(_ context.Context, id string, limit int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return false, shared.ErrNotFound
	}
	today := time.Now().Truncate(24 * time.Hour)
	if u.LastEditDate == nil || !u.LastEditDate.Equal(today) {
		u.DailyEdits = 1
		u.LastEditDate = &today
		return true, nil
	}
	if u.DailyEdits >= limit {
		return false, nil
	}
	u.DailyEdits++
	return true, nil
}
