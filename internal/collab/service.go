package collab

import (
	"context"
	"fmt"
	"time"

	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	"github.com/appforge/service-builder-go-stdlib/internal/collab/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// Store is the persistence boundary for project collaborators.
type Store interface {
	Insert(ctx context.Context, c *entity.Collaborator) error
	Delete(ctx context.Context, projectID, userID string) error
	ListByProject(ctx context.Context, projectID string) ([]*entity.Collaborator, error)
	RoleFor(ctx context.Context, projectID, userID string) (string, bool, error)
}

// Service manages collaborator grants and doubles as the guard's
// auth.CollaboratorLookup.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func validRole(role string) bool {
	switch role {
	case auth.RoleViewer, auth.RoleEditor, auth.RoleAdmin:
		return true
	}
	return false
}

// Add grants userID a role on projectID. The project owner cannot be added
// as a collaborator of their own project.
func (s *Service) Add(ctx context.Context, projectID, ownerID, userID, role string) (*entity.Collaborator, error) {
	if !validRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, role)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", shared.ErrValidation)
	}
	if userID == ownerID {
		return nil, fmt.Errorf("%w: owner is already a member", shared.ErrValidation)
	}
	c := &entity.Collaborator{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Remove(ctx context.Context, projectID, userID string) error {
	return s.store.Delete(ctx, projectID, userID)
}

func (s *Service) List(ctx context.Context, projectID string) ([]*entity.Collaborator, error) {
	return s.store.ListByProject(ctx, projectID)
}

// RoleFor implements auth.CollaboratorLookup.
func (s *Service) RoleFor(ctx context.Context, resourceID, userID string) (string, bool, error) {
	return s.store.RoleFor(ctx, resourceID, userID)
}
