package project

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/appforge/service-builder-go-stdlib/internal/project/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/pkg/utilities"
)

// Store is the persistence boundary for projects.
type Store interface {
	Insert(ctx context.Context, p *entity.Project) error
	FindByID(ctx context.Context, id string) (*entity.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Project, error)
	Update(ctx context.Context, p *entity.Project) error
	Delete(ctx context.Context, id string) error
}

// Service encapsulates project business logic.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput carries the caller-supplied fields for a new project.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ProjectType string `json:"project_type"`
	TemplateID  string `json:"template_id"`
	IsPublic    bool   `json:"is_public"`
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*entity.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", shared.ErrValidation)
	}
	if !entity.ValidType(in.ProjectType) {
		return nil, fmt.Errorf("%w: unknown project type %q", shared.ErrValidation, in.ProjectType)
	}
	now := time.Now().UTC()
	p := &entity.Project{
		ID:          utilities.NewKSUID(),
		Name:        name,
		Description: in.Description,
		ProjectType: in.ProjectType,
		OwnerID:     ownerID,
		TemplateID:  in.TemplateID,
		IsPublic:    in.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Project, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// UpdateInput carries the mutable project fields. Ownership never changes.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ProjectType *string `json:"project_type"`
	IsPublic    *bool   `json:"is_public"`
}

func (s *Service) Update(ctx context.Context, p *entity.Project, in UpdateInput) (*entity.Project, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: project name is required", shared.ErrValidation)
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ProjectType != nil {
		if !entity.ValidType(*in.ProjectType) {
			return nil, fmt.Errorf("%w: unknown project type %q", shared.ErrValidation, *in.ProjectType)
		}
		p.ProjectType = *in.ProjectType
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
