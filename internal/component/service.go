package component

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/appforge/service-builder-go-stdlib/internal/component/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/pkg/utilities"
)

// Store is the persistence boundary for components.
type Store interface {
	Insert(ctx context.Context, c *entity.Component) error
	FindByID(ctx context.Context, id string) (*entity.Component, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.Component, error)
	Update(ctx context.Context, c *entity.Component) error
	Delete(ctx context.Context, id string) error
}

// QuotaConsumer charges component edits against a user's daily quota.
// Satisfied by the user service.
type QuotaConsumer interface {
	ConsumeEditQuota(ctx context.Context, userID string) error
}

// Generator produces component content from a description. Satisfied by
// the ai client.
type Generator interface {
	Generate(ctx context.Context, name, componentType, description string) (string, error)
}

// Service encapsulates component business logic. Every create and update is
// an "edit" for quota purposes.
type Service struct {
	store     Store
	quota     QuotaConsumer
	generator Generator
}

func NewService(store Store, quota QuotaConsumer, generator Generator) *Service {
	return &Service{store: store, quota: quota, generator: generator}
}

// CreateInput carries the caller-supplied fields for a new component.
type CreateInput struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Content  string          `json:"content"`
	Styles   json.RawMessage `json:"styles"`
	Position json.RawMessage `json:"position"`
}

func (in CreateInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Type) == "" {
		return fmt.Errorf("%w: component name and type are required", shared.ErrValidation)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, editorID, projectID string, in CreateInput) (*entity.Component, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.quota.ConsumeEditQuota(ctx, editorID); err != nil {
		return nil, err
	}
	c := &entity.Component{
		ID:            utilities.NewKSUID(),
		ProjectID:     projectID,
		Name:          strings.TrimSpace(in.Name),
		ComponentType: strings.TrimSpace(in.Type),
		Content:       in.Content,
		Styles:        in.Styles,
		Position:      in.Position,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Generate builds component content through the AI backend, then stores the
// result as a regular component (one quota edit, like any other create).
func (s *Service) Generate(ctx context.Context, editorID, projectID string, in CreateInput) (*entity.Component, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	content, err := s.generator.Generate(ctx, in.Name, in.Type, in.Content)
	if err != nil {
		return nil, err
	}
	in.Content = content
	return s.Create(ctx, editorID, projectID, in)
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Component, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) ListByProject(ctx context.Context, projectID string) ([]*entity.Component, error) {
	return s.store.ListByProject(ctx, projectID)
}

// UpdateInput carries the mutable component fields.
type UpdateInput struct {
	Name     *string         `json:"name"`
	Type     *string         `json:"type"`
	Content  *string         `json:"content"`
	Styles   json.RawMessage `json:"styles"`
	Position json.RawMessage `json:"position"`
}

func (s *Service) Update(ctx context.Context, editorID string, c *entity.Component, in UpdateInput) (*entity.Component, error) {
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: component name is required", shared.ErrValidation)
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		if strings.TrimSpace(*in.Type) == "" {
			return nil, fmt.Errorf("%w: component type is required", shared.ErrValidation)
		}
		c.ComponentType = strings.TrimSpace(*in.Type)
	}
	if in.Content != nil {
		c.Content = *in.Content
	}
	if in.Styles != nil {
		c.Styles = in.Styles
	}
	if in.Position != nil {
		c.Position = in.Position
	}
	if err := s.quota.ConsumeEditQuota(ctx, editorID); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
