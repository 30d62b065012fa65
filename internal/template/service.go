package template

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/internal/template/entity"
	"github.com/appforge/service-builder-go-stdlib/pkg/utilities"
)

// ErrVersionConflict means a concurrent writer updated the template between
// the caller's read and write.
var ErrVersionConflict = errors.New("template version conflict")

// Store is the persistence boundary for templates.
type Store interface {
	Insert(ctx context.Context, t *entity.Template) error
	FindByID(ctx context.Context, id string) (*entity.Template, error)
	List(ctx context.Context, category string) ([]*entity.Template, error)
	Update(ctx context.Context, t *entity.Template, expectedVersion int64) (int64, error)
	Delete(ctx context.Context, id string) error
}

// Service encapsulates template catalog logic.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput carries the caller-supplied fields for a new template.
type CreateInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	PreviewImage string `json:"preview_image"`
	IsPremium    bool   `json:"is_premium"`
	HTMLContent  string `json:"html_content"`
	CSSContent   string `json:"css_content"`
	JSContent    string `json:"js_content"`
}

func (s *Service) Create(ctx context.Context, creatorID string, in CreateInput) (*entity.Template, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: template name is required", shared.ErrValidation)
	}
	now := time.Now().UTC()
	t := &entity.Template{
		ID:           utilities.NewKSUID(),
		Name:         name,
		Description:  in.Description,
		Category:     in.Category,
		PreviewImage: in.PreviewImage,
		CreatorID:    creatorID,
		IsPremium:    in.IsPremium,
		HTMLContent:  in.HTMLContent,
		CSSContent:   in.CSSContent,
		JSContent:    in.JSContent,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Template, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, category string) ([]*entity.Template, error) {
	return s.store.List(ctx, category)
}

// UpdateInput carries the mutable template fields.
type UpdateInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	PreviewImage *string `json:"preview_image"`
	IsPremium    *bool   `json:"is_premium"`
	HTMLContent  *string `json:"html_content"`
	CSSContent   *string `json:"css_content"`
	JSContent    *string `json:"js_content"`
}

// Update applies the input with optimistic locking on version. The loaded
// version is the expected one; a zero-row update against a live row means
// someone else wrote first.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*entity.Template, error) {
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: template name is required", shared.ErrValidation)
		}
		t.Name = name
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.PreviewImage != nil {
		t.PreviewImage = *in.PreviewImage
	}
	if in.IsPremium != nil {
		t.IsPremium = *in.IsPremium
	}
	if in.HTMLContent != nil {
		t.HTMLContent = *in.HTMLContent
	}
	if in.CSSContent != nil {
		t.CSSContent = *in.CSSContent
	}
	if in.JSContent != nil {
		t.JSContent = *in.JSContent
	}
	expected := t.Version
	t.Version = expected + 1
	t.UpdatedAt = time.Now().UTC()
	rows, err := s.store.Update(ctx, t, expected)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrVersionConflict
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
