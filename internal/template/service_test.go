package template

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/internal/template/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/template/repo"
)

func TestCreateAndGet(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo())

	created, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:        "Landing Page",
		Category:    "marketing",
		HTMLContent: "<main></main>",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", created.CreatorID)
	assert.EqualValues(t, 1, created.Version)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Landing Page", got.Name)
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo())

	_, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "   "})
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestListFiltersByCategory(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo())

	_, err := svc.Create(context.Background(), "u", CreateInput{Name: "A", Category: "blog"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "u", CreateInput{Name: "B", Category: "shop"})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	blogs, err := svc.List(context.Background(), "blog")
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, "A", blogs[0].Name)
}

func TestUpdateBumpsVersion(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo())

	created, err := svc.Create(context.Background(), "u", CreateInput{Name: "Old"})
	require.NoError(t, err)

	name := "New"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.EqualValues(t, 2, updated.Version)
}

// racingStore bumps the version behind the service's back between its read
// and its write, so the conditional update matches zero rows.
type racingStore struct {
	*repo.MemoryRepo
}

func (s *racingStore) Update(ctx context.Context, t *entity.Template, expectedVersion int64) (int64, error) {
	return s.MemoryRepo.Update(ctx, t, expectedVersion+1)
}

func TestUpdateDetectsConcurrentWrite(t *testing.T) {
	store := &racingStore{MemoryRepo: repo.NewMemoryRepo()}
	svc := NewService(store)

	created, err := svc.Create(context.Background(), "u", CreateInput{Name: "Base"})
	require.NoError(t, err)

	name := "Mine"
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{Name: &name})
	assert.True(t, errors.Is(err, ErrVersionConflict))

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestDelete(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo())

	created, err := svc.Create(context.Background(), "u", CreateInput{Name: "Gone"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(context.Background(), created.ID), shared.ErrNotFound))
}
