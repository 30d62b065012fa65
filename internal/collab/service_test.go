package collab

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	"github.com/appforge/service-builder-go-stdlib/internal/collab/repo"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

func TestAddAndRoleFor(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo())

	c, err := svc.Add(context.Background(), "proj-1", "alice", "bob", auth.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleEditor, c.Role)

	role, ok, err := svc.RoleFor(context.Background(), "proj-1", "bob")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, auth.RoleEditor, role)

	_, ok, err = svc.RoleFor(context.Background(), "proj-1", "carol")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddValidation(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo())

	_, err := svc.Add(context.Background(), "proj-1", "alice", "bob", "superuser")
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = svc.Add(context.Background(), "proj-1", "alice", "", auth.RoleViewer)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	// owner already has full access
	_, err = svc.Add(context.Background(), "proj-1", "alice", "alice", auth.RoleViewer)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestAddDuplicateIsConflict(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo())

	_, err := svc.Add(context.Background(), "proj-1", "alice", "bob", auth.RoleViewer)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "proj-1", "alice", "bob", auth.RoleEditor)
	assert.True(t, errors.Is(err, shared.ErrConflict))
}

func TestRemoveAndList(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo())

	_, err := svc.Add(context.Background(), "proj-1", "alice", "bob", auth.RoleViewer)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "proj-1", "alice", "carol", auth.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "proj-2", "alice", "bob", auth.RoleEditor)
	require.NoError(t, err)

	list, err := svc.List(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Remove(context.Background(), "proj-1", "bob"))
	_, ok, err := svc.RoleFor(context.Background(), "proj-1", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	// removal is scoped to the project
	role, ok, err := svc.RoleFor(context.Background(), "proj-2", "bob")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, auth.RoleEditor, role)

	assert.True(t, errors.Is(svc.Remove(context.Background(), "proj-1", "bob"), shared.ErrNotFound))
}
