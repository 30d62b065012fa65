package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubCollab struct {
	roles map[string]string // "resource/user" -> role
}

func (s *stubCollab) RoleFor(_ context.Context, resourceID, userID string) (string, bool, error) {
	role, ok := s.roles[resourceID+"/"+userID]
	return role, ok, nil
}

func TestGuard_Ownership(t *testing.T) {
	t.Parallel()

	g := NewGuard(nil)
	ctx := context.Background()

	assert.NoError(t, g.Authorize(ctx, "alice", "alice", "p1"))
	assert.NoError(t, g.AuthorizeRead(ctx, "alice", "alice", "p1"))

	assert.ErrorIs(t, g.Authorize(ctx, "bob", "alice", "p1"), ErrDenied)
	assert.ErrorIs(t, g.AuthorizeRead(ctx, "bob", "alice", "p1"), ErrDenied)

	// empty identity never matches, even against an empty owner reference
	assert.ErrorIs(t, g.Authorize(ctx, "", "", "p1"), ErrDenied)
}

func TestGuard_CollaboratorRoles(t *testing.T) {
	t.Parallel()

	collab := &stubCollab{roles: map[string]string{
		"p1/viewer-user": RoleViewer,
		"p1/editor-user": RoleEditor,
		"p1/admin-user":  RoleAdmin,
	}}
	g := NewGuard(collab)
	ctx := context.Background()

	// viewers read but cannot write
	assert.NoError(t, g.AuthorizeRead(ctx, "viewer-user", "alice", "p1"))
	assert.ErrorIs(t, g.Authorize(ctx, "viewer-user", "alice", "p1"), ErrDenied)

	// editors and admins write
	assert.NoError(t, g.Authorize(ctx, "editor-user", "alice", "p1"))
	assert.NoError(t, g.Authorize(ctx, "admin-user", "alice", "p1"))

	// no relation on this resource
	assert.ErrorIs(t, g.AuthorizeRead(ctx, "editor-user", "alice", "p2"), ErrDenied)

	// unknown role string grants nothing
	collab.roles["p1/odd-user"] = "superuser"
	assert.ErrorIs(t, g.AuthorizeRead(ctx, "odd-user", "alice", "p1"), ErrDenied)
}
