package auth

import (
	"context"
	"errors"
)

// ErrDenied is the single authorization failure; transport maps it to 403.
var ErrDenied = errors.New("not authorized")

// Collaborator roles in ascending order of privilege.
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// CollaboratorLookup resolves the collaborator role a user holds on a
// resource, if any. Implemented by the collab repository.
type CollaboratorLookup interface {
	RoleFor(ctx context.Context, resourceID, userID string) (string, bool, error)
}

// Guard decides allow/deny given a resolved identity and a resource's owner
// reference. The base rule is identity == owner; an optional collaborator
// lookup extends access without changing the contract.
type Guard struct {
	collab CollaboratorLookup
}

func NewGuard(collab CollaboratorLookup) *Guard {
	return &Guard{collab: collab}
}

// Authorize allows mutation: caller must own the resource or hold an
// editor-or-better collaborator role.
func (g *Guard) Authorize(ctx context.Context, identityID, ownerID, resourceID string) error {
	return g.check(ctx, identityID, ownerID, resourceID, RoleEditor)
}

// AuthorizeAdmin allows destructive operations: ownership or an admin
// collaborator role.
func (g *Guard) AuthorizeAdmin(ctx context.Context, identityID, ownerID, resourceID string) error {
	return g.check(ctx, identityID, ownerID, resourceID, RoleAdmin)
}

// AuthorizeRead allows reads: ownership or any collaborator role.
func (g *Guard) AuthorizeRead(ctx context.Context, identityID, ownerID, resourceID string) error {
	return g.check(ctx, identityID, ownerID, resourceID, RoleViewer)
}

func (g *Guard) check(ctx context.Context, identityID, ownerID, resourceID, minRole string) error {
	if identityID != "" && identityID == ownerID {
		return nil
	}
	if g.collab == nil || resourceID == "" {
		return ErrDenied
	}
	role, ok, err := g.collab.RoleFor(ctx, resourceID, identityID)
	if err != nil || !ok {
		return ErrDenied
	}
	if roleRank(role) < roleRank(minRole) {
		return ErrDenied
	}
	return nil
}

func roleRank(role string) int {
	switch role {
	case RoleViewer:
		return 1
	case RoleEditor:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}
