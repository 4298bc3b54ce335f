// Package scope implements the row-level access boundary applied to every
// read and write. A scope is either admin (no owner filter) or owner
// (restricted to one identity's rows); both remember the acting identity
// so creations can be owner-stamped.
package scope

import (
	"context"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/models"
)

type Scope struct {
	admin   bool
	actorID uuid.UUID
}

func Admin(actorID uuid.UUID) Scope { return Scope{admin: true, actorID: actorID} }

func Owner(id uuid.UUID) Scope { return Scope{actorID: id} }

func (s Scope) IsAdmin() bool { return s.admin }

// ActorID is the identity acting under this scope.
func (s Scope) ActorID() uuid.UUID { return s.actorID }

// OwnerID is the identity whose rows an owner scope is restricted to.
func (s Scope) OwnerID() uuid.UUID { return s.actorID }

// Allows reports whether a row owned by ownerID is visible under the
// scope.
func (s Scope) Allows(ownerID uuid.UUID) bool {
	return s.admin || s.actorID == ownerID
}

// ProfileLookup is the slice of the store the resolver needs.
type ProfileLookup interface {
	ProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type Resolver struct {
	profiles ProfileLookup
}

func NewResolver(profiles ProfileLookup) *Resolver {
	return &Resolver{profiles: profiles}
}

// Resolve maps an identity to its scope. Anything short of a confirmed
// admin role, including a failed profile lookup, resolves to owner scope:
// the resolver fails closed, never open.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) Scope {
	p, err := r.profiles.ProfileByID(ctx, userID)
	if err != nil || p == nil {
		return Owner(userID)
	}
	if p.Role == models.RoleAdmin {
		return Admin(userID)
	}
	return Owner(userID)
}
