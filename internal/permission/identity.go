// Package permission decides who may do what. Identities come from the
// request context; rules are pure functions of identity, HTTP method and,
// for object checks, the owner of the object.
package permission

import (
	"context"

	"review-catalog/internal/data/entity"

	"github.com/google/uuid"
)

// Identity is the caller as seen by the authorization layer. The zero value
// is the anonymous caller.
type Identity struct {
	UserID      uuid.UUID
	Username    string
	Role        entity.UserRole
	IsSuperuser bool
}

// FromUser builds the identity of an authenticated user.
func FromUser(u *entity.User) Identity {
	return Identity{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
	}
}

func (i Identity) Authenticated() bool {
	return i.UserID != uuid.Nil
}

// IsAdmin is true for the admin role and for superusers regardless of role.
func (i Identity) IsAdmin() bool {
	return i.Authenticated() && (i.Role == entity.RoleAdmin || i.IsSuperuser)
}

func (i Identity) IsModerator() bool {
	return i.Authenticated() && i.Role == entity.RoleModerator
}

func (i Identity) IsUser() bool {
	return i.Authenticated() && i.Role == entity.RoleUser
}

// Owns reports whether the caller is the given owner.
func (i Identity) Owns(ownerID uuid.UUID) bool {
	return i.Authenticated() && i.UserID == ownerID
}

type contextKey struct{}

// WithIdentity stores the caller in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the caller stored in ctx, or the anonymous identity.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(contextKey{}).(Identity)
	return id
}
