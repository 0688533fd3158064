package authz

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

const (
	// RoleSuperAdmin is held only by the distinguished built-in account; it
	// never corresponds to a stored user row.
	RoleSuperAdmin = "superadmin"
	// RoleEditor is the default role for stored committee accounts.
	RoleEditor = "editor"
)

// Identity is the authenticated actor threaded through request context. A nil
// Identity means anonymous.
type Identity struct {
	Username string
	Role     string
}

func (i *Identity) IsSuperAdmin() bool {
	return i != nil && i.Role == RoleSuperAdmin
}

type identityContextKey struct{}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext retrieves the Identity stored in ctx. It returns nil if
// ctx is nil, if no identity is stored, or if the stored value has a
// different type.
func IdentityFromContext(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}

	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok {
		return nil
	}

	return id
}

// ActorName returns the username for audit entries, or empty for anonymous.
func ActorName(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.Username
	}
	return ""
}

// RequireCommittee passes for any authenticated identity (committee member or
// super-admin).
func RequireCommittee(ctx context.Context) error {
	if IdentityFromContext(ctx) == nil {
		return ErrUnauthenticated
	}
	return nil
}

// RequireSuperAdmin passes only for the built-in super-admin identity.
func RequireSuperAdmin(ctx context.Context) error {
	id := IdentityFromContext(ctx)
	if id == nil {
		return ErrUnauthenticated
	}
	if !id.IsSuperAdmin() {
		return ErrForbidden
	}
	return nil
}
