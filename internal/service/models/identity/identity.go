package identity

import (
	"context"
	"errors"
)

// Role is the coarse role attached to an authenticated request by the
// identity collaborator. The order core never checks credentials, only
// compares roles and ownership.
type Role string

const (
	RoleConsumer Role = "consumer"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleConsumer, RoleBusiness, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// Identity is the already-authenticated (user, role) pair.
type Identity struct {
	UserID int64
	Role   Role
}

type ctxKey struct{}

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, ident)
}

// FromContext extracts the identity attached by the transport middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(ctxKey{}).(Identity)

	return ident, ok
}
