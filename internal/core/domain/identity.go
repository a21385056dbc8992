package domain

import "context"

// Identity is the caller resolved from a verified token for the lifetime of a
// single request.
type Identity struct {
	Username string
	Role     Role
}

// Capability returns the permission granted to the identity.
func (i Identity) Capability() Capability {
	return i.Role.Capability()
}

type identityKey struct{}

// ContextWithIdentity returns a copy of ctx carrying id.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by the authentication
// gate, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
