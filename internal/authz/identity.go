package authz

import "context"

// Identity describes the acting caller for the duration of one request.
// The zero value is the guest identity.
type Identity struct {
	ID   int64
	Role Role
}

// Guest reports whether the identity carries no authenticated user.
func (i Identity) Guest() bool {
	return i.ID == 0 || i.Role == RoleGuest
}

type identityContextKey struct{}

// ContextWithIdentity stores the acting identity in context.
func ContextWithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// IdentityFromContext extracts the acting identity, defaulting to guest.
func IdentityFromContext(ctx context.Context) Identity {
	ident, _ := ctx.Value(identityContextKey{}).(Identity)
	return ident
}
