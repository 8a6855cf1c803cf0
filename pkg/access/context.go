package access

import "context"

// Identity is the authenticated principal the HTTP guards authorize.
// Authentication middleware stores it in the request context; the guards
// only read it.
type Identity struct {
	UserID         string
	OrganizationID string
	MFAVerified    bool
	SessionID      string
}

type identityContextKey struct{}

// WithIdentity stores the identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext retrieves the identity set by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
