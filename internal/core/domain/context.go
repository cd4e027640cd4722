package domain

import "context"

type identityKey struct{}

// ContextWithIdentity returns a copy of ctx carrying id.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by the auth middleware, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}

// AccountFromContext returns the resolved account, or nil for anonymous requests.
func AccountFromContext(ctx context.Context) *Account {
	if id := IdentityFromContext(ctx); id != nil {
		return id.Account
	}
	return nil
}
