package oauth

import "context"

// Identity is the effective caller identity attributed to downstream
// record operations. A zero UserID means the anonymous/guest identity.
type Identity struct {
	// ClientID is the OAuth2 client that presented the token.
	ClientID string
	// UserID is the technical user attributed to record operations.
	UserID string
}

// Anonymous reports whether this is the anonymous/guest identity.
func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// AnonymousIdentity returns the guest identity used after a privacy
// downgrade. The client reference is kept for attribution in logs.
func AnonymousIdentity(clientID string) Identity {
	return Identity{ClientID: clientID}
}

type identityContextKey struct{}

// WithIdentity returns a context carrying the caller identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the caller identity from the context.
// A missing identity is the anonymous identity.
func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityContextKey{}).(Identity); ok {
		return id
	}
	return Identity{}
}
