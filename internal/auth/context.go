package auth

import "context"

type contextKey string

const identityContextKey contextKey = "ragward_identity"

// ContextWithIdentity records the authenticated entity id on the context.
func ContextWithIdentity(ctx context.Context, entityID string) context.Context {
	return context.WithValue(ctx, identityContextKey, entityID)
}

// IdentityFromContext returns the authenticated entity id, if the request
// presented a valid API key.
func IdentityFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityContextKey).(string)
	return id, ok && id != ""
}
