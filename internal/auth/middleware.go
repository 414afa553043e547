package auth

import (
	"log/slog"
	"net/http"
	"strings"
)

// Middleware resolves an optional Bearer API key into an authenticated
// identity on the request context. Authentication is best-effort: a missing,
// malformed, or unknown key leaves the request anonymous rather than
// rejecting it, since public documents are retrievable without credentials.
// Ownership checks downstream decide what the identity may see.
func Middleware(store KeyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			meta, err := store.Lookup(r.Context(), HashKey(token))
			if err != nil {
				slog.Error("key lookup failed", "error", err, "key_prefix", safePrefix(token))
				next.ServeHTTP(w, r)
				return
			}
			if meta == nil {
				slog.Warn("unknown api key, continuing anonymous", "key_prefix", safePrefix(token))
				next.ServeHTTP(w, r)
				return
			}

			ctx := ContextWithIdentity(r.Context(), meta.EntityID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// safePrefix returns a safe-to-log prefix of an API key (never the full key).
func safePrefix(key string) string {
	if len(key) > 20 {
		return key[:20] + "..."
	}
	return key
}
