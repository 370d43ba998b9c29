package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package, so
// no other package can read or shadow the identity value.
type contextKey string

const identityKey contextKey = "identity"

// Middleware decodes the "Authorization: Token <jwt>" header into a
// viewer Identity on the request context. Requests with no header, a
// different scheme, or an invalid token proceed as anonymous; token
// failures are swallowed, never surfaced. Per-operation guards decide
// whether an anonymous viewer is acceptable.
func Middleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := decodeHeader(r, tokens); ok {
				ctx := context.WithValue(r.Context(), identityKey, id)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the viewer identity from the request
// context. The second return is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// WithIdentity returns a context carrying the given identity. Used by
// tests and anywhere a request context must be built by hand.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func decodeHeader(r *http.Request, tokens *TokenService) (Identity, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Token" {
		return Identity{}, false
	}

	id, err := tokens.Validate(token)
	if err != nil {
		return Identity{}, false
	}
	return id, true
}
