package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const callerIDContextKey contextKey = "caller_id"

// TokenVerifier returns the account id carried by a bearer token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type Authenticator struct {
	tokens TokenVerifier
}

func NewAuthenticator(tokens TokenVerifier) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// RequireAuth rejects requests without a valid Bearer token and stores the
// caller's account id in the request context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeUnauthorized(w, "missing authentication")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			writeUnauthorized(w, "invalid authorization header format")
			return
		}

		id, err := a.tokens.Verify(parts[1])
		if err != nil {
			writeUnauthorized(w, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCallerID(r.Context(), id)))
	})
}

func WithCallerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callerIDContextKey, id)
}

// CallerID returns the authenticated account id, if any.
func CallerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(callerIDContextKey).(string)
	return id, ok && id != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"` + message + `"}`))
}
