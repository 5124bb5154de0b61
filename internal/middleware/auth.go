// Package middleware provides HTTP middleware for identity resolution,
// request logging, and metrics.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"budgetsplitter/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// identityKey is the context key for the resolved identity.
	identityKey contextKey = "identity"
	// tokenKey is the context key for the raw bearer token.
	tokenKey contextKey = "token"
)

// GetIdentity extracts the resolved identity from the context.
// Returns nil if the request is unauthenticated.
func GetIdentity(ctx context.Context) *models.User {
	user, _ := ctx.Value(identityKey).(*models.User)
	return user
}

// GetToken extracts the raw bearer token from the context.
// Returns empty string if not present.
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// TokenResolver validates a bearer token and returns its identity.
type TokenResolver func(ctx context.Context, token string) (*models.User, error)

// RequireAuth returns middleware that resolves the Authorization bearer
// token on every request and rejects requests without a valid identity.
// Resolution is stateless per request; there is no session cache.
func RequireAuth(resolve TokenResolver, onError func(w http.ResponseWriter, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				onError(w, ErrMissingBearer)
				return
			}

			user, err := resolve(r.Context(), token)
			if err != nil {
				onError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, user)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaticIdentity returns middleware that injects a fixed identity into
// every request. Used in local mode, where there is no authentication and
// a single seeded identity owns the default group.
func StaticIdentity(user *models.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), identityKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ErrMissingBearer indicates the Authorization header is absent or not a
// bearer token.
var ErrMissingBearer = errors.New("authorization token required")

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
