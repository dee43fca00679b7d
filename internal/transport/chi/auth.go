package chi

import (
	"context"
	"net/http"
	"strings"

	gen "github.com/kailas-cloud/leadex/internal/transport/generated"
)

// Role is the privilege level attached to an authenticated request.
type Role string

// Roles. Admin implies every user permission.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type roleKey struct{}

// ContextWithRole stores the caller role in ctx.
func ContextWithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFromContext returns the caller role, if any.
func RoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleKey{}).(Role)
	return role, ok
}

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens and
// attaches the key's role to the request context. A key listed in both sets
// is an admin key. If both sets are empty, authentication is disabled and
// every request is treated as admin.
func BearerAuthMiddleware(apiKeys, adminKeys []string) func(http.Handler) http.Handler {
	roles := make(map[string]Role, len(apiKeys)+len(adminKeys))
	for _, k := range apiKeys {
		if k != "" {
			roles[k] = RoleUser
		}
	}
	for _, k := range adminKeys {
		if k != "" {
			roles[k] = RoleAdmin
		}
	}

	return func(next http.Handler) http.Handler {
		if len(roles) == 0 {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(ContextWithRole(r.Context(), RoleAdmin)))
			})
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, gen.ErrorResponseCodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					gen.ErrorResponseCodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			role, ok := roles[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, gen.ErrorResponseCodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithRole(r.Context(), role)))
		})
	}
}

func isAdmin(ctx context.Context) bool {
	role, ok := RoleFromContext(ctx)
	return ok && role == RoleAdmin
}
