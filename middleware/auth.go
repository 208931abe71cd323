package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"go-storefront/session"
	"go-storefront/utils"
)

// Key type for context
type contextKey string

const WorkspaceContextKey = contextKey("workspace")

// Workspaces resolves a session id to its workspace
type Workspaces interface {
	Get(ctx context.Context, id string) (*session.Workspace, error)
}

// AdminUser is the basic-auth user name of the operator endpoints
const AdminUser = "admin"

// SessionMiddleware verifies the storefront session token and attaches the
// session's workspace to the request context
func SessionMiddleware(workspaces Workspaces) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ParseJWT(parts[1])
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ws, err := workspaces.Get(r.Context(), claims.SessionID)
			if err != nil {
				http.Error(w, "Session expired", http.StatusUnauthorized)
				return
			}

			// Attach the workspace to the request context
			ctx := context.WithValue(r.Context(), WorkspaceContextKey, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WorkspaceFrom returns the workspace attached by SessionMiddleware
func WorkspaceFrom(ctx context.Context) (*session.Workspace, bool) {
	ws, ok := ctx.Value(WorkspaceContextKey).(*session.Workspace)
	return ws, ok && ws != nil
}

// AdminMiddleware guards operator endpoints with basic auth checked against
// a bcrypt hash. An empty hash disables them.
func AdminMiddleware(passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordHash == "" {
				http.Error(w, "Forbidden: admin endpoints disabled", http.StatusForbidden)
				return
			}
			user, password, ok := r.BasicAuth()
			if !ok || user != AdminUser ||
				bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="storefront-admin"`)
				http.Error(w, "Forbidden: Admins only", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
