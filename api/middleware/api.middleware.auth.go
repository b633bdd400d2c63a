// FilePath: api/middleware/api.middleware.auth.go
package middleware

import (
	"context"
	"net/http"

	"github.com/tilthub/brewmonitor/internal/brewservice"
	"github.com/tilthub/brewmonitor/internal/errors"
	"github.com/tilthub/brewmonitor/internal/models"
)

// UserContext carries the authenticated account through the request context.
type UserContext struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware authenticates requests with HTTP basic auth against the
// local user accounts.
type AuthMiddleware struct {
	svc *brewservice.BrewService
}

func NewAuthMiddleware(svc *brewservice.BrewService) *AuthMiddleware {
	return &AuthMiddleware{svc: svc}
}

// Authenticate resolves basic auth credentials into a user context when they
// are present. Requests without credentials pass through anonymously; the
// Require* wrappers decide whether that is acceptable per route.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.svc.VerifyUser(r.Context(), username, password)
		if err != nil {
			handleError(w, errors.NewAuthError("invalid credentials", err))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, newUserContext(user))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects requests that carry no authenticated account.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUser(r.Context()) == nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="brewmonitor"`)
			handleError(w, errors.NewAuthError("authentication required", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from non-admin accounts.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		if !user.IsAdmin() {
			handleError(w, errors.NewAuthorizationError("admin access required", nil))
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// GetUser returns the authenticated account, or nil for anonymous requests.
func GetUser(ctx context.Context) *UserContext {
	user, _ := ctx.Value(userContextKey).(*UserContext)
	return user
}

// IsAdmin reports whether the account carries the admin role.
func (u *UserContext) IsAdmin() bool {
	for _, role := range u.Roles {
		if role == "admin" {
			return true
		}
	}
	return false
}

func newUserContext(user *models.User) *UserContext {
	roles := []string{"user"}
	if user.IsAdmin {
		roles = append(roles, "admin")
	}
	return &UserContext{
		ID:       user.ID,
		Username: user.Username,
		Roles:    roles,
	}
}

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*errors.APIError); ok {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
