package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/airx/beds/server/hub/internal/auth"
	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// IngestKeyHeader carries the shared secret of sensor gateways.
const IngestKeyHeader = "X-Ingest-Key"

type contextKey string

const userContextKey contextKey = "user"

// UserResolver loads the current state of an authenticated account.
type UserResolver interface {
	ResolveUser(ctx context.Context, id string) (*models.User, error)
}

type AuthMiddleware struct {
	tokens *auth.TokenIssuer
	users  UserResolver
}

func NewAuthMiddleware(tokens *auth.TokenIssuer, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Authenticate validates the bearer token and adds the account to the context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no token provided", nil))
			return
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			handleError(w, errors.NewAuthError("invalid token", err))
			return
		}

		user, err := m.users.ResolveUser(r.Context(), claims.UserID)
		if err != nil {
			handleError(w, errors.ToAPIError(err, "failed to resolve user"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRoles middleware ensures the account has one of roles
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				handleError(w, errors.NewAuthError("no user context found", nil))
				return
			}

			if !hasRole(user.Role, roles) {
				handleError(w, errors.NewAuthorizationError("insufficient permissions", nil))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin admits ADMIN and SUPER_ADMIN accounts.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)(next)
}

// RequireIngestKey admits requests carrying key in X-Ingest-Key. An empty key
// admits nothing.
func RequireIngestKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(IngestKeyHeader)
			if key == "" || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				handleError(w, errors.NewAuthError("invalid ingest key", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

// Helper functions

func extractToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func hasRole(role models.Role, allowed []models.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func handleError(w http.ResponseWriter, apiErr *errors.APIError) {
	apiErr = apiErr.WithRequestID(nuts.NID("req", 12))
	nuts.L.Debugf("[Auth] %s", apiErr.Error())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Code)
	_ = json.NewEncoder(w).Encode(apiErr.Response())
}
